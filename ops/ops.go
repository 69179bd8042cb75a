// Package ops sequences third-party document library calls into the
// operations the toolkit exposes: merge, split, rotate, watermark, page
// numbering, metadata stripping, blank-page removal and format conversion.
// Structure rewriting is delegated to pdfcpu, rasterization and text
// extraction to MuPDF (package render), OCR to the injected engine. Nothing
// here parses PDF content streams.
package ops

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/ocr"
	"github.com/wudi/pdfops/render"
)

// Failure kinds. Every error returned by a Processor operation wraps exactly
// one of these, so callers can branch with errors.Is.
var (
	// ErrInvalidInput marks rejected input: wrong file type, empty page
	// selection, unsupported parameter values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrLibraryUnavailable marks a collaborator that failed to come up, such
	// as the native rendering or OCR backend.
	ErrLibraryUnavailable = errors.New("library unavailable")
	// ErrOperationFailure marks an operation the document library rejected,
	// typically a malformed source document.
	ErrOperationFailure = errors.New("operation failure")
)

// Error carries the failing operation name alongside the failure kind and the
// collaborator's underlying error.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Outcome distinguishes best-effort results so callers can tell "nothing
// found" from "not supported" (see package documentation on degradation).
type Outcome int

const (
	// OutcomeComplete means the step ran and its result is authoritative.
	OutcomeComplete Outcome = iota
	// OutcomePartial means the step ran a heuristic whose result may be
	// incomplete.
	OutcomePartial
	// OutcomeUnsupported means the step degraded to a no-op.
	OutcomeUnsupported
)

func (o Outcome) String() string {
	switch o {
	case OutcomeComplete:
		return "complete"
	case OutcomePartial:
		return "partial"
	case OutcomeUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// pdfcpu keeps an optional on-disk config dir; the toolkit never wants it.
var disableConfigDir sync.Once

// Processor holds the collaborator handles for all operations. Handles are
// explicit constructor inputs and read-only afterwards; there is no ambient
// "library loaded" state.
type Processor struct {
	renderer  render.Renderer
	ocrEngine ocr.Engine
	logger    observability.Logger
	renderDPI int
	languages []string
}

// Option configures a Processor.
type Option func(*Processor)

// WithRenderer injects the rasterization collaborator.
func WithRenderer(r render.Renderer) Option {
	return func(p *Processor) { p.renderer = r }
}

// WithOCR injects the optional OCR engine used as conversion fallback.
func WithOCR(engine ocr.Engine) Option {
	return func(p *Processor) { p.ocrEngine = engine }
}

// WithLogger injects the logger used at operation boundaries.
func WithLogger(l observability.Logger) Option {
	return func(p *Processor) { p.logger = l }
}

// WithRenderDPI sets the DPI used when rasterizing pages.
func WithRenderDPI(dpi int) Option {
	return func(p *Processor) { p.renderDPI = dpi }
}

// WithOCRLanguages sets trained-data hints passed to the OCR engine.
func WithOCRLanguages(langs ...string) Option {
	return func(p *Processor) { p.languages = append([]string(nil), langs...) }
}

// New constructs a Processor. Without options it can run every pure pdfcpu
// operation; conversion and the text-length blank heuristic additionally
// need a renderer.
func New(opts ...Option) *Processor {
	disableConfigDir.Do(api.DisableConfigDir)
	p := &Processor{
		renderer:  render.NewFitzRenderer(),
		logger:    observability.NopLogger{},
		renderDPI: render.DefaultDPI,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// conf returns a fresh default pdfcpu configuration. pdfcpu mutates the
// configuration during processing, so operations never share one.
func (p *Processor) conf() *model.Configuration {
	return model.NewDefaultConfiguration()
}

// fail wraps, logs and returns an operation failure.
func (p *Processor) fail(op string, kind, err error) error {
	e := &Error{Op: op, Kind: kind, Err: err}
	p.logger.Error("operation failed",
		observability.String("op", op),
		observability.Error("err", e),
	)
	return e
}

func (p *Processor) done(op string, inBytes, outBytes int) {
	p.logger.Info("operation complete",
		observability.String("op", op),
		observability.Int("input_bytes", inBytes),
		observability.Int("output_bytes", outBytes),
	)
}
