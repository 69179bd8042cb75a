// Package ocr defines the abstraction for plugging third-party OCR engines
// into the conversion pipeline. It exists only as a best-effort text fallback
// for pages whose embedded text layer is empty; engines are injected
// explicitly, never discovered through ambient state.
package ocr

import (
	"context"
	"fmt"

	"github.com/wudi/pdfops/render"
)

// ImageFormat identifies the content type of an OCR input image.
type ImageFormat string

const (
	ImageFormatPNG  ImageFormat = "image/png"
	ImageFormatJPEG ImageFormat = "image/jpeg"
)

// Input encapsulates a single page image submitted for OCR.
type Input struct {
	// ID is an optional caller-provided identifier echoed back in the Result.
	ID string
	// Image is the encoded image payload in the format specified by Format.
	Image []byte
	// Format declares the image content type.
	Format ImageFormat
	// PageIndex links the input back to the zero-based page it came from.
	PageIndex int
	// DPI carries the effective dots-per-inch of the rendered page; zero
	// means unknown.
	DPI int
	// Languages is a list of trained-data hints (e.g. "eng", "deu").
	Languages []string
	// Metadata passes engine-specific knobs (e.g. "tessedit_pageseg_mode")
	// without hard-coding them into the API surface.
	Metadata map[string]string
}

// Result captures OCR output for a single input image.
type Result struct {
	// InputID mirrors the Input.ID that produced this result.
	InputID string
	// PlainText contains the linearized text recognized in the image.
	PlainText string
	// Confidence is the mean word confidence in [0, 1]; zero when the engine
	// does not report one.
	Confidence float64
}

// Engine is the simplest OCR provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Result, error)
}

// BatchEngine handles multiple images in a single call, enabling providers
// that amortize setup costs or remote round-trips.
type BatchEngine interface {
	Engine
	RecognizeBatch(ctx context.Context, inputs []Input) ([]Result, error)
}

// InputOption mutates an OCR input built from a page raster.
type InputOption func(*Input)

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// InputFromRaster converts a rendered page raster into an OCR input. The
// generated ID is stable for a page index to simplify correlation with
// results.
func InputFromRaster(pageIndex int, raster *render.Raster, opts ...InputOption) Input {
	in := Input{
		ID:        fmt.Sprintf("page-%d", pageIndex+1),
		Image:     raster.PNG,
		Format:    ImageFormatPNG,
		PageIndex: pageIndex,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// Recognize runs the inputs through the engine, using batch mode when the
// provider supports it. Inputs are processed sequentially otherwise.
func Recognize(ctx context.Context, engine Engine, inputs []Input) ([]Result, error) {
	if b, ok := engine.(BatchEngine); ok {
		return b.RecognizeBatch(ctx, inputs)
	}
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := engine.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}
