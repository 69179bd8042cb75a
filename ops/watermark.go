package ops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/wudi/pdfops/pagerange"
	"github.com/wudi/pdfops/validate"
)

// WatermarkOptions shapes a text watermark. Zero values fall back to a
// centered diagonal gray stamp at 30% opacity.
type WatermarkOptions struct {
	// FontSize in points; default 48.
	FontSize int
	// Opacity in (0, 1]; default 0.3.
	Opacity float64
	// Rotation in degrees; default 45 (diagonal).
	Rotation int
	// Color as #RRGGBB; default #808080.
	Color string
	// OnTop stamps over the content instead of behind it; default true so
	// the mark stays visible over opaque backgrounds.
	OnTop *bool
	// Pages is an optional 1-based selector expression; empty means all.
	Pages string
}

func (o WatermarkOptions) withDefaults() WatermarkOptions {
	if o.FontSize <= 0 {
		o.FontSize = 48
	}
	if o.Opacity <= 0 || o.Opacity > 1 {
		o.Opacity = 0.3
	}
	if o.Color == "" {
		o.Color = "#808080"
	}
	if o.OnTop == nil {
		t := true
		o.OnTop = &t
	}
	return o
}

func (o WatermarkOptions) desc() string {
	return fmt.Sprintf("fontname:Helvetica, points:%d, pos:c, rot:%d, op:%s, fillcolor:%s, scale:1 abs",
		o.FontSize, o.Rotation, trimFloat(o.Opacity), o.Color)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Watermark stamps the given text across the selected pages.
func (p *Processor) Watermark(ctx context.Context, data []byte, text string, opts WatermarkOptions) ([]byte, error) {
	const op = "watermark"
	if strings.TrimSpace(text) == "" {
		return nil, p.fail(op, ErrInvalidInput, errors.New("empty watermark text"))
	}
	opts = opts.withDefaults()
	if opts.Rotation == 0 {
		opts.Rotation = 45
	}
	wm, err := api.TextWatermark(text, opts.desc(), *opts.OnTop, false, types.POINTS)
	if err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	return p.applyWatermark(ctx, op, data, opts.Pages, wmApplier(wm))
}

// StampImageOptions shapes an image stamp.
type StampImageOptions struct {
	// Scale relative to page size in (0, 1]; default 0.25.
	Scale float64
	// Position anchor (pdfcpu anchors: c, tl, bc, ...); default "br".
	Position string
	// Opacity in (0, 1]; default 1.
	Opacity float64
	// Pages is an optional 1-based selector expression; empty means all.
	Pages string
}

// StampImage stamps a PNG or JPEG onto the selected pages, e.g. a signature
// or a logo.
func (p *Processor) StampImage(ctx context.Context, data, image []byte, opts StampImageOptions) ([]byte, error) {
	const op = "stamp-image"
	if err := validate.Image(image); err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	if opts.Scale <= 0 || opts.Scale > 1 {
		opts.Scale = 0.25
	}
	if opts.Position == "" {
		opts.Position = "br"
	}
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = 1
	}
	desc := fmt.Sprintf("scale:%s rel, pos:%s, rot:0, op:%s", trimFloat(opts.Scale), opts.Position, trimFloat(opts.Opacity))
	wm, err := api.ImageWatermarkForReader(bytes.NewReader(image), desc, true, false, types.POINTS)
	if err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	return p.applyWatermark(ctx, op, data, opts.Pages, wmApplier(wm))
}

// PageNumberOptions shapes page-number stamping.
type PageNumberOptions struct {
	// Format may reference {page} and {pages}; default "{page}".
	Format string
	// FontSize in points; default 10.
	FontSize int
	// Color as #RRGGBB; default #666666.
	Color string
	// Start offsets the first printed number; default 1.
	Start int
}

// StampPageNumbers writes a number at the bottom center of every page.
func (p *Processor) StampPageNumbers(ctx context.Context, data []byte, opts PageNumberOptions) ([]byte, error) {
	const op = "page-numbers"
	if opts.Format == "" {
		opts.Format = "{page}"
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 10
	}
	if opts.Color == "" {
		opts.Color = "#666666"
	}
	if opts.Start <= 0 {
		opts.Start = 1
	}
	n, err := p.PageCount(ctx, data)
	if err != nil {
		return nil, err
	}
	desc := fmt.Sprintf("fontname:Helvetica, points:%d, pos:bc, off:0 15, rot:0, op:1, fillcolor:%s, scale:1 abs",
		opts.FontSize, opts.Color)
	marks := make(map[int]*model.Watermark, n)
	for page := 1; page <= n; page++ {
		label := strings.NewReplacer(
			"{page}", strconv.Itoa(opts.Start+page-1),
			"{pages}", strconv.Itoa(opts.Start+n-1),
		).Replace(opts.Format)
		wm, err := api.TextWatermark(label, desc, true, false, types.POINTS)
		if err != nil {
			return nil, p.fail(op, ErrInvalidInput, err)
		}
		marks[page] = wm
	}
	return p.applyWatermark(ctx, op, data, "", func(rs *bytes.Reader, w *bytes.Buffer, _ []string) error {
		return api.AddWatermarksMap(rs, w, marks, p.conf())
	})
}

// RemovePageNumbers paints an opaque page-colored box over the bottom-center
// strip where page numbers conventionally sit. This is a redaction-style
// heuristic: numbers placed elsewhere survive, and footer content in the
// strip is lost with them. The Outcome is therefore always Partial.
func (p *Processor) RemovePageNumbers(ctx context.Context, data []byte) ([]byte, Outcome, error) {
	const op = "remove-page-numbers"
	blank := strings.Repeat(" ", 24)
	desc := "fontname:Helvetica, points:14, pos:bc, off:0 10, rot:0, op:1, fillcolor:#ffffff, backgroundcolor:#ffffff, margins:6, scale:1 abs"
	wm, err := api.TextWatermark(blank, desc, true, false, types.POINTS)
	if err != nil {
		return nil, OutcomeUnsupported, p.fail(op, ErrOperationFailure, err)
	}
	out, err := p.applyWatermark(ctx, op, data, "", wmApplier(wm))
	if err != nil {
		return nil, OutcomeUnsupported, err
	}
	return out, OutcomePartial, nil
}

func wmApplier(wm *model.Watermark) func(*bytes.Reader, *bytes.Buffer, []string) error {
	return func(rs *bytes.Reader, w *bytes.Buffer, selection []string) error {
		return api.AddWatermarks(rs, w, selection, wm, model.NewDefaultConfiguration())
	}
}

func (p *Processor) applyWatermark(ctx context.Context, op string, data []byte, expr string, apply func(*bytes.Reader, *bytes.Buffer, []string) error) ([]byte, error) {
	if err := validate.PDF(data); err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	var selection []string
	if expr != "" {
		n, err := p.PageCount(ctx, data)
		if err != nil {
			return nil, err
		}
		indices := pagerange.Parse(expr, n)
		if len(indices) == 0 {
			return nil, p.fail(op, ErrInvalidInput, fmt.Errorf("selector %q matches no pages", expr))
		}
		selection = pagerange.Selection(indices)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	var buf bytes.Buffer
	if err := apply(bytes.NewReader(data), &buf, selection); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}
