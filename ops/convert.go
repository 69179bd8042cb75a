package ops

import (
	"context"
	"strings"

	"github.com/wudi/pdfops/docx"
	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/ocr"
	"github.com/wudi/pdfops/render"
	"github.com/wudi/pdfops/validate"
)

// ConvertOptions shapes format conversion.
type ConvertOptions struct {
	// IncludeImages embeds a raster snapshot of each page into the DOCX.
	IncludeImages bool
	// OCRFallback runs the injected OCR engine on pages whose text layer is
	// empty. Best-effort: OCR failures degrade to empty text.
	OCRFallback bool
	// MaxImageWidth caps embedded raster width in pixels; default 1000.
	MaxImageWidth int
}

func (o ConvertOptions) withDefaults() ConvertOptions {
	if o.MaxImageWidth <= 0 {
		o.MaxImageWidth = 1000
	}
	return o
}

// ConvertDOCX converts the document into a minimal OOXML word-processing
// container: one text block per page, optionally preceded by a raster
// snapshot of the page.
func (p *Processor) ConvertDOCX(ctx context.Context, data []byte, opts ConvertOptions) ([]byte, error) {
	const op = "convert-docx"
	opts = opts.withDefaults()
	pages, rasters, err := p.extractPageContent(ctx, op, data, opts)
	if err != nil {
		return nil, err
	}
	out, err := docx.Write(pages, rasters)
	if err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), len(out))
	return out, nil
}

// ConvertText extracts the plain text layer, one page per block separated by
// blank lines.
func (p *Processor) ConvertText(ctx context.Context, data []byte, opts ConvertOptions) ([]byte, error) {
	const op = "convert-text"
	opts.IncludeImages = false
	pages, _, err := p.extractPageContent(ctx, op, data, opts)
	if err != nil {
		return nil, err
	}
	out := []byte(strings.Join(pages, "\n\n"))
	p.done(op, len(data), len(out))
	return out, nil
}

// ConvertMarkdown extracts the text layer with a thematic break between
// pages. Only the embedded text layer is used; layout is not reconstructed.
func (p *Processor) ConvertMarkdown(ctx context.Context, data []byte, opts ConvertOptions) ([]byte, error) {
	const op = "convert-markdown"
	opts.IncludeImages = false
	pages, _, err := p.extractPageContent(ctx, op, data, opts)
	if err != nil {
		return nil, err
	}
	trimmed := make([]string, 0, len(pages))
	for _, page := range pages {
		if s := strings.TrimSpace(page); s != "" {
			trimmed = append(trimmed, s)
		}
	}
	out := []byte(strings.Join(trimmed, "\n\n---\n\n"))
	p.done(op, len(data), len(out))
	return out, nil
}

// extractPageContent pulls the per-page text (OCR fallback where enabled)
// and, when requested, a raster snapshot per page.
func (p *Processor) extractPageContent(ctx context.Context, op string, data []byte, opts ConvertOptions) ([]string, []*render.Raster, error) {
	if err := validate.PDF(data); err != nil {
		return nil, nil, p.fail(op, ErrInvalidInput, err)
	}
	doc, err := p.renderer.Open(ctx, data)
	if err != nil {
		return nil, nil, p.fail(op, ErrLibraryUnavailable, err)
	}
	defer doc.Close()

	n := doc.PageCount()
	pages := make([]string, n)
	rasters := make([]*render.Raster, n)
	for idx := 0; idx < n; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, p.fail(op, ErrOperationFailure, err)
		}
		text, err := doc.Text(idx)
		if err != nil {
			return nil, nil, p.fail(op, ErrOperationFailure, err)
		}
		pages[idx] = normalizeText(text)

		var raster *render.Raster
		if opts.IncludeImages || (opts.OCRFallback && pages[idx] == "" && p.ocrEngine != nil) {
			raster, err = doc.Render(idx, p.renderDPI)
			if err != nil {
				return nil, nil, p.fail(op, ErrOperationFailure, err)
			}
		}
		if opts.OCRFallback && pages[idx] == "" && p.ocrEngine != nil {
			pages[idx] = p.ocrPage(ctx, idx, raster)
		}
		if opts.IncludeImages {
			scaled, err := render.Scale(raster, opts.MaxImageWidth)
			if err != nil {
				return nil, nil, p.fail(op, ErrOperationFailure, err)
			}
			rasters[idx] = scaled
		}
	}
	return pages, rasters, nil
}

// ocrPage is strictly best-effort: any failure degrades to empty text with a
// warning rather than failing the conversion.
func (p *Processor) ocrPage(ctx context.Context, idx int, raster *render.Raster) string {
	if raster == nil {
		return ""
	}
	in := ocr.InputFromRaster(idx, raster, ocr.WithDPI(p.renderDPI), ocr.WithLanguages(p.languages...))
	res, err := p.ocrEngine.Recognize(ctx, in)
	if err != nil {
		p.logger.Warn("ocr fallback failed",
			observability.Int("page", idx+1),
			observability.Error("err", err),
		)
		return ""
	}
	return normalizeText(res.PlainText)
}

func normalizeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}
