package ops

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/pagerange"
	"github.com/wudi/pdfops/validate"
)

// ExtractedImage is one embedded image pulled out of the document.
type ExtractedImage struct {
	Name string
	Data []byte
}

// ExtractImages pulls the embedded raster images out of the selected pages
// (all pages when expr is empty). The step is best-effort: when the document
// library cannot walk the image resources the result degrades to an empty
// list with OutcomeUnsupported instead of failing.
func (p *Processor) ExtractImages(ctx context.Context, data []byte, expr string) ([]ExtractedImage, Outcome, error) {
	const op = "extract-images"
	if err := validate.PDF(data); err != nil {
		return nil, OutcomeUnsupported, p.fail(op, ErrInvalidInput, err)
	}
	var selection []string
	if expr != "" {
		n, err := p.PageCount(ctx, data)
		if err != nil {
			return nil, OutcomeUnsupported, err
		}
		indices := pagerange.Parse(expr, n)
		if len(indices) == 0 {
			return nil, OutcomeComplete, nil
		}
		selection = pagerange.Selection(indices)
	}
	if err := ctx.Err(); err != nil {
		return nil, OutcomeUnsupported, p.fail(op, ErrOperationFailure, err)
	}

	pageImages, err := api.ExtractImagesRaw(bytes.NewReader(data), selection, p.conf())
	if err != nil {
		p.logger.Warn("image extraction degraded to empty result",
			observability.Error("err", err),
		)
		return nil, OutcomeUnsupported, nil
	}

	out := make([]ExtractedImage, 0)
	for _, byObj := range pageImages {
		for objNr, img := range byObj {
			raw, err := io.ReadAll(img)
			if err != nil {
				p.logger.Warn("skipping unreadable image",
					observability.Int("object", objNr),
					observability.Error("err", err),
				)
				continue
			}
			name := img.Name
			if name == "" {
				name = fmt.Sprintf("image-%d", objNr)
			}
			if img.FileType != "" {
				name = fmt.Sprintf("%s.%s", name, img.FileType)
			}
			out = append(out, ExtractedImage{Name: name, Data: raw})
		}
	}
	p.logger.Info("extracted images", observability.Int("count", len(out)))
	return out, OutcomeComplete, nil
}
