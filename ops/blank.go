package ops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/pagerange"
	"github.com/wudi/pdfops/validate"
)

// BlankVariant selects which blank-page heuristic runs.
type BlankVariant int

const (
	// BlankByByteSize serializes each page in isolation and treats pages
	// below a byte threshold as blank.
	BlankByByteSize BlankVariant = iota
	// BlankByTextLength treats pages whose extracted text layer is shorter
	// than a character threshold as blank. Image-only pages always classify
	// as blank under this variant.
	BlankByTextLength
)

// Default thresholds. Both values are empirical; neither variant is a
// semantic analysis, and misclassification in both directions is an accepted
// limitation.
const (
	DefaultBlankByteThreshold = 1200
	DefaultBlankTextThreshold = 50
)

// BlankPageOptions configures the heuristic.
type BlankPageOptions struct {
	Variant       BlankVariant
	ByteThreshold int
	TextThreshold int
}

func (o BlankPageOptions) withDefaults() BlankPageOptions {
	if o.ByteThreshold <= 0 {
		o.ByteThreshold = DefaultBlankByteThreshold
	}
	if o.TextThreshold <= 0 {
		o.TextThreshold = DefaultBlankTextThreshold
	}
	return o
}

// DetectBlankPages returns the zero-based indices the heuristic classifies as
// blank.
func (p *Processor) DetectBlankPages(ctx context.Context, data []byte, opts BlankPageOptions) ([]int, error) {
	blank, _, err := p.detectBlankPages(ctx, data, opts)
	return blank, err
}

func (p *Processor) detectBlankPages(ctx context.Context, data []byte, opts BlankPageOptions) ([]int, int, error) {
	const op = "detect-blank"
	opts = opts.withDefaults()
	if err := validate.PDF(data); err != nil {
		return nil, 0, p.fail(op, ErrInvalidInput, err)
	}

	var classify func(idx int) (bool, error)
	var n int
	switch opts.Variant {
	case BlankByTextLength:
		doc, err := p.renderer.Open(ctx, data)
		if err != nil {
			return nil, 0, p.fail(op, ErrLibraryUnavailable, err)
		}
		defer doc.Close()
		n = doc.PageCount()
		classify = func(idx int) (bool, error) {
			text, err := doc.Text(idx)
			if err != nil {
				return false, err
			}
			return len(strings.TrimSpace(text)) < opts.TextThreshold, nil
		}
	default:
		count, err := p.PageCount(ctx, data)
		if err != nil {
			return nil, 0, err
		}
		n = count
		classify = func(idx int) (bool, error) {
			var buf bytes.Buffer
			if err := api.Trim(bytes.NewReader(data), &buf, []string{strconv.Itoa(idx + 1)}, p.conf()); err != nil {
				return false, err
			}
			return buf.Len() < opts.ByteThreshold, nil
		}
	}

	blank := make([]int, 0)
	for idx := 0; idx < n; idx++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, p.fail(op, ErrOperationFailure, err)
		}
		isBlank, err := classify(idx)
		if err != nil {
			return nil, 0, p.fail(op, ErrOperationFailure, fmt.Errorf("page %d: %w", idx+1, err))
		}
		if isBlank {
			blank = append(blank, idx)
		}
	}
	p.logger.Info("blank page detection",
		observability.Int("pages", n),
		observability.Int("blank", len(blank)),
	)
	return blank, n, nil
}

// RemoveBlankPages drops the pages the heuristic flags. When nothing is
// flagged the input bytes come back unchanged; a document where every page
// classifies as blank is rejected rather than emptied.
func (p *Processor) RemoveBlankPages(ctx context.Context, data []byte, opts BlankPageOptions) ([]byte, int, error) {
	const op = "remove-blank"
	blank, n, err := p.detectBlankPages(ctx, data, opts)
	if err != nil {
		return nil, 0, err
	}
	if len(blank) == 0 {
		return data, 0, nil
	}
	if len(blank) == n {
		return nil, 0, p.fail(op, ErrInvalidInput, errors.New("every page classified blank"))
	}
	var buf bytes.Buffer
	if err := api.RemovePages(bytes.NewReader(data), &buf, pagerange.Selection(blank), p.conf()); err != nil {
		return nil, 0, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), len(blank), nil
}
