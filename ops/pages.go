package ops

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/wudi/pdfops/pagerange"
	"github.com/wudi/pdfops/validate"
)

// Split breaks the document into one single-page document per source page.
// Pages are serialized strictly in order.
func (p *Processor) Split(ctx context.Context, data []byte) ([][]byte, error) {
	const op = "split"
	n, err := p.PageCount(ctx, data)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, 0, n)
	for page := 1; page <= n; page++ {
		if err := ctx.Err(); err != nil {
			return nil, p.fail(op, ErrOperationFailure, err)
		}
		var buf bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &buf, []string{fmt.Sprintf("%d", page)}, p.conf()); err != nil {
			return nil, p.fail(op, ErrOperationFailure, fmt.Errorf("page %d: %w", page, err))
		}
		out = append(out, buf.Bytes())
	}
	p.done(op, len(data), n)
	return out, nil
}

// SplitRange is Split restricted to the pages named by the selector
// expression: one single-page document per selected page, in selection order.
func (p *Processor) SplitRange(ctx context.Context, data []byte, expr string) ([][]byte, error) {
	const op = "split"
	n, err := p.PageCount(ctx, data)
	if err != nil {
		return nil, err
	}
	selected := pagerange.Parse(expr, n)
	if len(selected) == 0 {
		return nil, p.fail(op, ErrInvalidInput, fmt.Errorf("selection %q matches no pages", expr))
	}
	out := make([][]byte, 0, len(selected))
	for _, page := range selected {
		if err := ctx.Err(); err != nil {
			return nil, p.fail(op, ErrOperationFailure, err)
		}
		var buf bytes.Buffer
		if err := api.Trim(bytes.NewReader(data), &buf, []string{fmt.Sprintf("%d", page+1)}, p.conf()); err != nil {
			return nil, p.fail(op, ErrOperationFailure, fmt.Errorf("page %d: %w", page+1, err))
		}
		out = append(out, buf.Bytes())
	}
	p.done(op, len(data), len(selected))
	return out, nil
}

// ExtractPages keeps only the pages named by the 1-based selector expression
// ("1-3,5"). Out-of-range and malformed entries are dropped; an expression
// that selects nothing is an input error.
func (p *Processor) ExtractPages(ctx context.Context, data []byte, expr string) ([]byte, error) {
	const op = "extract"
	n, err := p.PageCount(ctx, data)
	if err != nil {
		return nil, err
	}
	indices := pagerange.Parse(expr, n)
	if len(indices) == 0 {
		return nil, p.fail(op, ErrInvalidInput, fmt.Errorf("selector %q matches no pages of %d", expr, n))
	}
	var buf bytes.Buffer
	if err := api.Trim(bytes.NewReader(data), &buf, pagerange.Selection(indices), p.conf()); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}

// RemovePages deletes the pages named by the selector expression.
func (p *Processor) RemovePages(ctx context.Context, data []byte, expr string) ([]byte, error) {
	const op = "remove"
	n, err := p.PageCount(ctx, data)
	if err != nil {
		return nil, err
	}
	indices := pagerange.Parse(expr, n)
	if len(indices) == 0 {
		return nil, p.fail(op, ErrInvalidInput, fmt.Errorf("selector %q matches no pages of %d", expr, n))
	}
	if len(indices) == n {
		return nil, p.fail(op, ErrInvalidInput, errors.New("cannot remove every page"))
	}
	var buf bytes.Buffer
	if err := api.RemovePages(bytes.NewReader(data), &buf, pagerange.Selection(indices), p.conf()); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}

// Reorder produces a document with exactly len(order) pages, where output
// page i is source page order[i] (1-based, clamped to valid bounds). Pages
// may repeat or be dropped; the length contract always holds.
func (p *Processor) Reorder(ctx context.Context, data []byte, order []int) ([]byte, error) {
	const op = "reorder"
	if len(order) == 0 {
		return nil, p.fail(op, ErrInvalidInput, errors.New("empty page order"))
	}
	n, err := p.PageCount(ctx, data)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, p.fail(op, ErrInvalidInput, errors.New("document has no pages"))
	}
	indices := pagerange.Clamp(order, n)
	var buf bytes.Buffer
	if err := api.Collect(bytes.NewReader(data), &buf, pagerange.Selection(indices), p.conf()); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}

// Rotate rotates the selected pages (all pages when expr is empty) by the
// given clockwise angle, which must be a multiple of 90.
func (p *Processor) Rotate(ctx context.Context, data []byte, degrees int, expr string) ([]byte, error) {
	const op = "rotate"
	norm := ((degrees % 360) + 360) % 360
	if norm != 90 && norm != 180 && norm != 270 {
		return nil, p.fail(op, ErrInvalidInput, fmt.Errorf("rotation %d is not a multiple of 90", degrees))
	}
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
	if err := api.Rotate(bytes.NewReader(data), &buf, norm, selection, p.conf()); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}
