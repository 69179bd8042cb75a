package ops

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/validate"
)

// Merge concatenates the inputs into one document, preserving input order.
// Inputs are validated strictly sequentially so a bad file is reported with
// its position.
func (p *Processor) Merge(ctx context.Context, inputs [][]byte) ([]byte, error) {
	const op = "merge"
	if len(inputs) < 2 {
		return nil, p.fail(op, ErrInvalidInput, fmt.Errorf("need at least 2 documents, got %d", len(inputs)))
	}
	rsc := make([]io.ReadSeeker, 0, len(inputs))
	total := 0
	for i, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, p.fail(op, ErrOperationFailure, err)
		}
		if err := validate.PDF(in); err != nil {
			return nil, p.fail(op, ErrInvalidInput, fmt.Errorf("input %d: %w", i+1, err))
		}
		p.logger.Debug("merging input",
			observability.Int("index", i+1),
			observability.Int("bytes", len(in)),
		)
		rsc = append(rsc, bytes.NewReader(in))
		total += len(in)
	}
	var buf bytes.Buffer
	if err := api.MergeRaw(rsc, &buf, false, p.conf()); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, total, buf.Len())
	return buf.Bytes(), nil
}

// PageCount reports the number of pages in the document.
func (p *Processor) PageCount(ctx context.Context, data []byte) (int, error) {
	const op = "pagecount"
	if err := validate.PDF(data); err != nil {
		return 0, p.fail(op, ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return 0, p.fail(op, ErrOperationFailure, err)
	}
	n, err := api.PageCount(bytes.NewReader(data), p.conf())
	if err != nil {
		return 0, p.fail(op, ErrOperationFailure, err)
	}
	return n, nil
}
