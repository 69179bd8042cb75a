package ops

import (
	"bytes"
	"context"
	"errors"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/wudi/pdfops/validate"
)

// StripMetadata removes the document information dictionary and the XMP
// metadata stream from the catalog, then rewrites the file. The writing
// library stamps its own Producer entry on output; everything user-supplied
// (title, author, subject, keywords, custom properties) is gone.
func (p *Processor) StripMetadata(ctx context.Context, data []byte) ([]byte, error) {
	const op = "strip-metadata"
	if err := validate.PDF(data); err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	pdfCtx, err := api.ReadContext(bytes.NewReader(data), p.conf())
	if err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	pdfCtx.XRefTable.Info = nil
	rootDict, err := pdfCtx.Catalog()
	if err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	rootDict.Delete("Metadata")
	var buf bytes.Buffer
	if err := api.WriteContext(pdfCtx, &buf); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}

// SetProperties adds or overwrites custom document properties.
func (p *Processor) SetProperties(ctx context.Context, data []byte, props map[string]string) ([]byte, error) {
	const op = "set-properties"
	if len(props) == 0 {
		return nil, p.fail(op, ErrInvalidInput, errors.New("no properties given"))
	}
	if err := validate.PDF(data); err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	var buf bytes.Buffer
	if err := api.AddProperties(bytes.NewReader(data), &buf, props, p.conf()); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}
