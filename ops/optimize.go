package ops

import (
	"bytes"
	"context"
	"errors"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/wudi/pdfops/validate"
)

// Compress rewrites the document with the library's optimizer: duplicate
// resources are folded and unused objects dropped. Output size depends
// entirely on the input's redundancy.
func (p *Processor) Compress(ctx context.Context, data []byte) ([]byte, error) {
	const op = "compress"
	if err := validate.PDF(data); err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	var buf bytes.Buffer
	if err := api.Optimize(bytes.NewReader(data), &buf, p.conf()); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}

// Encrypt protects the document with the given passwords. The owner password
// falls back to the user password when empty.
func (p *Processor) Encrypt(ctx context.Context, data []byte, userPW, ownerPW string) ([]byte, error) {
	const op = "encrypt"
	if userPW == "" && ownerPW == "" {
		return nil, p.fail(op, ErrInvalidInput, errors.New("no password given"))
	}
	if err := validate.PDF(data); err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	if ownerPW == "" {
		ownerPW = userPW
	}
	conf := p.conf()
	conf.UserPW = userPW
	conf.OwnerPW = ownerPW
	var buf bytes.Buffer
	if err := api.Encrypt(bytes.NewReader(data), &buf, conf); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}

// Decrypt removes password protection, given either the user or the owner
// password.
func (p *Processor) Decrypt(ctx context.Context, data []byte, password string) ([]byte, error) {
	const op = "decrypt"
	if password == "" {
		return nil, p.fail(op, ErrInvalidInput, errors.New("no password given"))
	}
	if err := validate.PDF(data); err != nil {
		return nil, p.fail(op, ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	conf := p.conf()
	conf.UserPW = password
	conf.OwnerPW = password
	var buf bytes.Buffer
	if err := api.Decrypt(bytes.NewReader(data), &buf, conf); err != nil {
		return nil, p.fail(op, ErrOperationFailure, err)
	}
	p.done(op, len(data), buf.Len())
	return buf.Bytes(), nil
}
