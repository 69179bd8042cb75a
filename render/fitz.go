package render

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// FitzRenderer opens documents with MuPDF. The zero value is usable.
type FitzRenderer struct{}

// NewFitzRenderer returns the MuPDF-backed renderer.
func NewFitzRenderer() *FitzRenderer { return &FitzRenderer{} }

// Open parses the document bytes. The returned Document must be closed.
func (FitzRenderer) Open(ctx context.Context, data []byte) (Document, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int { return d.doc.NumPage() }

func (d *fitzDocument) Text(page int) (string, error) {
	text, err := d.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("extract text from page %d: %w", page+1, err)
	}
	return text, nil
}

func (d *fitzDocument) Render(page int, dpi int) (*Raster, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	img, err := d.doc.ImageDPI(page, float64(dpi))
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page+1, err)
	}
	return EncodePNG(img)
}

func (d *fitzDocument) Close() error { return d.doc.Close() }
