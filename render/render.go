// Package render abstracts the page rasterization collaborator. The concrete
// implementation delegates to MuPDF via go-fitz; nothing in this repository
// rasterizes content itself.
package render

import (
	"bytes"
	"context"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Raster is a bitmap snapshot of a single page, PNG-encoded.
type Raster struct {
	Width  int
	Height int
	PNG    []byte
}

// Document is an open source document handle.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int
	// Text returns the embedded text layer of the zero-based page.
	Text(page int) (string, error)
	// Render rasterizes the zero-based page at the given DPI.
	Render(page int, dpi int) (*Raster, error)
	// Close releases the underlying native resources.
	Close() error
}

// Renderer opens documents for text extraction and rasterization.
type Renderer interface {
	Open(ctx context.Context, data []byte) (Document, error)
}

// DefaultDPI is used when callers pass a non-positive DPI.
const DefaultDPI = 144

// EncodePNG converts a decoded image into a Raster.
func EncodePNG(img image.Image) (*Raster, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Raster{Width: b.Dx(), Height: b.Dy(), PNG: buf.Bytes()}, nil
}

// Scale returns a raster whose width does not exceed maxWidth, downscaling
// proportionally when needed. Rasters already within bounds are returned
// unchanged.
func Scale(r *Raster, maxWidth int) (*Raster, error) {
	if r == nil || maxWidth <= 0 || r.Width <= maxWidth {
		return r, nil
	}
	src, err := png.Decode(bytes.NewReader(r.PNG))
	if err != nil {
		return nil, err
	}
	h := r.Height * maxWidth / r.Width
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return EncodePNG(dst)
}
