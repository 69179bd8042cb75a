// Package validate performs cheap structural checks on uploaded files before
// any document library touches them. Detection is magic-byte based; file
// extensions are advisory only.
package validate

import (
	"bytes"
	"errors"
	"fmt"
)

// Kind identifies a supported input file type.
type Kind string

const (
	KindPDF     Kind = "application/pdf"
	KindPNG     Kind = "image/png"
	KindJPEG    Kind = "image/jpeg"
	KindUnknown Kind = ""
)

// ErrUnsupportedType is returned when the payload matches none of the
// supported signatures.
var ErrUnsupportedType = errors.New("unsupported file type")

var (
	pdfMagic  = []byte("%PDF-")
	pngMagic  = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	jpegMagic = []byte{0xff, 0xd8, 0xff}
)

// Sniff detects the file type from its leading bytes.
//
// PDF detection tolerates a small amount of junk before the header; real
// documents produced by some generators carry a BOM or whitespace there and
// the document libraries accept them.
func Sniff(data []byte) (Kind, error) {
	if len(data) == 0 {
		return KindUnknown, fmt.Errorf("empty input: %w", ErrUnsupportedType)
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	switch {
	case bytes.Contains(head, pdfMagic):
		return KindPDF, nil
	case bytes.HasPrefix(data, pngMagic):
		return KindPNG, nil
	case bytes.HasPrefix(data, jpegMagic):
		return KindJPEG, nil
	}
	return KindUnknown, ErrUnsupportedType
}

// PDF verifies that data looks like a PDF document.
func PDF(data []byte) error {
	kind, err := Sniff(data)
	if err != nil {
		return err
	}
	if kind != KindPDF {
		return fmt.Errorf("expected PDF, got %s: %w", kind, ErrUnsupportedType)
	}
	return nil
}

// Image verifies that data looks like a PNG or JPEG image.
func Image(data []byte) error {
	kind, err := Sniff(data)
	if err != nil {
		return err
	}
	if kind != KindPNG && kind != KindJPEG {
		return fmt.Errorf("expected PNG or JPEG, got %s: %w", kind, ErrUnsupportedType)
	}
	return nil
}

// DefaultMaxSize is the advisory input ceiling. Oversize inputs are not
// rejected; callers log and proceed.
const DefaultMaxSize = 100 << 20

// Oversize reports whether data exceeds the given ceiling (or DefaultMaxSize
// when max is zero).
func Oversize(data []byte, max int64) bool {
	if max <= 0 {
		max = DefaultMaxSize
	}
	return int64(len(data)) > max
}
