// Package export shapes operation output into downloadable results with
// deterministic names derived from the source filename.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Content types of produced outputs.
const (
	TypePDF      = "application/pdf"
	TypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeText     = "text/plain; charset=utf-8"
	TypeMarkdown = "text/markdown; charset=utf-8"
	TypePNG      = "image/png"
	TypeZip      = "application/zip"
)

// Result is one downloadable artifact.
type Result struct {
	Name        string
	ContentType string
	Data        []byte
}

// Filename derives the output name from the source filename, an operation
// suffix and the target extension. The suffix is appended to the stem with a
// dash; an empty suffix only swaps the extension.
//
//	Filename("report.pdf", "split", ".pdf")       → "report-split.pdf"
//	Filename("report.pdf", "watermarked", ".pdf") → "report-watermarked.pdf"
//	Filename("report.pdf", "", ".docx")           → "report.docx"
func Filename(source, suffix, ext string) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if stem == "" || stem == "." {
		stem = "output"
	}
	if suffix != "" {
		stem += "-" + suffix
	}
	return stem + ext
}

// Numbered derives a per-part output name for multi-output operations such as
// split: Numbered("report.pdf", "page", 3, ".pdf") → "report-page-3.pdf".
func Numbered(source, suffix string, n int, ext string) string {
	return Filename(source, suffix+"-"+strconv.Itoa(n), ext)
}

// WriteFile stores the result under dir, creating it when missing.
func (r Result) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, r.Name)
	if err := os.WriteFile(path, r.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// Archive bundles multiple results into one zip download, preserving order.
func Archive(name string, results []Result) (Result, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, r := range results {
		w, err := zw.Create(r.Name)
		if err != nil {
			return Result{}, fmt.Errorf("add %s: %w", r.Name, err)
		}
		if _, err := w.Write(r.Data); err != nil {
			return Result{}, fmt.Errorf("write %s: %w", r.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return Result{}, fmt.Errorf("finalize archive: %w", err)
	}
	return Result{Name: name, ContentType: TypeZip, Data: buf.Bytes()}, nil
}

// ServeAttachment writes the result as an HTTP attachment download.
func (r Result) ServeAttachment(w http.ResponseWriter) (int, error) {
	ct := r.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": r.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(r.Data)))
	return w.Write(r.Data)
}
