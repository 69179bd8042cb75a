package server

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wudi/pdfops/config"
	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/ops"
	"github.com/wudi/pdfops/render"
)

type stubDocument struct {
	texts []string
}

func (d *stubDocument) PageCount() int { return len(d.texts) }

func (d *stubDocument) Text(page int) (string, error) {
	if page < 0 || page >= len(d.texts) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return d.texts[page], nil
}

func (d *stubDocument) Render(int, int) (*render.Raster, error) {
	return &render.Raster{Width: 1, Height: 1, PNG: []byte{0}}, nil
}

func (d *stubDocument) Close() error { return nil }

type stubRenderer struct {
	texts []string
}

func (r *stubRenderer) Open(context.Context, []byte) (render.Document, error) {
	return &stubDocument{texts: r.texts}, nil
}

func newTestServer(texts ...string) *Server {
	proc := ops.New(
		ops.WithRenderer(&stubRenderer{texts: texts}),
		ops.WithLogger(observability.NopLogger{}),
	)
	return New(config.Default(), proc, observability.NopLogger{})
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		w, err := mw.CreateFormFile("file", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func post(t *testing.T, s *Server, path string, fields map[string]string, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUnknownOperation(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/api/frobnicate", nil, map[string][]byte{"a.pdf": []byte("%PDF-1.7")})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestMissingFile(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/api/merge", map[string]string{"pages": "1"}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMergeSingleFileRejected(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/api/merge", nil, map[string][]byte{"a.pdf": []byte("%PDF-1.7")})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWatermarkRequiresText(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/api/watermark", nil, map[string][]byte{"a.pdf": []byte("%PDF-1.7")})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRotateRejectsNonNumericDegrees(t *testing.T) {
	s := newTestServer()
	rec := post(t, s, "/api/rotate", map[string]string{"degrees": "ninety"}, map[string][]byte{"a.pdf": []byte("%PDF-1.7")})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestTextConversionDownload(t *testing.T) {
	s := newTestServer("page one", "page two")
	rec := post(t, s, "/api/text", nil, map[string][]byte{"report.pdf": []byte("%PDF-1.7")})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename=report.txt` {
		t.Fatalf("content disposition = %q", cd)
	}
	if got := rec.Body.String(); got != "page one\n\npage two" {
		t.Fatalf("body = %q", got)
	}
}

func TestDocxConversionDownload(t *testing.T) {
	s := newTestServer("Hello\nWorld")
	rec := post(t, s, "/api/docx", nil, map[string][]byte{"report.pdf": []byte("%PDF-1.7")})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename=report.docx` {
		t.Fatalf("content disposition = %q", cd)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 || rec.Body.Bytes()[0] != 'P' || rec.Body.Bytes()[1] != 'K' {
		t.Fatal("body is not a zip archive")
	}
}

func TestParseOrder(t *testing.T) {
	got := parseOrder("3, 1,x, 2")
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("parseOrder = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("parseOrder = %v, want %v", got, want)
		}
	}
}
