package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wudi/pdfops/export"
	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/ops"
)

// upload is one received file plus its client-side name, used for output
// naming.
type upload struct {
	name string
	data []byte
}

func (s *Server) handleOperation(w http.ResponseWriter, r *http.Request) {
	operation := chi.URLParam(r, "operation")
	logger := s.logger.With(
		observability.String("request_id", uuid.NewString()),
		observability.String("op", operation),
	)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, logger, http.StatusBadRequest, fmt.Errorf("parse upload: %w", err))
		return
	}
	files, err := readUploads(r, "file")
	if err != nil {
		writeError(w, logger, http.StatusBadRequest, err)
		return
	}
	if len(files) == 0 {
		writeError(w, logger, http.StatusBadRequest, errors.New("no file uploaded"))
		return
	}

	result, err := s.dispatch(r, operation, files)
	if err != nil {
		writeError(w, logger, statusFor(err), err)
		return
	}
	logger.Info("download ready",
		observability.String("name", result.Name),
		observability.Int("bytes", len(result.Data)),
	)
	if _, err := result.ServeAttachment(w); err != nil {
		logger.Warn("download interrupted", observability.Error("err", err))
	}
}

// dispatch maps the operation path segment onto a processor call and names
// the download deterministically from the first upload's filename.
func (s *Server) dispatch(r *http.Request, operation string, files []upload) (export.Result, error) {
	ctx := r.Context()
	src := files[0]
	pdf := func(suffix string, data []byte, err error) (export.Result, error) {
		if err != nil {
			return export.Result{}, err
		}
		return export.Result{
			Name:        export.Filename(src.name, suffix, ".pdf"),
			ContentType: export.TypePDF,
			Data:        data,
		}, nil
	}

	switch operation {
	case "merge":
		inputs := make([][]byte, 0, len(files))
		for _, f := range files {
			inputs = append(inputs, f.data)
		}
		out, err := s.proc.Merge(ctx, inputs)
		return pdf("merged", out, err)

	case "split":
		var parts [][]byte
		var err error
		if pages := r.FormValue("pages"); pages != "" {
			parts, err = s.proc.SplitRange(ctx, src.data, pages)
		} else {
			parts, err = s.proc.Split(ctx, src.data)
		}
		if err != nil {
			return export.Result{}, err
		}
		results := make([]export.Result, 0, len(parts))
		for i, part := range parts {
			results = append(results, export.Result{
				Name:        export.Numbered(src.name, "page", i+1, ".pdf"),
				ContentType: export.TypePDF,
				Data:        part,
			})
		}
		return export.Archive(export.Filename(src.name, "split", ".zip"), results)

	case "extract":
		out, err := s.proc.ExtractPages(ctx, src.data, r.FormValue("pages"))
		return pdf("extracted", out, err)

	case "remove":
		out, err := s.proc.RemovePages(ctx, src.data, r.FormValue("pages"))
		return pdf("removed", out, err)

	case "reorder":
		out, err := s.proc.Reorder(ctx, src.data, parseOrder(r.FormValue("order")))
		return pdf("reordered", out, err)

	case "rotate":
		degrees, err := strconv.Atoi(r.FormValue("degrees"))
		if err != nil {
			return export.Result{}, &ops.Error{Op: operation, Kind: ops.ErrInvalidInput, Err: fmt.Errorf("degrees: %w", err)}
		}
		out, err := s.proc.Rotate(ctx, src.data, degrees, r.FormValue("pages"))
		return pdf("rotated", out, err)

	case "watermark":
		opts := ops.WatermarkOptions{Pages: r.FormValue("pages"), Opacity: s.cfg.WatermarkOpacity}
		if v := r.FormValue("opacity"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				opts.Opacity = f
			}
		}
		out, err := s.proc.Watermark(ctx, src.data, r.FormValue("text"), opts)
		return pdf("watermarked", out, err)

	case "stamp-image":
		images, err := readUploads(r, "image")
		if err != nil {
			return export.Result{}, err
		}
		if len(images) == 0 {
			return export.Result{}, &ops.Error{Op: operation, Kind: ops.ErrInvalidInput, Err: errors.New("no image uploaded")}
		}
		out, err := s.proc.StampImage(ctx, src.data, images[0].data, ops.StampImageOptions{
			Position: r.FormValue("position"),
			Pages:    r.FormValue("pages"),
		})
		return pdf("stamped", out, err)

	case "page-numbers":
		out, err := s.proc.StampPageNumbers(ctx, src.data, ops.PageNumberOptions{
			Format: r.FormValue("format"),
		})
		return pdf("numbered", out, err)

	case "remove-page-numbers":
		out, _, err := s.proc.RemovePageNumbers(ctx, src.data)
		return pdf("nonumbers", out, err)

	case "strip-metadata":
		out, err := s.proc.StripMetadata(ctx, src.data)
		return pdf("stripped", out, err)

	case "set-metadata":
		props := make(map[string]string)
		for _, kv := range r.Form["prop"] {
			if k, v, ok := strings.Cut(kv, "="); ok {
				props[k] = v
			}
		}
		out, err := s.proc.SetProperties(ctx, src.data, props)
		return pdf("metadata", out, err)

	case "remove-blank":
		opts := ops.BlankPageOptions{
			ByteThreshold: s.cfg.BlankByteThreshold,
			TextThreshold: s.cfg.BlankTextThreshold,
		}
		if r.FormValue("variant") == "text" {
			opts.Variant = ops.BlankByTextLength
		}
		out, _, err := s.proc.RemoveBlankPages(ctx, src.data, opts)
		return pdf("noblank", out, err)

	case "images":
		images, outcome, err := s.proc.ExtractImages(ctx, src.data, r.FormValue("pages"))
		if err != nil {
			return export.Result{}, err
		}
		results := make([]export.Result, 0, len(images))
		for _, img := range images {
			results = append(results, export.Result{Name: img.Name, Data: img.Data})
		}
		res, err := export.Archive(export.Filename(src.name, "images", ".zip"), results)
		if err != nil {
			return export.Result{}, err
		}
		if outcome != ops.OutcomeComplete {
			res.Name = export.Filename(src.name, "images-"+outcome.String(), ".zip")
		}
		return res, nil

	case "docx":
		out, err := s.proc.ConvertDOCX(ctx, src.data, ops.ConvertOptions{
			IncludeImages: r.FormValue("images") == "true",
			OCRFallback:   s.cfg.OCREnabled,
		})
		if err != nil {
			return export.Result{}, err
		}
		return export.Result{Name: export.Filename(src.name, "", ".docx"), ContentType: export.TypeDOCX, Data: out}, nil

	case "text":
		out, err := s.proc.ConvertText(ctx, src.data, ops.ConvertOptions{OCRFallback: s.cfg.OCREnabled})
		if err != nil {
			return export.Result{}, err
		}
		return export.Result{Name: export.Filename(src.name, "", ".txt"), ContentType: export.TypeText, Data: out}, nil

	case "markdown":
		out, err := s.proc.ConvertMarkdown(ctx, src.data, ops.ConvertOptions{OCRFallback: s.cfg.OCREnabled})
		if err != nil {
			return export.Result{}, err
		}
		return export.Result{Name: export.Filename(src.name, "", ".md"), ContentType: export.TypeMarkdown, Data: out}, nil

	case "compress":
		out, err := s.proc.Compress(ctx, src.data)
		return pdf("compressed", out, err)

	case "encrypt":
		out, err := s.proc.Encrypt(ctx, src.data, r.FormValue("password"), r.FormValue("owner_password"))
		return pdf("encrypted", out, err)

	case "decrypt":
		out, err := s.proc.Decrypt(ctx, src.data, r.FormValue("password"))
		return pdf("decrypted", out, err)

	default:
		return export.Result{}, errUnknownOperation
	}
}

var errUnknownOperation = errors.New("unknown operation")

func readUploads(r *http.Request, field string) ([]upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	out := make([]upload, 0, len(headers))
	for _, h := range headers {
		data, err := readUpload(h)
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", h.Filename, err)
		}
		out = append(out, upload{name: h.Filename, data: data})
	}
	return out, nil
}

func readUpload(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseOrder reads a comma-separated 1-based page order, dropping entries
// that are not numbers. Bounds clamping happens in the processor.
func parseOrder(expr string) []int {
	parts := strings.Split(expr, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errUnknownOperation):
		return http.StatusNotFound
	case errors.Is(err, ops.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ops.ErrLibraryUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ops.ErrOperationFailure):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger observability.Logger, status int, err error) {
	logger.Error("request failed",
		observability.Int("status", status),
		observability.Error("err", err),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
