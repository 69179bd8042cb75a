package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.RenderDPI != 144 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfops.yaml")
	data := []byte("addr: \":9090\"\nrender_dpi: 300\nocr_enabled: true\nocr_languages: [eng, deu]\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.RenderDPI != 300 || !cfg.OCREnabled {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if len(cfg.OCRLanguages) != 2 || cfg.OCRLanguages[1] != "deu" {
		t.Fatalf("languages not applied: %v", cfg.OCRLanguages)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml should error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PDFOPS_ADDR", ":7070")
	t.Setenv("PDFOPS_RENDER_DPI", "96")
	t.Setenv("PDFOPS_OCR_ENABLED", "true")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.RenderDPI != 96 || !cfg.OCREnabled {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestLoadClampsBadValues(t *testing.T) {
	t.Setenv("PDFOPS_RENDER_DPI", "-5")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RenderDPI != 144 {
		t.Fatalf("non-positive dpi should fall back to default, got %d", cfg.RenderDPI)
	}
}
