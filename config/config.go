// Package config loads toolkit settings from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config carries the settings shared by the CLI and the HTTP server.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// MaxUploadBytes caps multipart uploads.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	// RenderDPI is used when rasterizing pages for conversion.
	RenderDPI int `yaml:"render_dpi"`
	// OCRLanguages lists trained-data hints for the OCR fallback.
	OCRLanguages []string `yaml:"ocr_languages"`
	// OCREnabled switches the Tesseract fallback on.
	OCREnabled bool `yaml:"ocr_enabled"`
	// BlankByteThreshold tunes the byte-size blank-page heuristic.
	BlankByteThreshold int `yaml:"blank_byte_threshold"`
	// BlankTextThreshold tunes the text-length blank-page heuristic.
	BlankTextThreshold int `yaml:"blank_text_threshold"`
	// WatermarkOpacity is the default text watermark opacity.
	WatermarkOpacity float64 `yaml:"watermark_opacity"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:             ":8080",
		MaxUploadBytes:   100 << 20,
		RenderDPI:        144,
		OCRLanguages:     []string{"eng"},
		WatermarkOpacity: 0.3,
	}
}

// Load reads the YAML file at path (skipped when path is empty or missing)
// and applies environment overrides on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = Default().MaxUploadBytes
	}
	if cfg.RenderDPI <= 0 {
		cfg.RenderDPI = Default().RenderDPI
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PDFOPS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("PDFOPS_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("PDFOPS_RENDER_DPI"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RenderDPI = n
		}
	}
	if v := os.Getenv("PDFOPS_OCR_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.OCREnabled = b
		}
	}
}
