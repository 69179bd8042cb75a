package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wudi/pdfops/export"
	"github.com/wudi/pdfops/ops"
)

func (a *app) convertCmd() *cobra.Command {
	var (
		format        string
		includeImages bool
		noOCR         bool
	)
	cmd := &cobra.Command{
		Use:   "convert <input.pdf>",
		Short: "Convert a PDF to docx, text or markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			opts := ops.ConvertOptions{
				IncludeImages: includeImages,
				OCRFallback:   a.cfg.OCREnabled && !noOCR,
			}
			ctx := cmd.Context()
			switch format {
			case "docx":
				out, err := a.proc.ConvertDOCX(ctx, data, opts)
				if err != nil {
					return err
				}
				return a.save(export.Result{
					Name:        export.Filename(args[0], "", ".docx"),
					ContentType: export.TypeDOCX,
					Data:        out,
				})
			case "text":
				out, err := a.proc.ConvertText(ctx, data, opts)
				if err != nil {
					return err
				}
				return a.save(export.Result{
					Name:        export.Filename(args[0], "", ".txt"),
					ContentType: export.TypeText,
					Data:        out,
				})
			case "markdown":
				out, err := a.proc.ConvertMarkdown(ctx, data, opts)
				if err != nil {
					return err
				}
				return a.save(export.Result{
					Name:        export.Filename(args[0], "", ".md"),
					ContentType: export.TypeMarkdown,
					Data:        out,
				})
			default:
				return fmt.Errorf("unknown format %q (want docx, text or markdown)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "docx", "target format: docx, text or markdown")
	cmd.Flags().BoolVar(&includeImages, "images", false, "embed page snapshots into the DOCX")
	cmd.Flags().BoolVar(&noOCR, "no-ocr", false, "skip the OCR fallback for image-only pages")
	return cmd
}

func (a *app) imagesCmd() *cobra.Command {
	var pages string
	cmd := &cobra.Command{
		Use:   "images <input.pdf>",
		Short: "Extract embedded images to files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			images, outcome, err := a.proc.ExtractImages(cmd.Context(), data, pages)
			if err != nil {
				return err
			}
			if outcome != ops.OutcomeComplete {
				cmd.PrintErrf("image extraction is %s for this document\n", outcome)
			}
			for _, img := range images {
				if err := a.save(export.Result{Name: img.Name, Data: img.Data}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pages, "pages", "p", "", "page selection; empty scans all")
	return cmd
}
