package main

import (
	"github.com/spf13/cobra"

	"github.com/wudi/pdfops/ops"
)

func (a *app) watermarkCmd() *cobra.Command {
	var (
		text    string
		opacity float64
		size    int
		rot     int
		color   string
		pages   string
	)
	cmd := &cobra.Command{
		Use:   "watermark <input.pdf>",
		Short: "Stamp a diagonal text watermark across pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.Watermark(cmd.Context(), data, text, ops.WatermarkOptions{
				FontSize: size,
				Opacity:  opacity,
				Rotation: rot,
				Color:    color,
				Pages:    pages,
			})
			return a.savePDF(args[0], "watermarked", out, err)
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "watermark text (required)")
	cmd.Flags().Float64Var(&opacity, "opacity", 0, "opacity in (0,1]; default 0.3")
	cmd.Flags().IntVar(&size, "size", 0, "font size in points; default 48")
	cmd.Flags().IntVar(&rot, "rotation", 45, "rotation in degrees")
	cmd.Flags().StringVar(&color, "color", "", "fill color as #RRGGBB; default gray")
	cmd.Flags().StringVarP(&pages, "pages", "p", "", "page selection; empty stamps all")
	cmd.MarkFlagRequired("text")
	return cmd
}

func (a *app) stampImageCmd() *cobra.Command {
	var (
		imagePath string
		position  string
		scale     float64
		pages     string
	)
	cmd := &cobra.Command{
		Use:   "stamp-image <input.pdf>",
		Short: "Stamp a PNG or JPEG onto pages, e.g. a signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			image, err := readInput(imagePath)
			if err != nil {
				return err
			}
			out, err := a.proc.StampImage(cmd.Context(), data, image, ops.StampImageOptions{
				Scale:    scale,
				Position: position,
				Pages:    pages,
			})
			return a.savePDF(args[0], "stamped", out, err)
		},
	}
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "image file to stamp (required)")
	cmd.Flags().StringVar(&position, "position", "", "anchor (c, tl, br, ...); default br")
	cmd.Flags().Float64Var(&scale, "scale", 0, "size relative to the page in (0,1]; default 0.25")
	cmd.Flags().StringVarP(&pages, "pages", "p", "", "page selection; empty stamps all")
	cmd.MarkFlagRequired("image")
	return cmd
}

func (a *app) pageNumbersCmd() *cobra.Command {
	var (
		format string
		start  int
	)
	cmd := &cobra.Command{
		Use:   "page-numbers <input.pdf>",
		Short: "Print a page number at the bottom center of each page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.StampPageNumbers(cmd.Context(), data, ops.PageNumberOptions{
				Format: format,
				Start:  start,
			})
			return a.savePDF(args[0], "numbered", out, err)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", `number format with {page} and {pages}, e.g. "{page} / {pages}"`)
	cmd.Flags().IntVar(&start, "start", 1, "number printed on the first page")
	return cmd
}

func (a *app) removePageNumbersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-page-numbers <input.pdf>",
		Short: "Cover bottom-center page numbers with a blank stamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, outcome, err := a.proc.RemovePageNumbers(cmd.Context(), data)
			if err != nil {
				return err
			}
			if outcome != ops.OutcomeComplete {
				cmd.PrintErrf("page number removal is %s: numbers outside the bottom band remain\n", outcome)
			}
			return a.savePDF(args[0], "nonumbers", out, nil)
		},
	}
}
