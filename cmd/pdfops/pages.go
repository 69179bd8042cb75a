package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wudi/pdfops/export"
)

func (a *app) mergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <first.pdf> <second.pdf> [more.pdf...]",
		Short: "Concatenate two or more PDFs in argument order",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := make([][]byte, 0, len(args))
			for _, path := range args {
				data, err := readInput(path)
				if err != nil {
					return err
				}
				inputs = append(inputs, data)
			}
			out, err := a.proc.Merge(cmd.Context(), inputs)
			return a.savePDF(args[0], "merged", out, err)
		},
	}
}

func (a *app) splitCmd() *cobra.Command {
	var pages string
	cmd := &cobra.Command{
		Use:   "split <input.pdf>",
		Short: "Write one single-page PDF per page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			var parts [][]byte
			if pages != "" {
				parts, err = a.proc.SplitRange(cmd.Context(), data, pages)
			} else {
				parts, err = a.proc.Split(cmd.Context(), data)
			}
			if err != nil {
				return err
			}
			for i, part := range parts {
				err := a.save(export.Result{
					Name:        export.Numbered(args[0], "page", i+1, ".pdf"),
					ContentType: export.TypePDF,
					Data:        part,
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&pages, "pages", "p", "", "split only the selected pages")
	return cmd
}

func (a *app) extractCmd() *cobra.Command {
	var pages string
	cmd := &cobra.Command{
		Use:   "extract <input.pdf>",
		Short: "Keep only the selected pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.ExtractPages(cmd.Context(), data, pages)
			return a.savePDF(args[0], "extracted", out, err)
		},
	}
	cmd.Flags().StringVarP(&pages, "pages", "p", "", `page selection, e.g. "1-3,7" (required)`)
	cmd.MarkFlagRequired("pages")
	return cmd
}

func (a *app) removeCmd() *cobra.Command {
	var pages string
	cmd := &cobra.Command{
		Use:   "remove <input.pdf>",
		Short: "Delete the selected pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.RemovePages(cmd.Context(), data, pages)
			return a.savePDF(args[0], "removed", out, err)
		},
	}
	cmd.Flags().StringVarP(&pages, "pages", "p", "", `pages to delete, e.g. "2,5-6" (required)`)
	cmd.MarkFlagRequired("pages")
	return cmd
}

func (a *app) reorderCmd() *cobra.Command {
	var order string
	cmd := &cobra.Command{
		Use:   "reorder <input.pdf>",
		Short: "Rearrange pages into the given 1-based order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			parsed, err := parseOrder(order)
			if err != nil {
				return err
			}
			out, err := a.proc.Reorder(cmd.Context(), data, parsed)
			return a.savePDF(args[0], "reordered", out, err)
		},
	}
	cmd.Flags().StringVar(&order, "order", "", `comma-separated page order, e.g. "3,1,2" (required)`)
	cmd.MarkFlagRequired("order")
	return cmd
}

func (a *app) rotateCmd() *cobra.Command {
	var degrees int
	var pages string
	cmd := &cobra.Command{
		Use:   "rotate <input.pdf>",
		Short: "Rotate pages by 90, 180 or 270 degrees",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.Rotate(cmd.Context(), data, degrees, pages)
			return a.savePDF(args[0], "rotated", out, err)
		},
	}
	cmd.Flags().IntVarP(&degrees, "degrees", "d", 90, "clockwise rotation")
	cmd.Flags().StringVarP(&pages, "pages", "p", "", "page selection; empty rotates all")
	return cmd
}

// parseOrder is strict where the HTTP form parser is permissive: a typo on
// the command line should fail loudly instead of silently dropping a page.
func parseOrder(expr string) ([]int, error) {
	parts := strings.Split(expr, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("order entry %q is not a page number", strings.TrimSpace(part))
		}
		out = append(out, n)
	}
	return out, nil
}
