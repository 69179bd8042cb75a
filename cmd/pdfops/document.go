package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wudi/pdfops/ops"
)

func (a *app) stripMetadataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strip-metadata <input.pdf>",
		Short: "Remove the document info dictionary and XMP metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.StripMetadata(cmd.Context(), data)
			return a.savePDF(args[0], "stripped", out, err)
		},
	}
}

func (a *app) setMetadataCmd() *cobra.Command {
	var props []string
	cmd := &cobra.Command{
		Use:   "set-metadata <input.pdf>",
		Short: "Attach custom document properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			parsed := make(map[string]string, len(props))
			for _, kv := range props {
				k, v, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("property %q is not key=value", kv)
				}
				parsed[k] = v
			}
			out, err := a.proc.SetProperties(cmd.Context(), data, parsed)
			return a.savePDF(args[0], "metadata", out, err)
		},
	}
	cmd.Flags().StringArrayVar(&props, "prop", nil, "property as key=value; repeatable (required)")
	cmd.MarkFlagRequired("prop")
	return cmd
}

func (a *app) removeBlankCmd() *cobra.Command {
	var byText bool
	cmd := &cobra.Command{
		Use:   "remove-blank <input.pdf>",
		Short: "Drop pages classified as blank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			opts := ops.BlankPageOptions{
				ByteThreshold: a.cfg.BlankByteThreshold,
				TextThreshold: a.cfg.BlankTextThreshold,
			}
			if byText {
				opts.Variant = ops.BlankByTextLength
			}
			out, removed, err := a.proc.RemoveBlankPages(cmd.Context(), data, opts)
			if err != nil {
				return err
			}
			cmd.PrintErrf("removed %d blank page(s)\n", removed)
			return a.savePDF(args[0], "noblank", out, nil)
		},
	}
	cmd.Flags().BoolVar(&byText, "by-text", false, "classify by extracted text length instead of page byte size")
	return cmd
}

func (a *app) compressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compress <input.pdf>",
		Short: "Rewrite the document with pdfcpu's optimizer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.Compress(cmd.Context(), data)
			return a.savePDF(args[0], "compressed", out, err)
		},
	}
}

func (a *app) encryptCmd() *cobra.Command {
	var userPW, ownerPW string
	cmd := &cobra.Command{
		Use:   "encrypt <input.pdf>",
		Short: "Password-protect a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.Encrypt(cmd.Context(), data, userPW, ownerPW)
			return a.savePDF(args[0], "encrypted", out, err)
		},
	}
	cmd.Flags().StringVar(&userPW, "password", "", "user password (required)")
	cmd.Flags().StringVar(&ownerPW, "owner-password", "", "owner password; defaults to the user password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) decryptCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "decrypt <input.pdf>",
		Short: "Remove password protection from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			out, err := a.proc.Decrypt(cmd.Context(), data, password)
			return a.savePDF(args[0], "decrypted", out, err)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "current password (required)")
	cmd.MarkFlagRequired("password")
	return cmd
}

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <input.pdf>",
		Short: "Print the page count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			n, err := a.proc.PageCount(cmd.Context(), data)
			if err != nil {
				return err
			}
			cmd.Printf("%d\n", n)
			return nil
		},
	}
}
