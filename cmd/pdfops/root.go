// Command pdfops is a PDF manipulation toolkit: page surgery, stamping,
// format conversion and an HTTP serving mode, all backed by the same
// processor the server uses.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wudi/pdfops/config"
	"github.com/wudi/pdfops/export"
	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/ocr/tesseract"
	"github.com/wudi/pdfops/ops"
)

// app carries the state shared by every subcommand: configuration, the
// logger and the processor, built once in setup.
type app struct {
	cfgPath string
	outDir  string
	verbose bool

	cfg    config.Config
	logger observability.Logger
	proc   *ops.Processor
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pdfops",
		Short: "PDF manipulation toolkit",
		Long: `pdfops merges, splits, rotates, stamps and converts PDF files.
Outputs are written next to the input unless --out points elsewhere.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file path")
	root.PersistentFlags().StringVarP(&a.outDir, "out", "o", ".", "output directory")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.mergeCmd(),
		a.splitCmd(),
		a.extractCmd(),
		a.removeCmd(),
		a.reorderCmd(),
		a.rotateCmd(),
		a.watermarkCmd(),
		a.stampImageCmd(),
		a.pageNumbersCmd(),
		a.removePageNumbersCmd(),
		a.stripMetadataCmd(),
		a.setMetadataCmd(),
		a.removeBlankCmd(),
		a.imagesCmd(),
		a.convertCmd(),
		a.compressCmd(),
		a.encryptCmd(),
		a.decryptCmd(),
		a.infoCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	zcfg := zap.NewProductionConfig()
	if a.verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	zl, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.logger = observability.NewZapLogger(zl)

	popts := []ops.Option{
		ops.WithLogger(a.logger),
		ops.WithRenderDPI(cfg.RenderDPI),
	}
	if cfg.OCREnabled {
		popts = append(popts,
			ops.WithOCR(tesseract.New()),
			ops.WithOCRLanguages(cfg.OCRLanguages...),
		)
	}
	a.proc = ops.New(popts...)
	return nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// save writes one result under the output directory and reports the path on
// stdout, matching the download naming of the HTTP mode.
func (a *app) save(res export.Result) error {
	path, err := res.WriteFile(a.outDir)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func (a *app) savePDF(source, suffix string, data []byte, err error) error {
	if err != nil {
		return err
	}
	return a.save(export.Result{
		Name:        export.Filename(source, suffix, ".pdf"),
		ContentType: export.TypePDF,
		Data:        data,
	})
}
