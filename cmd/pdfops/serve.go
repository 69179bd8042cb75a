package main

import (
	"github.com/spf13/cobra"

	"github.com/wudi/pdfops/server"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the toolkit over HTTP",
		Long: `Serve exposes every operation as POST /api/{operation} taking a multipart
upload and answering with an attachment download.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			return server.New(a.cfg, a.proc, a.logger).ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides the config file")
	return cmd
}
