package main

import (
	"github.com/philipparndt/segtag/internal/logger"
	"github.com/philipparndt/segtag/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the placement HTTP API",
	Long: `Serve label placement over HTTP. POST /v1/placements computes labels for
the posted surfaces; /v1/sessions keeps tag state (on/off, size, per-segment
visibility) between requests.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := server.New(server.Options{
		Tags:        cfg.TagOptions(),
		TagSize:     cfg.Tags.Size,
		ReadTimeout: cfg.Server.ReadTimeout,
	}, logger.Named("server"))

	return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
}
