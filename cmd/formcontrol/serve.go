package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formcontrol/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the screens over HTTP for preview",
		Long: `Serve /identity and /shop as HTML. Query parameters named after a field
are applied through its change handler, e.g. /shop?domain=acme.

With --watch, edits under render.templates_dir reload the templates.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("watch") {
				a.cfg.Render.WatchTemplates = watch
			}

			srv, err := server.New(a.cfg, server.WithLogger(a.logger))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Reload templates when files under render.templates_dir change")
	return cmd
}
