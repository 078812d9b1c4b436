package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/issuegate/internal/server"
)

func newServeCmd(gf *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recorded builds and summaries over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(gf)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg, gf.verbose)

			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			deps, err := renderDeps(cfg, "", nil, "")
			if err != nil {
				return err
			}
			srv := &server.Server{
				Store:     store,
				Evaluator: newEvaluator(cfg, store, logger),
				Render:    deps,
				Logger:    logger,
			}

			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config server.addr)")
	return cmd
}
