package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sghaida/locator/metrics"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Warm singletons and expose registry metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cmd, opts)
		},
	}
}

func serve(ctx context.Context, cmd *cobra.Command, opts *options) error {
	a, err := loadApp(cmd, opts)
	if err != nil {
		return err
	}
	if err := a.registry.Warm(); err != nil {
		return fmt.Errorf("warm singletons: %w", err)
	}
	a.log.Infof("registry ready with %d bindings", a.registry.Len())

	if !a.cfg.Metrics.Enabled {
		<-ctx.Done()
		return nil
	}
	a.log.Infof("serving metrics on %s", a.cfg.Metrics.Addr)
	return metrics.StartPromServer(ctx, a.cfg.Metrics.Addr, a.gatherer)
}
