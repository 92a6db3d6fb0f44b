package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/sghaida/locator/bootstrap"
	"github.com/sghaida/locator/config"
	"github.com/sghaida/locator/di"
	"github.com/sghaida/locator/logger"
	"github.com/sghaida/locator/metrics"
)

type options struct {
	cfgPath string
	catalog *bootstrap.Catalog
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(bootstrap.Builtin())
}

// newRootCmdWith builds the command tree against catalog c.
func newRootCmdWith(c *bootstrap.Catalog) *cobra.Command {
	opts := &options{catalog: c}
	root := &cobra.Command{
		Use:          "locator",
		Short:        "Inspect and serve a capability registry",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "locator.yaml", "bootstrap file (yaml, json or hcl)")

	root.AddCommand(newListCmd(opts), newCheckCmd(opts), newServeCmd(opts))
	return root
}

// app is a registry built from a bootstrap file, with its logger and metrics.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	registry *di.Registry
	gatherer *prometheus.Registry
}

func loadApp(cmd *cobra.Command, opts *options) (*app, error) {
	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.NewWithLevel("locator", cfg.Logging.Level, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	gatherer := prometheus.NewRegistry()
	gatherer.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	obs, err := metrics.NewPromObserverWithRegistry(gatherer)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	reg, err := bootstrap.Build(cfg, opts.catalog, log, di.WithLogger(log), di.WithObserver(obs))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	return &app{cfg: cfg, log: log, registry: reg, gatherer: gatherer}, nil
}
