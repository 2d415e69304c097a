package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	globalConfig "rmrk-indexer/config"
	"rmrk-indexer/logger"
	processorContext "rmrk-indexer/processor/context"
	"rmrk-indexer/processor/migrations"
	"rmrk-indexer/processor/runner"
	"rmrk-indexer/processor/shared"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const metricsNamespace = "rmrk_processor"

type runOptions struct {
	configFile string
	truncate   bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rmrk-processor",
		Short:         "Consolidates RMRK remarks into collections, NFTs and emotes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())
	return root
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process pending remarks until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.configFile, "config", globalConfig.CONFIG_FILE, "path to the toml or yaml config file")
	cmd.Flags().BoolVar(&opts.truncate, "truncate", false, "delete all derived data before processing")
	return cmd
}

func run(parent context.Context, opts *runOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, err := processorContext.BuildContext(opts.configFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	err = migrations.Container.ExecuteAll(ctx.DB())
	if err != nil {
		return err
	}

	cfg := ctx.Config()
	if opts.truncate {
		cfg.Processor.TruncateOnStart = true
	}

	sigCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(sigCtx)
	eg.Go(func() error {
		return shared.RunMetricsServer(egCtx, &cfg.Metrics)
	})
	if cfg.Processor.Enabled {
		metrics := shared.NewProcessorMetrics(metricsNamespace, prometheus.DefaultRegisterer)
		r := runner.NewRunner(ctx, metrics)
		eg.Go(func() error {
			return r.Run(egCtx)
		})
	} else {
		logger.Info("Remark processor disabled")
	}

	err = eg.Wait()
	logger.Info("Stopped rmrk processor")
	return err
}
