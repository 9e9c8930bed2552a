package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbtree/lib/xlog"
	"github.com/benz9527/xrbtree/observability"
	"github.com/benz9527/xrbtree/verify"
)

type rootFlags struct {
	trials          int
	ops             int
	keySpace        int
	popRatio        float64
	readers         int
	workers         int
	seed            uint64
	logLevel        string
	metrics         bool
	metricsInterval time.Duration
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "xrbtree-verify",
		Short: "Soak test the persistent red-black tree",
		Long: `Runs randomised insert and pop workloads against fresh trees and checks
every version against a map model, the red-black invariants and earlier
snapshots. Final trees are read concurrently without locks.

Examples:
  xrbtree-verify --trials 32 --ops 10000
  xrbtree-verify --seed 42 --pop-ratio 0.6 --metrics`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runVerify(ctx, cmd, flags)
		},
	}
	f := cmd.Flags()
	f.IntVar(&flags.trials, "trials", 8, "number of independent trials")
	f.IntVar(&flags.ops, "ops", 2048, "operations per trial")
	f.IntVar(&flags.keySpace, "keys", 512, "random keys are drawn from [0, keys)")
	f.Float64Var(&flags.popRatio, "pop-ratio", 0.4, "share of deletions in [0, 1)")
	f.IntVar(&flags.readers, "readers", 4, "concurrent readers per final tree")
	f.IntVar(&flags.workers, "workers", 4, "trials running in parallel")
	f.Uint64Var(&flags.seed, "seed", 0, "workload seed, random when unset")
	f.StringVar(&flags.logLevel, "log-level", xlog.LogLevelInfo.String(), "DEBUG, INFO, WARN or ERROR")
	f.BoolVar(&flags.metrics, "metrics", false, "export metrics as JSON to stderr")
	f.DurationVar(&flags.metricsInterval, "metrics-interval", 10*time.Second, "metrics export interval")
	return cmd
}

func runVerify(ctx context.Context, cmd *cobra.Command, flags *rootFlags) (err error) {
	lvl, err := xlog.ParseLogLevel(flags.logLevel)
	if err != nil {
		return err
	}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerWriter(xlog.StdErr),
		xlog.WithXLoggerEncoder(xlog.PlainText),
	)
	defer func() {
		_ = logger.Sync()
	}()

	// Trials are CPU bound, match GOMAXPROCS to the container CPU quota.
	undoMaxProcs, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.DebugLevel, format, args...)
	}))
	if err != nil {
		logger.Warn("unable to set GOMAXPROCS from the CPU quota", zap.Error(err))
	}
	defer undoMaxProcs()

	opts := []verify.Option{
		verify.WithTrials(flags.trials),
		verify.WithOpsPerTrial(flags.ops),
		verify.WithKeySpace(flags.keySpace),
		verify.WithPopRatio(flags.popRatio),
		verify.WithReaders(flags.readers),
		verify.WithWorkers(flags.workers),
		verify.WithLogger(logger),
	}
	if cmd.Flags().Changed("seed") {
		opts = append(opts, verify.WithSeed(flags.seed))
	}
	if flags.metrics {
		mp, shutdown, mpErr := observability.NewConsoleMeterProvider(cmd.ErrOrStderr(), flags.metricsInterval)
		if mpErr != nil {
			return mpErr
		}
		defer func() {
			err = multierr.Append(err, shutdown(context.WithoutCancel(ctx)))
		}()
		opts = append(opts, verify.WithMeterProvider(mp))
	}

	report, err := verify.Run(ctx, opts...)
	if report != nil {
		fmt.Fprintf(cmd.OutOrStdout(),
			"seed=%d trials=%d passed=%d ops=%d failures=%d max_height=%d max_black_height=%d\n",
			report.Seed, report.Trials, report.Passed, report.Ops,
			report.Failures, report.MaxHeight, report.MaxBlackHeight,
		)
	}
	return err
}
