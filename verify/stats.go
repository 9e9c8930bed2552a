package verify

import (
	"context"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	VerifyStatsName = "xrbtree/verify"
)

type verifyStats struct {
	trials      metric.Int64Counter
	ops         metric.Int64Counter
	failures    metric.Int64Counter
	height      metric.Int64Histogram
	blackHeight metric.Int64Histogram
}

func (stats *verifyStats) IncreaseTrials(ctx context.Context, passed bool) {
	if stats == nil {
		return
	}
	stats.trials.Add(ctx, 1, metric.WithAttributeSet(attribute.NewSet(
		attribute.Bool("xrbtree.verify.passed", passed),
	)))
}

func (stats *verifyStats) RecordOps(ctx context.Context, ops int64) {
	if stats == nil {
		return
	}
	stats.ops.Add(ctx, ops)
}

func (stats *verifyStats) IncreaseFailures(ctx context.Context, count int64) {
	if stats == nil || count <= 0 {
		return
	}
	stats.failures.Add(ctx, count)
}

func (stats *verifyStats) RecordShape(ctx context.Context, height, blackHeight int) {
	if stats == nil {
		return
	}
	stats.height.Record(ctx, int64(height))
	stats.blackHeight.Record(ctx, int64(blackHeight))
}

func newVerifyStats(mp metric.MeterProvider) *verifyStats {
	meter := mp.Meter(VerifyStatsName)
	return &verifyStats{
		trials: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xrbtree.verify.trials",
			metric.WithDescription("The number of finished verification trials."),
		)),
		ops: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xrbtree.verify.ops",
			metric.WithDescription("The number of tree operations applied by the trials."),
		)),
		failures: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xrbtree.verify.failures",
			metric.WithDescription("The number of detected mismatches and invariant violations."),
		)),
		height: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xrbtree.tree.height",
			metric.WithDescription("The height of the final tree of a trial."),
		)),
		blackHeight: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xrbtree.tree.black_height",
			metric.WithDescription("The black height of the final tree of a trial."),
		)),
	}
}
