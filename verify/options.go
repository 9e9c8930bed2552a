package verify

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xrbtree/lib/xlog"
)

const (
	defaultMinTrials      = 1
	defaultMinOpsPerTrial = 16
	defaultMinKeySpace    = 8
	defaultMinReaders     = 1
	defaultMinWorkers     = 1

	defaultTrials        = 8
	defaultOpsPerTrial   = 2048
	defaultKeySpace      = 512
	defaultPopRatio      = 0.4
	defaultReaders       = 4
	defaultWorkers       = 4
	defaultSnapshotEvery = 128
)

type option struct {
	logger        xlog.XLogger
	meterProvider metric.MeterProvider
	seed          *uint64
	popRatio      float64
	trials        int
	opsPerTrial   int
	keySpace      int
	readers       int
	workers       int
}

func newOption() *option {
	return &option{
		popRatio:    defaultPopRatio,
		trials:      defaultTrials,
		opsPerTrial: defaultOpsPerTrial,
		keySpace:    defaultKeySpace,
		readers:     defaultReaders,
		workers:     defaultWorkers,
	}
}

func (opt *option) getTrials() int {
	if opt.trials < defaultMinTrials {
		return defaultMinTrials
	}
	return opt.trials
}

func (opt *option) getOpsPerTrial() int {
	if opt.opsPerTrial < defaultMinOpsPerTrial {
		return defaultMinOpsPerTrial
	}
	return opt.opsPerTrial
}

func (opt *option) getKeySpace() int {
	if opt.keySpace < defaultMinKeySpace {
		return defaultMinKeySpace
	}
	return opt.keySpace
}

func (opt *option) getReaders() int {
	if opt.readers < defaultMinReaders {
		return defaultMinReaders
	}
	return opt.readers
}

func (opt *option) getWorkers() int {
	if opt.workers < defaultMinWorkers {
		return defaultMinWorkers
	}
	return opt.workers
}

func (opt *option) getLogger() xlog.XLogger {
	if opt.logger == nil {
		return xlog.NewNopXLogger()
	}
	return opt.logger
}

func (opt *option) getMeterProvider() metric.MeterProvider {
	if opt.meterProvider == nil {
		return otel.GetMeterProvider()
	}
	return opt.meterProvider
}

type Option func(opt *option) error

func WithTrials(trials int) Option {
	return func(opt *option) error {
		opt.trials = trials
		return nil
	}
}

func WithOpsPerTrial(ops int) Option {
	return func(opt *option) error {
		opt.opsPerTrial = ops
		return nil
	}
}

// WithKeySpace bounds the random keys to [0, size).
func WithKeySpace(size int) Option {
	return func(opt *option) error {
		opt.keySpace = size
		return nil
	}
}

// WithPopRatio sets the share of deletions among all operations.
// Deletions are split between pop by key, pop min and pop max.
func WithPopRatio(ratio float64) Option {
	return func(opt *option) error {
		if ratio < 0 || ratio >= 1 {
			return errors.New("[verify] pop ratio must be in [0, 1)")
		}
		opt.popRatio = ratio
		return nil
	}
}

// WithReaders sets how many goroutines walk each final tree concurrently.
func WithReaders(readers int) Option {
	return func(opt *option) error {
		opt.readers = readers
		return nil
	}
}

func WithWorkers(workers int) Option {
	return func(opt *option) error {
		opt.workers = workers
		return nil
	}
}

func WithSeed(seed uint64) Option {
	return func(opt *option) error {
		opt.seed = &seed
		return nil
	}
}

func WithLogger(logger xlog.XLogger) Option {
	return func(opt *option) error {
		if logger == nil {
			return errors.New("[verify] nil logger")
		}
		opt.logger = logger
		return nil
	}
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(opt *option) error {
		if mp == nil {
			return errors.New("[verify] nil meter provider")
		}
		opt.meterProvider = mp
		return nil
	}
}
