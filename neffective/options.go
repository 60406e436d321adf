package neffective

import (
	"io"
	"log/slog"
)

// DefaultCheckEvery is the checkpoint cadence: ctx is polled and a progress
// tick is emitted whenever row (or outer-loop) index i satisfies i % 501 == 0.
const DefaultCheckEvery = 501

const panicCheckEveryInvalid = "neffective: WithCheckEvery: n must be > 0"

// Options holds the resolved configuration of one estimation call.
type Options struct {
	progress   Progress
	checkEvery int
	logger     *slog.Logger
}

// Option mutates Options. Constructors panic only on nonsensical values.
type Option func(*Options)

// DefaultOptions returns the zero-configuration behavior: no progress output,
// DefaultCheckEvery cadence, logging discarded.
func DefaultOptions() Options {
	return Options{
		progress:   NopProgress{},
		checkEvery: DefaultCheckEvery,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithProgress installs a progress sink. nil restores NopProgress.
func WithProgress(p Progress) Option {
	return func(o *Options) {
		if p == nil {
			p = NopProgress{}
		}
		o.progress = p
	}
}

// WithCheckEvery overrides the checkpoint cadence. Panics if n <= 0.
func WithCheckEvery(n int) Option {
	if n <= 0 {
		panic(panicCheckEveryInvalid)
	}
	return func(o *Options) {
		o.checkEvery = n
	}
}

// WithLogger sets the logger used for debug-level phase timings.
// nil keeps the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// gatherOptions applies opts over DefaultOptions in order.
func gatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
