package routines

// runtimeOptions holds configuration resolved from Option values passed to
// New.
type runtimeOptions struct {
	logger           Logger
	stackPoolSize    int
	metricsEnabled   bool
	allowNestedSpawn bool
}

// Option configures a Runtime at construction.
type Option interface {
	applyRuntime(*runtimeOptions)
}

type optionFunc func(*runtimeOptions)

func (f optionFunc) applyRuntime(o *runtimeOptions) { f(o) }

// WithLogger sets the structured logger the Runtime uses for lifecycle and
// queue tracing. The default is a disabled logger: logging never costs
// anything on the hot path unless a caller opts in.
func WithLogger(logger Logger) Option {
	return optionFunc(func(o *runtimeOptions) {
		if logger != nil {
			o.logger = logger
		}
	})
}

// WithStackPoolSize pre-warms the worker pool with n idle backing
// goroutines, so that the first n coroutines spawned reuse a worker
// instead of starting a fresh one. Zero (the default) means no
// pre-warming; the pool still grows on demand.
func WithStackPoolSize(n int) Option {
	return optionFunc(func(o *runtimeOptions) {
		if n > 0 {
			o.stackPoolSize = n
		}
	})
}

// WithMetrics enables collection of the counters exposed by
// [Runtime.Metrics] (spawn/completion counts, stack-pool reuse, messages
// delivered). Disabled by default to keep the scheduler's hot path free of
// extra atomic increments.
func WithMetrics(enabled bool) Option {
	return optionFunc(func(o *runtimeOptions) {
		o.metricsEnabled = enabled
	})
}

// WithAllowNestedSpawn controls whether Spawn may be called from within a
// running coroutine (as opposed to only from the host). Enabled by
// default, since nested spawning is ordinary and useful; disabling it is
// for host programs that want to enforce a single spawning point.
func WithAllowNestedSpawn(allowed bool) Option {
	return optionFunc(func(o *runtimeOptions) {
		o.allowNestedSpawn = allowed
	})
}

// resolveOptions applies opts over a default runtimeOptions.
func resolveOptions(opts []Option) *runtimeOptions {
	cfg := &runtimeOptions{
		logger:           noopLogger{},
		allowNestedSpawn: true,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyRuntime(cfg)
	}
	return cfg
}
