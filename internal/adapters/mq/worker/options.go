package worker

import "github.com/arcadetally/tally/pkg/logger"

// Option applies a configuration option to a Worker.
type Option func(*Worker)

// WithName names the worker for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
			w.logger = logger.Get().Named(name)
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}
