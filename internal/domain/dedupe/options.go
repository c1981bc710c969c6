package dedupe

const defaultMaxSize = 50_000

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of ids kept in memory. Values <= 0 make the
// deduper unbounded.
func WithMaxSize(size int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = size
	}
}
