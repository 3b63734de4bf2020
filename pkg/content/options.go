package content

import (
	"time"
)

// MatchOptions configures matcher behavior.
type MatchOptions struct {
	// ConfigKey is the configuration path of the pattern list, used to name
	// patterns in errors and warnings ("content" or "content.files").
	ConfigKey string

	// ExcludePatterns specifies directory names to skip during expansion.
	// These are combined with DefaultSkipPatterns.
	ExcludePatterns []string

	// Timeout is the maximum duration for a single Match call.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of patterns expanded concurrently.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// MatchOption is a functional option for configuring Matcher.
type MatchOption func(*MatchOptions)

// WithWorkers sets the number of concurrently expanded patterns.
// Negative values are ignored.
func WithWorkers(n int) MatchOption {
	return func(o *MatchOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the match timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) MatchOption {
	return func(o *MatchOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds directory names to skip during expansion.
func WithExcludePatterns(patterns []string) MatchOption {
	return func(o *MatchOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithConfigKey sets the configuration path reported for patterns.
func WithConfigKey(key string) MatchOption {
	return func(o *MatchOptions) {
		if key != "" {
			o.ConfigKey = key
		}
	}
}

func applyDefaults(opts *MatchOptions) {
	if opts.ConfigKey == "" {
		opts.ConfigKey = DefaultConfigKey
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
}
