package session

import (
	"io"
	"log/slog"

	"github.com/specvital/twconfig/pkg/content"
	"github.com/specvital/twconfig/pkg/domain"
	"github.com/specvital/twconfig/pkg/loader/discovery"
	"github.com/specvital/twconfig/pkg/theme"
)

// Options configures a Session.
type Options struct {
	// BaseTheme is the theme overrides are resolved against.
	// If nil, uses theme.DefaultTheme().
	BaseTheme *domain.ThemeTable

	// DiscoveryCache memoizes Discover lookups. If nil, a cache shared by the
	// package is used; see ClearDiscoveryCache.
	DiscoveryCache *discovery.Cache

	// ConfigNames lists the file names Discover looks for, in precedence order.
	// Empty means discovery.DefaultConfigNames.
	ConfigNames []string

	// Logger receives session events. If nil, events are discarded.
	Logger *slog.Logger

	// MatchOptions are passed to the content matcher.
	MatchOptions []content.MatchOption

	// Resolver overrides BaseTheme with an existing theme resolver.
	Resolver *theme.Resolver

	// Root is the directory relative content patterns resolve against when
	// content.relative is false. Empty means the working directory.
	Root string
}

// Option is a functional option for configuring Session.
type Option func(*Options)

// WithBaseTheme sets the theme overrides are resolved against.
func WithBaseTheme(base *domain.ThemeTable) Option {
	return func(o *Options) {
		o.BaseTheme = base
	}
}

// WithDiscoveryCache sets the cache Discover uses for config lookups.
func WithDiscoveryCache(c *discovery.Cache) Option {
	return func(o *Options) {
		o.DiscoveryCache = c
	}
}

// WithResolver resolves themes with r instead of building one from BaseTheme.
func WithResolver(r *theme.Resolver) Option {
	return func(o *Options) {
		o.Resolver = r
	}
}

// WithConfigNames sets the file names Discover looks for.
func WithConfigNames(names []string) Option {
	return func(o *Options) {
		o.ConfigNames = names
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithMatchOptions appends content matcher options.
func WithMatchOptions(opts ...content.MatchOption) Option {
	return func(o *Options) {
		o.MatchOptions = append(o.MatchOptions, opts...)
	}
}

// WithRoot sets the directory relative content patterns resolve against.
func WithRoot(dir string) Option {
	return func(o *Options) {
		o.Root = dir
	}
}

func applyDefaults(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}
