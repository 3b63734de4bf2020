// Package session ties loading, theme resolution and content matching into
// the build lifecycle: load once, resolve the theme once, match content on
// every cycle.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specvital/twconfig/pkg/content"
	"github.com/specvital/twconfig/pkg/domain"
	"github.com/specvital/twconfig/pkg/loader"
	"github.com/specvital/twconfig/pkg/loader/discovery"
	"github.com/specvital/twconfig/pkg/theme"
)

// defaultDiscoveryCache is shared by Discover calls without WithDiscoveryCache.
var defaultDiscoveryCache = discovery.NewCache()

// ClearDiscoveryCache forgets every lookup made through the shared cache,
// e.g. after a config file was created or removed.
func ClearDiscoveryCache() {
	defaultDiscoveryCache.Clear()
}

// Session holds an immutable configuration and resolved theme.
// It is safe for concurrent use; Cycle never mutates it.
type Session struct {
	path    string
	cfg     *domain.Config
	theme   *domain.ThemeTable
	matcher *content.Matcher
	log     *slog.Logger

	opts     []Option
	resolver *theme.Resolver
}

// CycleResult is the outcome of one build/watch cycle.
type CycleResult struct {
	// Files holds the absolute paths to scan, deduplicated, in pattern order.
	Files    []string
	Patterns []content.PatternResult
	// Warnings are the NoMatch reports of this cycle. They never abort it.
	Warnings []domain.NoMatchWarning
	Stats    content.MatchStats
}

// Open loads the configuration at configPath and resolves its theme.
// Every error it returns is fatal for the session.
func Open(ctx context.Context, configPath string, opts ...Option) (*Session, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	cfg, err := loader.Load(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", configPath, err)
	}

	resolver := options.Resolver
	if resolver == nil {
		resolver = theme.NewResolver(options.BaseTheme)
	}
	resolved, err := resolver.Resolve(cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("session: resolve theme: %w", err)
	}

	root, err := contentRoot(cfg, options.Root)
	if err != nil {
		return nil, err
	}

	matchOpts := append([]content.MatchOption{}, options.MatchOptions...)
	matchOpts = append(matchOpts, content.WithConfigKey(cfg.Content.Key))
	matcher, err := content.NewMatcher(root, matchOpts...)
	if err != nil {
		return nil, fmt.Errorf("session: content root: %w", err)
	}
	if err := matcher.Validate(cfg.Content.Files); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	options.Logger.Info("session.opened",
		"path", cfg.Path,
		"format", string(cfg.Format),
		"root", matcher.Root(),
		"categories", resolved.Len(),
		"patterns", len(cfg.Content.Files),
		"plugins", len(cfg.Plugins),
	)

	return &Session{
		path:     cfg.Path,
		cfg:      cfg,
		theme:    resolved,
		matcher:  matcher,
		log:      options.Logger,
		opts:     opts,
		resolver: resolver,
	}, nil
}

// Discover finds the configuration governing startDir and opens it.
func Discover(ctx context.Context, startDir string, opts ...Option) (*Session, error) {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	cache := options.DiscoveryCache
	if cache == nil {
		cache = defaultDiscoveryCache
	}
	path, ok := discovery.NewResolver(cache, 0).ResolveConfig(startDir, options.ConfigNames)
	if !ok {
		return nil, &domain.OpError{
			Op:   "session.discover",
			Kind: domain.KindNotFound,
			Path: startDir,
			Err:  fmt.Errorf("%w: no configuration file", domain.ErrNotFound),
		}
	}
	return Open(ctx, path, opts...)
}

func contentRoot(cfg *domain.Config, root string) (string, error) {
	if cfg.Content.Relative {
		return filepath.Dir(cfg.Path), nil
	}
	if root != "" {
		return root, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", &domain.OpError{Op: "session.open", Kind: domain.KindNotFound, Err: err}
	}
	return wd, nil
}

// Cycle runs the content matcher once. NoMatch warnings are logged once and
// returned; malformed patterns and cancellation are returned as errors.
func (s *Session) Cycle(ctx context.Context) (*CycleResult, error) {
	result, err := s.matcher.Match(ctx, s.cfg.Content.Files)
	if err != nil {
		return nil, fmt.Errorf("session: match content: %w", err)
	}

	for _, w := range result.Warnings {
		s.log.Warn("content pattern matched no files", "path", w.Path, "pattern", w.Pattern)
	}
	s.log.Debug("session.cycle",
		"files", result.Stats.FilesMatched,
		"patterns", len(result.Patterns),
		"duplicates", result.Stats.Duplicates,
		"excluded", result.Stats.Excluded,
		"duration", result.Stats.Duration,
	)

	return &CycleResult{
		Files:    result.Files,
		Patterns: result.Patterns,
		Warnings: result.Warnings,
		Stats:    result.Stats,
	}, nil
}

// Reload opens a fresh session from the same file and options.
// The receiver stays valid and unchanged.
func (s *Session) Reload(ctx context.Context) (*Session, error) {
	s.log.Debug("session.reload", "path", s.path)
	opts := append(append([]Option{}, s.opts...), WithResolver(s.resolver))
	return Open(ctx, s.path, opts...)
}

// Config returns the loaded configuration. Callers must not modify it.
func (s *Session) Config() *domain.Config {
	return s.cfg
}

// Theme returns a copy of the resolved theme.
func (s *Session) Theme() *domain.ThemeTable {
	return s.theme.Clone()
}

// Path returns the absolute configuration file path.
func (s *Session) Path() string {
	return s.path
}

// Root returns the directory relative content patterns resolve against.
func (s *Session) Root() string {
	return s.matcher.Root()
}
