// Package content expands content globs into the set of files scanned for class names.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/twconfig/pkg/domain"
)

const (
	// DefaultConfigKey is the configuration path of the pattern list.
	DefaultConfigKey = "content"
	// DefaultTimeout is the default match timeout duration.
	DefaultTimeout = time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024

	negationPrefix = "!"
)

// DefaultSkipPatterns contains directory names skipped unless a pattern names them literally.
var DefaultSkipPatterns = []string{
	"node_modules",
	".git",
}

var (
	// ErrMatchCancelled is returned when matching is cancelled via context.
	ErrMatchCancelled = errors.New("content: match cancelled")
	// ErrMatchTimeout is returned when matching exceeds the timeout duration.
	ErrMatchTimeout = errors.New("content: match timeout")
	// ErrNoPatterns is returned when the pattern list has no positive pattern.
	ErrNoPatterns = errors.New("content: no patterns")
)

// Matcher expands glob patterns relative to a root directory.
// It keeps no cache: every Match call walks the filesystem again.
type Matcher struct {
	root    string
	options *MatchOptions
}

// MatchResult contains the outcome of a Match call.
type MatchResult struct {
	// Files holds absolute paths, deduplicated, in first-seen pattern order.
	Files []string

	// Patterns describes each input pattern's contribution.
	Patterns []PatternResult

	// Warnings contains non-fatal NoMatch reports.
	Warnings []domain.NoMatchWarning

	// Stats provides statistics about the match.
	Stats MatchStats
}

// PatternResult describes one input pattern.
type PatternResult struct {
	// Path is the configuration path of the pattern, e.g. "content[0]".
	Path    string
	Pattern string
	Negated bool
	// Matches is the number of files the pattern expanded to before
	// deduplication and exclusion. Zero for negated patterns.
	Matches int
}

// MatchStats provides statistics about a Match call.
type MatchStats struct {
	// FilesMatched is the number of files in the final set.
	FilesMatched int

	// Duplicates is the number of matches dropped as already seen.
	Duplicates int

	// Excluded is the number of files removed by negated patterns.
	Excluded int

	// Skipped is the number of matches under skipped directories.
	Skipped int

	// Duration is the total match duration.
	Duration time.Duration
}

// NewMatcher creates a matcher rooted at root, which must be an existing directory.
func NewMatcher(root string, opts ...MatchOption) (*Matcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("content: resolve root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &domain.OpError{Op: "content.new_matcher", Kind: domain.KindNotFound, Path: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.OpError{Op: "content.new_matcher", Kind: domain.KindNotFound, Path: abs, Err: fmt.Errorf("not a directory")}
	}

	options := &MatchOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Matcher{
		root:    filepath.Clean(abs),
		options: options,
	}, nil
}

// Root returns the absolute directory relative patterns resolve against.
func (m *Matcher) Root() string {
	return m.root
}

type compiledPattern struct {
	index   int
	path    string
	raw     string
	negated bool
	// abs is the slash-separated absolute pattern.
	abs string
}

// Match expands patterns in order:
//  1. Validate every pattern (fatal InvalidPatternError)
//  2. Expand positive patterns independently
//  3. Concatenate results in pattern order
//  4. Remove files matched by negated patterns
//  5. Deduplicate by absolute path, keeping first-seen order
func (m *Matcher) Match(ctx context.Context, patterns []string) (*MatchResult, error) {
	startTime := time.Now()

	compiled, err := m.compile(patterns)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, m.options.Timeout)
	defer cancel()

	expanded, skipped, err := m.expandParallel(ctx, compiled)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrMatchTimeout
		}
		if errors.Is(err, context.Canceled) {
			return nil, ErrMatchCancelled
		}
		return nil, err
	}

	result := &MatchResult{
		Files:    []string{},
		Patterns: make([]PatternResult, 0, len(compiled)),
		Warnings: []domain.NoMatchWarning{},
	}
	result.Stats.Skipped = skipped

	seen := make(map[string]bool)
	for _, p := range compiled {
		pr := PatternResult{Path: p.path, Pattern: p.raw, Negated: p.negated}
		if p.negated {
			result.Patterns = append(result.Patterns, pr)
			continue
		}

		files := expanded[p.index]
		pr.Matches = len(files)
		result.Patterns = append(result.Patterns, pr)

		if len(files) == 0 {
			result.Warnings = append(result.Warnings, domain.NoMatchWarning{Path: p.path, Pattern: p.raw})
			continue
		}

		for _, file := range files {
			if seen[file] {
				result.Stats.Duplicates++
				continue
			}
			seen[file] = true
			if excludedBy(compiled, file) {
				result.Stats.Excluded++
				continue
			}
			result.Files = append(result.Files, file)
		}
	}

	result.Stats.FilesMatched = len(result.Files)
	result.Stats.Duration = time.Since(startTime)
	return result, nil
}

// Validate checks patterns without touching the filesystem. It reports the
// same fatal errors Match would.
func (m *Matcher) Validate(patterns []string) error {
	_, err := m.compile(patterns)
	return err
}

func (m *Matcher) compile(patterns []string) ([]compiledPattern, error) {
	key := m.options.ConfigKey
	if len(patterns) == 0 {
		return nil, &domain.ConfigShapeError{Path: key, Msg: "at least one pattern is required", Err: ErrNoPatterns}
	}

	compiled := make([]compiledPattern, 0, len(patterns))
	positives := 0
	for i, raw := range patterns {
		path := domain.IndexPath(key, i)
		p := compiledPattern{index: i, path: path, raw: raw}

		body := raw
		if strings.HasPrefix(body, negationPrefix) {
			p.negated = true
			body = strings.TrimPrefix(body, negationPrefix)
		}
		// Patterns are used verbatim; file names may carry spaces.
		if strings.TrimSpace(body) == "" {
			return nil, &domain.InvalidPatternError{Path: path, Pattern: raw, Err: fmt.Errorf("empty pattern")}
		}

		p.abs = m.absPattern(body)
		if !doublestar.ValidatePattern(p.abs) {
			return nil, &domain.InvalidPatternError{Path: path, Pattern: raw, Err: doublestar.ErrBadPattern}
		}

		if !p.negated {
			positives++
		}
		compiled = append(compiled, p)
	}

	if positives == 0 {
		return nil, &domain.ConfigShapeError{Path: key, Msg: "only negated patterns given", Err: ErrNoPatterns}
	}
	return compiled, nil
}

// absPattern anchors a relative pattern at the matcher root, cleaning "./" and "../".
func (m *Matcher) absPattern(pattern string) string {
	native := filepath.FromSlash(pattern)
	if !filepath.IsAbs(native) {
		native = filepath.Join(m.root, native)
	}
	return filepath.ToSlash(filepath.Clean(native))
}

func (m *Matcher) expandParallel(ctx context.Context, patterns []compiledPattern) ([][]string, int, error) {
	workers := m.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	skipSet := buildSkipSet(append(append([]string{}, DefaultSkipPatterns...), m.options.ExcludePatterns...))

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	// Each worker writes only its own slot, so no lock is needed.
	expanded := make([][]string, len(patterns))
	skipped := make([]int, len(patterns))

	for _, p := range patterns {
		if p.negated {
			continue
		}
		p := p

		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			files, skips, err := expand(gCtx, p, skipSet)
			if err != nil {
				return err
			}
			expanded[p.index] = files
			skipped[p.index] = skips
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	total := 0
	for _, n := range skipped {
		total += n
	}
	return expanded, total, nil
}

// expand walks a single positive pattern. The walk order is deterministic
// (directory entries are read in lexical order), which keeps Match idempotent.
func expand(ctx context.Context, p compiledPattern, skipSet map[string]bool) ([]string, int, error) {
	base, rest := doublestar.SplitPattern(p.abs)
	baseDir := filepath.FromSlash(base)

	var (
		files   []string
		skipped int
	)

	err := doublestar.GlobWalk(os.DirFS(baseDir), rest, func(path string, d fs.DirEntry) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if shouldSkip(path, rest, skipSet) {
			skipped++
			return nil
		}
		files = append(files, filepath.Join(baseDir, filepath.FromSlash(path)))
		return nil
	}, doublestar.WithFilesOnly())

	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, 0, &domain.InvalidPatternError{Path: p.path, Pattern: p.raw, Err: err}
		}
		return nil, 0, err
	}
	return files, skipped, nil
}

func excludedBy(patterns []compiledPattern, file string) bool {
	slashed := filepath.ToSlash(file)
	for _, p := range patterns {
		if !p.negated {
			continue
		}
		matched, err := doublestar.Match(p.abs, slashed)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

// shouldSkip reports whether a match lies under a skipped directory that the
// pattern does not name literally.
func shouldSkip(relPath, pattern string, skipSet map[string]bool) bool {
	segments := strings.Split(relPath, "/")
	if len(segments) < 2 {
		return false
	}
	for _, dir := range segments[:len(segments)-1] {
		if skipSet[dir] && !namesSegment(pattern, dir) {
			return true
		}
	}
	return false
}

func namesSegment(pattern, segment string) bool {
	for _, s := range strings.Split(pattern, "/") {
		if s == segment {
			return true
		}
	}
	return false
}

// Match is a convenience wrapper creating a Matcher for a single call.
func Match(ctx context.Context, root string, patterns []string, opts ...MatchOption) (*MatchResult, error) {
	m, err := NewMatcher(root, opts...)
	if err != nil {
		return nil, err
	}
	return m.Match(ctx, patterns)
}
