// Package discovery finds the configuration file that governs a directory.
package discovery

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	defaultMaxDepth = 20

	// Project root indicator files
	fileGitDir      = ".git"
	fileGoMod       = "go.mod"
	filePackageJSON = "package.json"
)

// DefaultConfigNames lists configuration file names in precedence order.
var DefaultConfigNames = []string{
	"tailwind.config.js",
	"tailwind.config.cjs",
	"tailwind.config.mjs",
	"tailwind.config.ts",
	"tailwind.config.json",
	"tailwind.config.yaml",
	"tailwind.config.yml",
}

var projectRootIndicators = []string{fileGoMod, fileGitDir, filePackageJSON}

type Resolver struct {
	cache    *Cache
	maxDepth int
}

// NewResolver creates a Resolver. cache may be nil; maxDepth <= 0 uses the default.
func NewResolver(cache *Cache, maxDepth int) *Resolver {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Resolver{
		cache:    cache,
		maxDepth: maxDepth,
	}
}

// ResolveConfig finds the nearest config file by traversing up from startPath.
// startPath may be a directory or a file inside it. Names are tried in order
// within each directory and may be glob patterns.
// Stops at project root boundary (go.mod, .git, package.json) + one level for monorepo configs.
func (r *Resolver) ResolveConfig(startPath string, names []string) (string, bool) {
	if len(names) == 0 {
		names = DefaultConfigNames
	}

	dir, err := filepath.Abs(startPath)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	var foundProjectRoot bool
	var visitedDirs []string

	for depth := 0; depth < r.maxDepth; depth++ {
		if r.cache != nil {
			if cached, found := r.cache.Get(dir, names); found {
				return cached, cached != ""
			}
		}

		visitedDirs = append(visitedDirs, dir)

		if configPath, found := r.findConfigInDir(dir, names); found {
			return configPath, true
		}

		if !foundProjectRoot && isProjectRoot(dir) {
			foundProjectRoot = true
		} else if foundProjectRoot {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	// Cache miss for all visited directories to avoid redundant filesystem scans
	if r.cache != nil {
		for _, visitedDir := range visitedDirs {
			r.cache.Set(visitedDir, names, "")
		}
	}
	return "", false
}

func (r *Resolver) findConfigInDir(dir string, names []string) (string, bool) {
	fsys := os.DirFS(dir)
	for _, name := range names {
		matches, err := doublestar.Glob(fsys, name, doublestar.WithFilesOnly())
		if err != nil {
			// only ErrBadPattern for malformed names
			continue
		}
		if len(matches) > 0 {
			configPath := filepath.Join(dir, filepath.FromSlash(matches[0]))
			if r.cache != nil {
				r.cache.Set(dir, names, configPath)
			}
			return configPath, true
		}
	}
	return "", false
}

func isProjectRoot(dir string) bool {
	for _, file := range projectRootIndicators {
		if _, err := os.Stat(filepath.Join(dir, file)); err == nil {
			return true
		}
	}
	return false
}
