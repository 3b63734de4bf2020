// Package tspool provides tree-sitter parsers for configuration sources.
//
// Parsers are created fresh for every call. When a context is cancelled during
// ParseCtx the parser's internal cancel flag stays set, so a reused parser would
// fail subsequent parses with "operation limit was hit".
//
// Thread-safety: Parsers returned by Get are NOT safe for concurrent use.
// Each goroutine must Get its own parser or use the Parse helper.
package tspool

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/specvital/twconfig/pkg/domain"
)

// MaxTreeDepth is the maximum recursion depth when walking AST trees.
const MaxTreeDepth = 1000

var (
	jsLang *sitter.Language
	tsLang *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		jsLang = javascript.GetLanguage()
		tsLang = typescript.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter language for a script configuration format.
func GetLanguage(format domain.Format) *sitter.Language {
	initLanguages()
	if format == domain.FormatTypeScript {
		return tsLang
	}
	return jsLang
}

// Get returns a parser for the given format.
// The returned parser is NOT safe for concurrent use.
// Caller MUST call parser.Close() when done to free resources.
func Get(format domain.Format) *sitter.Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(GetLanguage(format))
	return parser
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, format domain.Format, source []byte) (*sitter.Tree, error) {
	parser := Get(format)
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", format, err)
	}

	return tree, nil
}
