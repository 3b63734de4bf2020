package tspool_test

import (
	"context"
	"sync"
	"testing"

	"github.com/specvital/twconfig/pkg/domain"
	"github.com/specvital/twconfig/pkg/loader/tspool"
)

func TestParse_RaceFree(t *testing.T) {
	t.Parallel()

	const goroutines = 50
	source := []byte("module.exports = { content: ['./src/**/*.html'] };")

	var wg sync.WaitGroup
	wg.Add(goroutines)

	errCh := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			tree, err := tspool.Parse(context.Background(), domain.FormatJavaScript, source)
			if err != nil {
				errCh <- err
				return
			}
			defer tree.Close()
		}()
	}

	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Errorf("Parse failed: %v", err)
	}
}

func TestParse_TypeScript(t *testing.T) {
	t.Parallel()

	source := []byte("import type { Config } from 'tailwindcss'\nexport default { content: [] } as Config\n")
	tree, err := tspool.Parse(context.Background(), domain.FormatTypeScript, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tree.Close()

	if tree.RootNode().HasError() {
		t.Errorf("expected clean parse, got %s", tree.RootNode().String())
	}
}

func TestQueryWithCache(t *testing.T) {
	source := []byte("module.exports = { plugins: [] };")
	tree, err := tspool.Parse(context.Background(), domain.FormatJavaScript, source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tree.Close()
	defer tspool.ClearQueryCache()

	query := `(assignment_expression right: (object) @value)`
	for i := 0; i < 2; i++ {
		results, err := tspool.QueryWithCache(tree.RootNode(), domain.FormatJavaScript, query)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected 1 match, got %d", len(results))
		}
		if results[0].Captures["value"] == nil {
			t.Errorf("expected value capture")
		}
	}

	if _, err := tspool.QueryWithCache(tree.RootNode(), domain.FormatJavaScript, "(unknown_node"); err == nil {
		t.Errorf("expected error for invalid query")
	}
}
