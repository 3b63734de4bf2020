//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/specvital/twconfig/pkg/session"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/scan.go <project-dir>\n")
		os.Exit(1)
	}

	path := os.Args[1]

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	s, err := session.Discover(ctx, path, session.WithRoot(path))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open error: %v\n", err)
		os.Exit(1)
	}

	result, err := s.Cycle(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan error: %v\n", err)
		os.Exit(1)
	}

	output := map[string]interface{}{
		"config":       s.Path(),
		"filesMatched": result.Stats.FilesMatched,
		"duplicates":   result.Stats.Duplicates,
		"warnings":     len(result.Warnings),
		"duration":     result.Stats.Duration.String(),
		"categories":   countTokens(s),
	}
	json.NewEncoder(os.Stdout).Encode(output)
}

func countTokens(s *session.Session) map[string]int {
	counts := make(map[string]int)
	table := s.Theme()
	for _, name := range table.Categories() {
		cat, _ := table.Category(name)
		counts[name] = cat.Len()
	}
	return counts
}
