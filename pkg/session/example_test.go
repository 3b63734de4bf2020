package session_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/specvital/twconfig/pkg/content"
	"github.com/specvital/twconfig/pkg/session"
)

func Example() {
	ctx := context.Background()

	// Load the configuration and resolve its theme once
	s, err := session.Open(ctx, "testdata/project/tailwind.config.js",
		session.WithRoot("testdata/project"),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Look up resolved tokens
	xs, _ := s.Theme().Lookup("screens", "xs")
	sans, _ := s.Theme().Lookup("fontFamily", "sans")
	fmt.Println("screens.xs:", xs)
	fmt.Println("fontFamily.sans:", sans)

	// Run one build cycle
	result, err := s.Cycle(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println("files:", len(result.Files))

	// Output:
	// screens.xs: 306px
	// fontFamily.sans: Inter, system-ui, -apple-system, sans-serif
	// files: 2
}

func Example_withOptions() {
	ctx := context.Background()

	// Discover the nearest config and tune the matcher
	s, err := session.Discover(ctx, "/path/to/project/web",
		session.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))),
		session.WithMatchOptions(
			content.WithWorkers(4),                               // Expand 4 patterns at once
			content.WithTimeout(30*time.Second),                  // Bound each cycle
			content.WithExcludePatterns([]string{"dist", "tmp"}), // Never descend into build output
		),
	)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	// Warnings never abort a cycle
	result, err := s.Cycle(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %v\n", w)
	}
}
