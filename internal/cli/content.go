package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/specvital/twconfig/pkg/session"
)

func contentCmd(opts *rootOptions) *cobra.Command {
	var absolute bool
	var quiet bool

	c := &cobra.Command{
		Use:   "content",
		Short: "List the files matched by the content patterns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			result, err := s.Cycle(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, file := range result.Files {
				fmt.Fprintln(out, displayPath(s.Root(), file, absolute))
			}

			// NoMatch warnings are logged by the session.
			if !quiet {
				writeSummary(cmd.ErrOrStderr(), s, result)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&absolute, "absolute", false, "Print absolute paths")
	c.Flags().BoolVarP(&quiet, "quiet", "q", false, "Omit the summary line")
	return c
}

func displayPath(root, file string, absolute bool) string {
	if absolute {
		return file
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}

func totalSize(files []string) uint64 {
	var total uint64
	for _, f := range files {
		if info, err := os.Stat(f); err == nil {
			total += uint64(info.Size())
		}
	}
	return total
}

func writeSummary(w io.Writer, s *session.Session, result *session.CycleResult) {
	fmt.Fprintf(w, "%s files (%s) from %d patterns in %s\n",
		humanize.Comma(int64(len(result.Files))),
		humanize.Bytes(totalSize(result.Files)),
		len(result.Patterns),
		result.Stats.Duration.Round(time.Millisecond),
	)
	if result.Stats.Duplicates > 0 || result.Stats.Excluded > 0 {
		fmt.Fprintf(w, "%s duplicates, %s excluded (config %s)\n",
			humanize.Comma(int64(result.Stats.Duplicates)),
			humanize.Comma(int64(result.Stats.Excluded)),
			s.Path(),
		)
	}
}
