// Package cli implements the twconfig command line.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/specvital/twconfig/pkg/session"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	root       string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "twconfig",
		Short:        "Inspect Tailwind configuration: resolved theme and content files",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (optional; discovered from the working directory if omitted)")
	cmd.PersistentFlags().StringVar(&opts.root, "root", "", "Directory content patterns resolve against (default: working directory)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable verbose logging to stderr")

	cmd.AddCommand(themeCmd(opts))
	cmd.AddCommand(contentCmd(opts))
	cmd.AddCommand(checkCmd(opts))
	return cmd
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// open loads the configuration named by --config, or discovers one from the
// working directory.
func (o *rootOptions) open(cmd *cobra.Command) (*session.Session, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	sessionOpts := []session.Option{session.WithLogger(o.logger(cmd.ErrOrStderr()))}
	if o.root != "" {
		sessionOpts = append(sessionOpts, session.WithRoot(o.root))
	}

	if o.configPath != "" {
		return session.Open(ctx, o.configPath, sessionOpts...)
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return session.Discover(ctx, wd, sessionOpts...)
}
