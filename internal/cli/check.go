package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/specvital/twconfig/pkg/content"
	"github.com/specvital/twconfig/pkg/domain"
)

// errCheckFailed is returned after a failure report was printed.
var errCheckFailed = errors.New("configuration check failed")

type reportStyles struct {
	Title lipgloss.Style
	Label lipgloss.Style
	OK    lipgloss.Style
	Warn  lipgloss.Style
	Fail  lipgloss.Style
	Card  lipgloss.Style
}

func defaultReportStyles() reportStyles {
	return reportStyles{
		Title: lipgloss.NewStyle().Bold(true),
		Label: lipgloss.NewStyle().Faint(true),
		OK:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

type checkReport struct {
	Path       string
	Format     domain.Format
	Categories int
	Tokens     int
	Plugins    []domain.Plugin
	Patterns   []content.PatternResult
	Files      int
	Warnings   []domain.NoMatchWarning
	Err        error
}

func checkCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "check",
		Short: "Load the configuration, resolve the theme and match content once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report := runCheck(cmd, opts)
			fmt.Fprintln(cmd.OutOrStdout(), renderReport(report, defaultReportStyles()))
			if report.Err != nil {
				return errCheckFailed
			}
			return nil
		},
	}
	return c
}

func runCheck(cmd *cobra.Command, opts *rootOptions) checkReport {
	report := checkReport{Path: opts.configPath}

	s, err := opts.open(cmd)
	if err != nil {
		report.Err = err
		return report
	}

	cfg := s.Config()
	table := s.Theme()
	report.Path = s.Path()
	report.Format = cfg.Format
	report.Plugins = cfg.Plugins
	report.Categories = table.Len()
	for _, name := range table.Categories() {
		cat, _ := table.Category(name)
		report.Tokens += cat.Len()
	}

	result, err := s.Cycle(cmd.Context())
	if err != nil {
		report.Err = err
		return report
	}
	report.Patterns = result.Patterns
	report.Files = len(result.Files)
	report.Warnings = result.Warnings
	return report
}

func renderReport(r checkReport, st reportStyles) string {
	var b strings.Builder

	b.WriteString(st.Title.Render("twconfig check"))
	b.WriteString("\n")
	if r.Path != "" {
		fmt.Fprintf(&b, "%s %s", st.Label.Render("config:"), r.Path)
		if r.Format != domain.FormatUnknown {
			fmt.Fprintf(&b, " (%s)", r.Format)
		}
		b.WriteString("\n")
	}

	if r.Err != nil {
		b.WriteString(st.Fail.Render("✗ " + r.Err.Error()))
		return st.Card.Render(b.String())
	}

	fmt.Fprintf(&b, "%s %d categories, %d tokens\n", st.Label.Render("theme:"), r.Categories, r.Tokens)
	fmt.Fprintf(&b, "%s %d\n", st.Label.Render("plugins:"), len(r.Plugins))

	b.WriteString(st.Label.Render("content:"))
	b.WriteString("\n")
	for _, p := range r.Patterns {
		switch {
		case p.Negated:
			fmt.Fprintf(&b, "  %s %s\n", st.Label.Render("−"), p.Pattern)
		case p.Matches == 0:
			fmt.Fprintf(&b, "  %s %s %s\n", st.Warn.Render("!"), p.Pattern, st.Warn.Render("(no files)"))
		default:
			fmt.Fprintf(&b, "  %s %s (%d)\n", st.OK.Render("✓"), p.Pattern, p.Matches)
		}
	}

	status := st.OK.Render(fmt.Sprintf("✓ %d files", r.Files))
	if len(r.Warnings) > 0 {
		status += st.Warn.Render(fmt.Sprintf(", %d warnings", len(r.Warnings)))
	}
	b.WriteString(status)

	return st.Card.Render(b.String())
}
