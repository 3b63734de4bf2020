package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/specvital/twconfig/pkg/domain"
)

func themeCmd(opts *rootOptions) *cobra.Command {
	var format string
	var category string

	c := &cobra.Command{
		Use:   "theme",
		Short: "Print the resolved theme table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			table := s.Theme()
			if category != "" {
				cat, ok := table.Category(category)
				if !ok {
					return fmt.Errorf("unknown theme category %q (have %v)", category, table.Categories())
				}
				table = domain.NewThemeTable(cat)
			}

			return writeTable(cmd.OutOrStdout(), table, format)
		},
	}

	c.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	c.Flags().StringVar(&category, "category", "", "Print a single category")
	return c
}

func writeTable(w io.Writer, table *domain.ThemeTable, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(table); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q (want json or yaml)", format)
	}
}
