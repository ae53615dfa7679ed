package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aiq-cli/internal/tables"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [kind]",
	Short: "List lookup table entries and their factors",
	Long: `Lists the active lookup tables: the built-in defaults, or the file named by
--tables or tables.path in config.

Kinds: occupations, education_levels, education_fields, school_tiers,
company_types.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTables,
}

var tablesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the active tables to an XLSX workbook",
	Long: `Writes one sheet per table with a header row. The workbook can be edited
and passed back with --tables.`,
	RunE: runTablesExport,
}

func init() {
	tablesExportCmd.Flags().String("output", "tables.xlsx", "output workbook path")

	tablesCmd.AddCommand(tablesExportCmd)
	rootCmd.AddCommand(tablesCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	t, err := loadTables(cmd)
	if err != nil {
		return err
	}

	kinds := tables.Kinds
	if len(args) == 1 {
		kind := tables.Kind(args[0])
		if tables.Columns(kind) == nil {
			return eris.Errorf("tables: unknown kind %q", args[0])
		}
		kinds = []tables.Kind{kind}
	}

	out := cmd.OutOrStdout()
	for i, kind := range kinds {
		names := t.Names(kind)
		if len(names) == 0 {
			continue
		}
		if i > 0 {
			fmt.Fprintln(out) //nolint:errcheck
		}

		cols := tables.Columns(kind)
		width := len(cols[0])
		for _, n := range names {
			width = max(width, len(n))
		}

		fmt.Fprintf(out, "%-*s  %s\n", width, strings.ToUpper(string(kind)), strings.Join(cols[1:], "  ")) //nolint:errcheck
		for _, n := range names {
			values, _ := t.Factors(kind, n)
			cells := make([]string, len(values))
			for j, v := range values {
				cells[j] = fmt.Sprintf("%*s", len(cols[j+1]), strconv.FormatFloat(v, 'f', 2, 64))
			}
			fmt.Fprintf(out, "%-*s  %s\n", width, n, strings.Join(cells, "  ")) //nolint:errcheck
		}
	}
	return nil
}

func runTablesExport(cmd *cobra.Command, _ []string) error {
	t, err := loadTables(cmd)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		return eris.New("tables export: --output is required")
	}
	if err := tables.SaveXLSX(output, t); err != nil {
		return err
	}

	zap.L().Info("tables exported", zap.String("path", output))
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output) //nolint:errcheck
	return nil
}
