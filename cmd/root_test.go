package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/aiq-cli/internal/actuarial"
	"github.com/sells-group/aiq-cli/internal/report"
	"github.com/sells-group/aiq-cli/internal/risk"
	"github.com/sells-group/aiq-cli/internal/tables"
)

// resetFlags restores every flag to its default. Cobra commands are package
// globals, so values would otherwise leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command in a temp dir without a config file and
// returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	t.Setenv("AIQ_LOG_LEVEL", "error")

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"assess", "simulate", "trend", "skills", "tables"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "aiq", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("tables"))
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{assessCmd, []string{"occupation", "years-experience", "sentiment", "salary", "ai-innovation", "format", "output"}},
		{simulateCmd, []string{"target", "months", "ttv", "sim-general-skill", "trend", "skills", "step"}},
		{trendCmd, []string{"target", "months", "ttv", "format"}},
		{skillsCmd, []string{"target", "step", "format"}},
		{tablesExportCmd, []string{"output"}},
	}
	for _, tt := range tests {
		for _, name := range tt.flags {
			assert.NotNil(t, tt.cmd.Flags().Lookup(name), "%s should have --%s flag", tt.cmd.Name(), name)
		}
	}

	flag := assessCmd.Flags().Lookup("occupation")
	require.NotNil(t, flag)
	assert.Equal(t, "Software Developer", flag.DefValue)
}

func TestRootCmd_PersistentPreRunE(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
log:
  level: warn
policy:
  annual_salary: 120000
`), 0o644))
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(origDir) //nolint:errcheck

	oldCfg := cfg
	cfg = nil
	defer func() { cfg = oldCfg }()

	require.NoError(t, rootCmd.PersistentPreRunE(rootCmd, nil))
	require.NotNil(t, cfg)
	assert.InDelta(t, 120000, cfg.Policy.AnnualSalary, 0.001)
	assert.NotEmpty(t, runID)
}

func TestRootCmd_PersistentPreRunE_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
policy:
  coverage_percentage: 1.5
`), 0o644))
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(origDir) //nolint:errcheck

	err := rootCmd.PersistentPreRunE(rootCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "policy.coverage_percentage")
}

func TestAssess_Table(t *testing.T) {
	out, err := execute(t, "assess")
	require.NoError(t, err)
	assert.Contains(t, out, "Idiosyncratic risk (V_i)")
	assert.Contains(t, out, "15.01")
	assert.Contains(t, out, "$11,250.00")
	assert.Contains(t, out, "$20.00")
}

func TestAssess_JSON(t *testing.T) {
	out, err := execute(t, "assess", "--format", "json",
		"--occupation", "Data Entry Clerk",
		"--education-level", "High School",
		"--education-field", "Liberal Arts/Humanities",
		"--school-tier", "Tier 3 (Local/Community College)",
		"--company-type", "",
		"--years-experience", "2",
		"--sentiment", "0.2", "--financial-health", "0.2", "--growth", "0.2",
		"--general-skill", "0", "--specific-skill", "0",
		"--economic-climate", "1.2", "--ai-innovation", "1.2",
	)
	require.NoError(t, err)

	var env struct {
		RunID string          `json:"run_id"`
		Kind  string          `json:"kind"`
		Data  risk.Assessment `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.NotEmpty(t, env.RunID)
	assert.Equal(t, "assessment", env.Kind)
	assert.InDelta(t, 59.14, env.Data.IdiosyncraticRisk, 1e-9)
	assert.InDelta(t, 78, env.Data.SystematicRisk, 1e-9)
	assert.InDelta(t, 32.43459375, env.Data.MonthlyPremium, 1e-6)
}

func TestAssess_InvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown occupation", []string{"--occupation", "Astronaut"}, `unknown occupation "Astronaut"`},
		{"sentiment out of range", []string{"--sentiment", "1.5"}, "sentiment_score must be between 0 and 1"},
		{"zero market modifier", []string{"--economic-climate", "0"}, "economic_climate"},
		{"bad coverage", []string{"--coverage-pct", "2"}, "coverage_percentage"},
		{"fractional coverage months", []string{"--coverage-months", "6.5"}, "not a whole number"},
		{"bad format", []string{"--format", "pdf"}, "--format"},
		{"xlsx without output", []string{"--format", "xlsx"}, "--output is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, append([]string{"assess"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSimulate_CSV(t *testing.T) {
	out, err := execute(t, "simulate", "--format", "csv", "--months", "6", "--sim-general-skill", "0.8", "--sim-specific-skill", "0.1")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"metric", "current", "simulated", "delta"}, records[0])
	assert.Equal(t, []string{"systematic_risk", "40", "37.5", "-2.5"}, records[2])
}

func TestSimulate_SameTarget(t *testing.T) {
	_, err := execute(t, "simulate", "--target", "Software Developer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target occupation must differ")
}

func TestSimulate_TableWithSeries(t *testing.T) {
	out, err := execute(t, "simulate", "--trend", "--skills", "--step", "0.25")
	require.NoError(t, err)
	assert.Contains(t, out, "Simulated")
	assert.Contains(t, out, "Base hazard")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "\n\n")
}

func TestSimulate_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulation.xlsx")
	out, err := execute(t, "simulate", "--trend", "--skills", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Sheets, 3)
	assert.Len(t, f.Sheet[report.SheetComparison].Rows, 4)
	assert.Len(t, f.Sheet[report.SheetTransition].Rows, 14)
	assert.Len(t, f.Sheet[report.SheetSkills].Rows, 22)
}

func TestTrend_CSV(t *testing.T) {
	out, err := execute(t, "trend", "--format", "csv", "--ttv", "6")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 8)
	assert.Equal(t, "0", records[1][0])
	assert.Equal(t, "40", records[1][1])
	assert.Equal(t, "6", records[7][0])
	assert.Equal(t, "35", records[7][1])
}

func TestTrend_MonthFlags(t *testing.T) {
	_, err := execute(t, "trend", "--ttv", "12.0", "--months", "3")
	require.NoError(t, err)

	_, err = execute(t, "trend", "--ttv", "7.5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--ttv")

	_, err = execute(t, "trend", "--months", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "months_elapsed must be between 0 and 1200")
}

func TestSkills_JSON(t *testing.T) {
	out, err := execute(t, "skills", "--format", "json", "--step", "0.25")
	require.NoError(t, err)

	var env struct {
		Kind string            `json:"kind"`
		Data []risk.SkillPoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &env))
	assert.Equal(t, "skills", env.Kind)
	require.Len(t, env.Data, 5)
	assert.InDelta(t, 0, env.Data[0].Progress, 1e-9)
	assert.InDelta(t, 1, env.Data[4].Progress, 1e-9)
	for i := 1; i < len(env.Data); i++ {
		assert.LessOrEqual(t, env.Data[i].IdiosyncraticRisk, env.Data[i-1].IdiosyncraticRisk)
	}
}

func TestSkills_BadStep(t *testing.T) {
	for _, step := range []string{"0", "1e-15", "0.0009", "1.5"} {
		t.Run(step, func(t *testing.T) {
			_, err := execute(t, "skills", "--step", step)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "--step must be in [0.001, 1]")
		})
	}

	out, err := execute(t, "skills", "--step", "0.001", "--format", "csv")
	require.NoError(t, err)
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1002)
}

func TestMonthFlags_Ceiling(t *testing.T) {
	for _, args := range [][]string{
		{"trend", "--ttv", "1e12"},
		{"trend", "--ttv", "1201"},
		{"simulate", "--months", "1e19"},
		{"assess", "--coverage-months", "-1e30"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, actuarial.ErrValue)
			assert.Contains(t, err.Error(), "exceeds 1200")
		})
	}
}

// failingCloser accepts writes and fails on Close, as a full disk does when
// the final flush is deferred.
type failingCloser struct {
	bytes.Buffer
}

func (f *failingCloser) Close() error {
	return errors.New("no space left on device")
}

func TestEmit_ReportsCloseError(t *testing.T) {
	orig := createOutput
	fake := &failingCloser{}
	createOutput = func(string) (io.WriteCloser, error) { return fake, nil }
	defer func() { createOutput = orig }()

	_, err := execute(t, "assess", "--format", "csv", "--output", "report.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close output file report.csv")
	assert.Contains(t, err.Error(), "no space left on device")
	assert.Contains(t, fake.String(), "monthly_premium")
}

func TestEmit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assessment.json")
	out, err := execute(t, "assess", "--format", "json", "--output", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind": "assessment"`)
}

func TestTables_List(t *testing.T) {
	out, err := execute(t, "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "OCCUPATIONS")
	assert.Contains(t, out, "Data Scientist")
	assert.Contains(t, out, "COMPANY_TYPES")

	out, err = execute(t, "tables", "school_tiers")
	require.NoError(t, err)
	assert.Contains(t, out, "Tier 1 (Ivy League/Top Research)")
	assert.NotContains(t, out, "OCCUPATIONS")

	_, err = execute(t, "tables", "planets")
	require.Error(t, err)
}

func TestTables_ExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.xlsx")
	_, err := execute(t, "tables", "export", "--output", path)
	require.NoError(t, err)

	got, err := tables.LoadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, tables.Default(), got)

	out, err := execute(t, "assess", "--tables", path, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "idiosyncratic_risk,15.01")
}
