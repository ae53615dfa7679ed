package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/aiq-cli/internal/actuarial"
	"github.com/sells-group/aiq-cli/internal/report"
	"github.com/sells-group/aiq-cli/internal/risk"
	"github.com/sells-group/aiq-cli/internal/tables"
)

func addProfileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("occupation", "Software Developer", "current occupation")
	f.Float64("years-experience", 10, "years of professional experience (0-60)")
	f.String("education-level", "Bachelor's", "highest education level")
	f.String("education-field", "STEM (Science, Technology, Engineering, Math)", "education field")
	f.String("school-tier", "Tier 2 (Reputable State/Private)", "institution tier")
	f.String("company-type", "Large Established Firm (Non-Tech)", "current company type (display baseline only)")
	f.Float64("sentiment", 0.7, "company sentiment score (0-1)")
	f.Float64("financial-health", 0.8, "company financial health score (0-1)")
	f.Float64("growth", 0.75, "company growth and AI-adoption score (0-1)")
	f.Float64("general-skill", 0.5, "current general skill progress (0-1)")
	f.Float64("specific-skill", 0.2, "current firm-specific skill progress (0-1)")
}

func addScenarioFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("target", "Data Scientist", "target occupation")
	f.Float64("months", 0, "whole months elapsed in the transition")
	f.Float64("ttv", 0, "time-to-value in whole months (overrides config)")
	f.Float64("sim-general-skill", 0, "simulated general skill progress (default: current)")
	f.Float64("sim-specific-skill", 0, "simulated firm-specific skill progress (default: current)")
}

func addMarketPolicyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("economic-climate", 0, "economic climate modifier (overrides config)")
	f.Float64("ai-innovation", 0, "AI innovation index (overrides config)")
	f.Float64("salary", 0, "annual salary (overrides config)")
	f.Float64("coverage-months", 0, "coverage duration in whole months (overrides config)")
	f.Float64("coverage-pct", 0, "share of monthly salary paid out (overrides config)")
	f.Float64("loading-factor", 0, "premium loading factor (overrides config)")
	f.Float64("min-premium", 0, "minimum monthly premium (overrides config)")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("format", "table", "output format: table, csv, json or xlsx")
	f.String("output", "", "output file path (default: stdout; required for xlsx)")
}

func profileFromFlags(cmd *cobra.Command) risk.Profile {
	f := cmd.Flags()
	var p risk.Profile
	p.Occupation, _ = f.GetString("occupation")
	p.YearsExperience, _ = f.GetFloat64("years-experience")
	p.EducationLevel, _ = f.GetString("education-level")
	p.EducationField, _ = f.GetString("education-field")
	p.SchoolTier, _ = f.GetString("school-tier")
	p.CompanyType, _ = f.GetString("company-type")
	p.SentimentScore, _ = f.GetFloat64("sentiment")
	p.FinancialHealthScore, _ = f.GetFloat64("financial-health")
	p.GrowthScore, _ = f.GetFloat64("growth")
	p.GeneralSkillProgress, _ = f.GetFloat64("general-skill")
	p.SpecificSkillProgress, _ = f.GetFloat64("specific-skill")
	return p
}

// monthsFlag reads a month count given as a number and rejects fractions.
func monthsFlag(cmd *cobra.Command, name string) (int, error) {
	v, _ := cmd.Flags().GetFloat64(name)
	n, err := actuarial.WholeMonths(v)
	if err != nil {
		return 0, eris.Wrapf(err, "--%s", name)
	}
	return n, nil
}

// scenarioFromFlags builds the scenario. Unset skill flags carry the
// profile's current progress forward.
func scenarioFromFlags(cmd *cobra.Command, p risk.Profile) (risk.Scenario, error) {
	f := cmd.Flags()
	s := risk.Scenario{
		TTVMonths:             cfg.Simulation.TTVMonths,
		GeneralSkillProgress:  p.GeneralSkillProgress,
		SpecificSkillProgress: p.SpecificSkillProgress,
	}
	s.TargetOccupation, _ = f.GetString("target")

	var err error
	if s.MonthsElapsed, err = monthsFlag(cmd, "months"); err != nil {
		return risk.Scenario{}, err
	}
	if f.Changed("ttv") {
		if s.TTVMonths, err = monthsFlag(cmd, "ttv"); err != nil {
			return risk.Scenario{}, err
		}
	}
	if f.Changed("sim-general-skill") {
		s.GeneralSkillProgress, _ = f.GetFloat64("sim-general-skill")
	}
	if f.Changed("sim-specific-skill") {
		s.SpecificSkillProgress, _ = f.GetFloat64("sim-specific-skill")
	}
	return s, nil
}

// applyMarketPolicyOverrides layers explicitly set flags over the configured
// market and policy defaults.
func applyMarketPolicyOverrides(cmd *cobra.Command) (risk.Market, risk.Policy, error) {
	f := cmd.Flags()
	m := risk.MarketFromConfig(cfg.Market)
	pol := risk.PolicyFromConfig(cfg.Policy)

	if f.Changed("economic-climate") {
		m.EconomicClimate, _ = f.GetFloat64("economic-climate")
	}
	if f.Changed("ai-innovation") {
		m.AIInnovation, _ = f.GetFloat64("ai-innovation")
	}
	if f.Changed("salary") {
		pol.AnnualSalary, _ = f.GetFloat64("salary")
	}
	if f.Changed("coverage-months") {
		n, err := monthsFlag(cmd, "coverage-months")
		if err != nil {
			return m, pol, err
		}
		pol.CoverageDurationMonths = n
	}
	if f.Changed("coverage-pct") {
		pol.CoveragePercentage, _ = f.GetFloat64("coverage-pct")
	}
	if f.Changed("loading-factor") {
		pol.LoadingFactor, _ = f.GetFloat64("loading-factor")
	}
	if f.Changed("min-premium") {
		pol.MinMonthlyPremium, _ = f.GetFloat64("min-premium")
	}
	return m, pol, nil
}

// loadTables resolves the table file from --tables or config.
func loadTables(cmd *cobra.Command) (*tables.Tables, error) {
	path := cfg.Tables.Path
	if v, _ := cmd.Flags().GetString("tables"); v != "" {
		path = v
	}
	t, err := tables.Load(path)
	if err != nil {
		return nil, eris.Wrap(err, "load tables")
	}
	return t, nil
}

// inputs gathers and validates everything an assessment needs.
type inputs struct {
	calc    *risk.Calculator
	profile risk.Profile
	market  risk.Market
	policy  risk.Policy
}

func readInputs(cmd *cobra.Command) (*inputs, error) {
	t, err := loadTables(cmd)
	if err != nil {
		return nil, err
	}

	in := &inputs{
		calc:    risk.NewCalculator(t, cfg.Actuarial),
		profile: profileFromFlags(cmd),
	}
	if in.market, in.policy, err = applyMarketPolicyOverrides(cmd); err != nil {
		return nil, err
	}

	if err := in.profile.Validate(t); err != nil {
		return nil, err
	}
	if err := in.market.Validate(); err != nil {
		return nil, err
	}
	if err := in.policy.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

func readScenario(cmd *cobra.Command, in *inputs) (risk.Scenario, error) {
	s, err := scenarioFromFlags(cmd, in.profile)
	if err != nil {
		return risk.Scenario{}, err
	}
	if err := s.Validate(in.calc.Tables(), in.profile); err != nil {
		return risk.Scenario{}, err
	}
	return s, nil
}

// outputFormat resolves --format, inferring xlsx from an --output file
// extension when the format was left at its default.
func outputFormat(cmd *cobra.Command) (report.Format, string, error) {
	f := cmd.Flags()
	raw, _ := f.GetString("format")
	output, _ := f.GetString("output")

	if !f.Changed("format") && strings.EqualFold(filepath.Ext(output), ".xlsx") {
		raw = string(report.FormatXLSX)
	}
	format, err := report.ParseFormat(raw)
	if err != nil {
		return "", "", err
	}
	if format == report.FormatXLSX && output == "" {
		return "", "", eris.New("--output is required for xlsx format")
	}
	return format, output, nil
}

// emit writes the workbook for xlsx output, otherwise runs write against
// stdout or the --output file.
func emit(cmd *cobra.Command, wb report.Workbook, write func(w *report.Writer) error) error {
	format, output, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	if format == report.FormatXLSX {
		if err := report.SaveWorkbook(output, wb); err != nil {
			return err
		}
		zap.L().Info("workbook written", zap.String("path", output))
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output) //nolint:errcheck
		return nil
	}

	if output == "" {
		return write(report.NewWriter(cmd.OutOrStdout(), format, runID))
	}

	file, err := createOutput(output)
	if err != nil {
		return eris.Wrapf(err, "create output file %s", output)
	}
	if err := write(report.NewWriter(file, format, runID)); err != nil {
		_ = file.Close()
		return err
	}
	// Close can surface the final write error.
	if err := file.Close(); err != nil {
		return eris.Wrapf(err, "close output file %s", output)
	}
	zap.L().Info("report written", zap.String("path", output))
	return nil
}

// createOutput opens a report file. Tests replace it to observe close errors.
var createOutput = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
