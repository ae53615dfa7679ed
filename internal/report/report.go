// Package report renders assessments, comparisons and simulation series for
// the terminal, spreadsheets and downstream charting.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/aiq-cli/internal/risk"
)

// Format selects an output encoding.
type Format string

// Supported formats.
const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	}
	return "", eris.Errorf("report: --format must be table, csv, json or xlsx (got %q)", s)
}

var printer = message.NewPrinter(language.English)

// Money formats a dollar amount with thousands separators.
func Money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// Writer writes reports in one format to one destination. XLSX output goes
// through SaveWorkbook instead.
type Writer struct {
	out    io.Writer
	format Format
	runID  string
}

// NewWriter creates a Writer. runID is included in JSON envelopes.
func NewWriter(out io.Writer, format Format, runID string) *Writer {
	return &Writer{out: out, format: format, runID: runID}
}

// Format returns the writer's output format.
func (w *Writer) Format() Format {
	return w.format
}

// Blank writes an empty line between sections.
func (w *Writer) Blank() error {
	_, err := fmt.Fprintln(w.out)
	return eris.Wrap(err, "report: write separator")
}

type envelope struct {
	RunID string `json:"run_id,omitempty"`
	Kind  string `json:"kind"`
	Data  any    `json:"data"`
}

func (w *Writer) json(kind string, data any) error {
	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope{RunID: w.runID, Kind: kind, Data: data}); err != nil {
		return eris.Wrapf(err, "report: encode %s", kind)
	}
	return nil
}

func (w *Writer) csv(kind string, header []string, rows [][]string) error {
	cw := csv.NewWriter(w.out)
	if err := cw.Write(header); err != nil {
		return eris.Wrapf(err, "report: write %s CSV header", kind)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return eris.Wrapf(err, "report: write %s CSV row", kind)
		}
	}
	cw.Flush()
	return eris.Wrapf(cw.Error(), "report: flush %s CSV", kind)
}

func (w *Writer) unsupported() error {
	return eris.Errorf("report: format %q cannot be written to a stream", w.format)
}

// Assessment writes a single assessment.
func (w *Writer) Assessment(a *risk.Assessment) error {
	rows := [][]string{
		{"experience_factor", num(a.Fexp)},
		{"human_capital_factor", num(a.Fhc)},
		{"company_risk_factor", num(a.Fcr)},
		{"upskilling_factor", num(a.Fus)},
		{"idiosyncratic_risk", num(a.IdiosyncraticRisk)},
		{"base_hazard", num(a.BaseHazard)},
		{"systematic_risk", num(a.SystematicRisk)},
		{"payout", num(a.Payout)},
		{"p_systemic", num(a.PSystemic)},
		{"p_individual_systemic", num(a.PIndividualSystemic)},
		{"p_claim", num(a.PClaim)},
		{"expected_loss", num(a.ExpectedLoss)},
		{"monthly_premium", num(a.MonthlyPremium)},
	}
	if a.CompanyBaseline != 0 {
		rows = append(rows, []string{"company_baseline", num(a.CompanyBaseline)})
	}

	switch w.format {
	case FormatJSON:
		return w.json("assessment", a)
	case FormatCSV:
		return w.csv("assessment", []string{"metric", "value"}, rows)
	case FormatTable:
		return w.assessmentTable(a)
	}
	return w.unsupported()
}

func (w *Writer) assessmentTable(a *risk.Assessment) error {
	lines := []string{
		fmt.Sprintf("%-28s %12.4f", "Experience factor", a.Fexp),
		fmt.Sprintf("%-28s %12.4f", "Human capital factor", a.Fhc),
		fmt.Sprintf("%-28s %12.4f", "Company risk factor", a.Fcr),
		fmt.Sprintf("%-28s %12.4f", "Upskilling factor", a.Fus),
	}
	if a.CompanyBaseline != 0 {
		lines = append(lines, fmt.Sprintf("%-28s %12.2f", "Company type baseline", a.CompanyBaseline))
	}
	lines = append(lines,
		strings.Repeat("-", 41),
		fmt.Sprintf("%-28s %12.2f", "Idiosyncratic risk (V_i)", a.IdiosyncraticRisk),
		fmt.Sprintf("%-28s %12.2f", "Base hazard", a.BaseHazard),
		fmt.Sprintf("%-28s %12.2f", "Systematic risk (H_i)", a.SystematicRisk),
		strings.Repeat("-", 41),
		fmt.Sprintf("%-28s %12s", "Payout", Money(a.Payout)),
		fmt.Sprintf("%-28s %12.6f", "P(systemic)", a.PSystemic),
		fmt.Sprintf("%-28s %12.6f", "P(individual | systemic)", a.PIndividualSystemic),
		fmt.Sprintf("%-28s %12.6f", "P(claim)", a.PClaim),
		fmt.Sprintf("%-28s %12s", "Expected loss", Money(a.ExpectedLoss)),
		fmt.Sprintf("%-28s %12s", "Monthly premium", Money(a.MonthlyPremium)),
	)
	return w.lines("assessment", lines)
}

// Comparison writes current and simulated scores side by side.
func (w *Writer) Comparison(c *risk.Comparison) error {
	d := c.Delta()
	switch w.format {
	case FormatJSON:
		return w.json("comparison", struct {
			*risk.Comparison
			Delta risk.Scores `json:"delta"`
		}{c, d})
	case FormatCSV:
		return w.csv("comparison", []string{"metric", "current", "simulated", "delta"}, [][]string{
			{"idiosyncratic_risk", num(c.Current.IdiosyncraticRisk), num(c.Simulated.IdiosyncraticRisk), num(d.IdiosyncraticRisk)},
			{"systematic_risk", num(c.Current.SystematicRisk), num(c.Simulated.SystematicRisk), num(d.SystematicRisk)},
			{"monthly_premium", num(c.Current.MonthlyPremium), num(c.Simulated.MonthlyPremium), num(d.MonthlyPremium)},
		})
	case FormatTable:
		return w.lines("comparison", []string{
			fmt.Sprintf("%-20s %12s %12s %12s", "Metric", "Current", "Simulated", "Delta"),
			strings.Repeat("-", 59),
			fmt.Sprintf("%-20s %12.2f %12.2f %+12.2f", "Idiosyncratic risk",
				c.Current.IdiosyncraticRisk, c.Simulated.IdiosyncraticRisk, d.IdiosyncraticRisk),
			fmt.Sprintf("%-20s %12.2f %12.2f %+12.2f", "Systematic risk",
				c.Current.SystematicRisk, c.Simulated.SystematicRisk, d.SystematicRisk),
			fmt.Sprintf("%-20s %12s %12s %12s", "Monthly premium",
				Money(c.Current.MonthlyPremium), Money(c.Simulated.MonthlyPremium), signedMoney(d.MonthlyPremium)),
		})
	}
	return w.unsupported()
}

// Transition writes a career-transition series.
func (w *Writer) Transition(points []risk.TransitionPoint) error {
	switch w.format {
	case FormatJSON:
		return w.json("transition", points)
	case FormatCSV:
		rows := make([][]string, 0, len(points))
		for _, p := range points {
			rows = append(rows, []string{strconv.Itoa(p.Month), num(p.BaseHazard), num(p.SystematicRisk), num(p.MonthlyPremium)})
		}
		return w.csv("transition", []string{"month", "base_hazard", "systematic_risk", "monthly_premium"}, rows)
	case FormatTable:
		lines := []string{
			fmt.Sprintf("%6s %12s %16s %16s", "Month", "Base hazard", "Systematic risk", "Monthly premium"),
			strings.Repeat("-", 53),
		}
		for _, p := range points {
			lines = append(lines, fmt.Sprintf("%6d %12.2f %16.2f %16s", p.Month, p.BaseHazard, p.SystematicRisk, Money(p.MonthlyPremium)))
		}
		return w.lines("transition", lines)
	}
	return w.unsupported()
}

// Skills writes a skill-sensitivity series.
func (w *Writer) Skills(points []risk.SkillPoint) error {
	switch w.format {
	case FormatJSON:
		return w.json("skills", points)
	case FormatCSV:
		rows := make([][]string, 0, len(points))
		for _, p := range points {
			rows = append(rows, []string{num(p.Progress), num(p.IdiosyncraticRisk), num(p.MonthlyPremium)})
		}
		return w.csv("skills", []string{"skill_progress", "idiosyncratic_risk", "monthly_premium"}, rows)
	case FormatTable:
		lines := []string{
			fmt.Sprintf("%9s %19s %16s", "Progress", "Idiosyncratic risk", "Monthly premium"),
			strings.Repeat("-", 46),
		}
		for _, p := range points {
			lines = append(lines, fmt.Sprintf("%8.0f%% %19.2f %16s", p.Progress*100, p.IdiosyncraticRisk, Money(p.MonthlyPremium)))
		}
		return w.lines("skills", lines)
	}
	return w.unsupported()
}

func (w *Writer) lines(kind string, lines []string) error {
	for _, l := range lines {
		if _, err := fmt.Fprintln(w.out, l); err != nil {
			return eris.Wrapf(err, "report: write %s table", kind)
		}
	}
	return nil
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func signedMoney(v float64) string {
	if v < 0 {
		return "-" + Money(-v)
	}
	return "+" + Money(v)
}
