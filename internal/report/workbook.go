package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/aiq-cli/internal/risk"
)

// Workbook groups the series written to a spreadsheet. Nil or empty parts
// are skipped.
type Workbook struct {
	Assessment *risk.Assessment
	Comparison *risk.Comparison
	Transition []risk.TransitionPoint
	Skills     []risk.SkillPoint
}

// Sheet names used by SaveWorkbook.
const (
	SheetAssessment = "assessment"
	SheetComparison = "comparison"
	SheetTransition = "transition"
	SheetSkills     = "skills"
)

// SaveWorkbook writes the workbook to an XLSX file with one sheet per part.
func SaveWorkbook(path string, wb Workbook) error {
	f := xlsx.NewFile()

	if a := wb.Assessment; a != nil {
		sheet, err := addSheet(f, SheetAssessment, "metric", "value")
		if err != nil {
			return err
		}
		for _, r := range []struct {
			name string
			v    float64
		}{
			{"experience_factor", a.Fexp},
			{"human_capital_factor", a.Fhc},
			{"company_risk_factor", a.Fcr},
			{"upskilling_factor", a.Fus},
			{"idiosyncratic_risk", a.IdiosyncraticRisk},
			{"base_hazard", a.BaseHazard},
			{"systematic_risk", a.SystematicRisk},
			{"payout", a.Payout},
			{"p_systemic", a.PSystemic},
			{"p_individual_systemic", a.PIndividualSystemic},
			{"p_claim", a.PClaim},
			{"expected_loss", a.ExpectedLoss},
			{"monthly_premium", a.MonthlyPremium},
		} {
			row := sheet.AddRow()
			row.AddCell().SetString(r.name)
			row.AddCell().SetFloat(r.v)
		}
	}

	if c := wb.Comparison; c != nil {
		sheet, err := addSheet(f, SheetComparison, "scenario", "idiosyncratic_risk", "systematic_risk", "monthly_premium")
		if err != nil {
			return err
		}
		for _, r := range []struct {
			name string
			s    risk.Scores
		}{
			{"current", c.Current},
			{"simulated", c.Simulated},
			{"delta", c.Delta()},
		} {
			row := sheet.AddRow()
			row.AddCell().SetString(r.name)
			row.AddCell().SetFloat(r.s.IdiosyncraticRisk)
			row.AddCell().SetFloat(r.s.SystematicRisk)
			row.AddCell().SetFloat(r.s.MonthlyPremium)
		}
	}

	if len(wb.Transition) > 0 {
		sheet, err := addSheet(f, SheetTransition, "month", "base_hazard", "systematic_risk", "monthly_premium")
		if err != nil {
			return err
		}
		for _, p := range wb.Transition {
			row := sheet.AddRow()
			row.AddCell().SetInt(p.Month)
			row.AddCell().SetFloat(p.BaseHazard)
			row.AddCell().SetFloat(p.SystematicRisk)
			row.AddCell().SetFloat(p.MonthlyPremium)
		}
	}

	if len(wb.Skills) > 0 {
		sheet, err := addSheet(f, SheetSkills, "skill_progress", "idiosyncratic_risk", "monthly_premium")
		if err != nil {
			return err
		}
		for _, p := range wb.Skills {
			row := sheet.AddRow()
			row.AddCell().SetFloat(p.Progress)
			row.AddCell().SetFloat(p.IdiosyncraticRisk)
			row.AddCell().SetFloat(p.MonthlyPremium)
		}
	}

	if len(f.Sheets) == 0 {
		return eris.New("report: workbook is empty")
	}
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func addSheet(f *xlsx.File, name string, header ...string) (*xlsx.Sheet, error) {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return nil, eris.Wrapf(err, "report: add sheet %s", name)
	}
	row := sheet.AddRow()
	for _, h := range header {
		row.AddCell().SetString(h)
	}
	return sheet, nil
}
