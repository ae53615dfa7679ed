package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/aiq-cli/internal/risk"
)

func sampleAssessment() *risk.Assessment {
	return &risk.Assessment{
		Fexp: 0.85, Fhc: 0.459, Fcr: 0.75, Fus: 0.59,
		CompanyBaseline:     1.0,
		IdiosyncraticRisk:   15.01,
		BaseHazard:          40,
		SystematicRisk:      40,
		Payout:              11250,
		PSystemic:           0.04,
		PIndividualSystemic: 0.07505,
		PClaim:              0.003002,
		ExpectedLoss:        33.7725,
		MonthlyPremium:      20,
	}
}

func sampleComparison() *risk.Comparison {
	return &risk.Comparison{
		Current:   risk.Scores{IdiosyncraticRisk: 59.14, SystematicRisk: 78, MonthlyPremium: 32.43},
		Simulated: risk.Scores{IdiosyncraticRisk: 40.5, SystematicRisk: 40, MonthlyPremium: 20},
	}
}

func samplePoints() ([]risk.TransitionPoint, []risk.SkillPoint) {
	return []risk.TransitionPoint{
			{Month: 0, BaseHazard: 65, SystematicRisk: 78, MonthlyPremium: 32.43},
			{Month: 1, BaseHazard: 60.83, SystematicRisk: 73, MonthlyPremium: 30.35},
		}, []risk.SkillPoint{
			{Progress: 0, IdiosyncraticRisk: 59.14, MonthlyPremium: 32.43},
			{Progress: 0.05, IdiosyncraticRisk: 57.2, MonthlyPremium: 31.37},
			{Progress: 1, IdiosyncraticRisk: 22.1, MonthlyPremium: 20},
		}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Format{
		"table": FormatTable, "CSV": FormatCSV, " json ": FormatJSON, "xlsx": FormatXLSX,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf")
}

func TestMoney(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "$11,250.00", Money(11250))
	assert.Equal(t, "$20.00", Money(20))
	assert.Equal(t, "$0.50", Money(0.5))
	assert.Equal(t, "-$2.50", signedMoney(-2.5))
	assert.Equal(t, "+$1,000.00", signedMoney(1000))
}

func TestAssessment_Table(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, FormatTable, "").Assessment(sampleAssessment()))

	out := buf.String()
	assert.Contains(t, out, "Idiosyncratic risk (V_i)")
	assert.Contains(t, out, "15.01")
	assert.Contains(t, out, "$11,250.00")
	assert.Contains(t, out, "Company type baseline")
}

func TestAssessment_CSV(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, FormatCSV, "").Assessment(sampleAssessment()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"metric", "value"}, records[0])
	assert.Contains(t, records, []string{"payout", "11250"})
	assert.Contains(t, records, []string{"p_individual_systemic", "0.07505"})
	assert.Contains(t, records, []string{"company_baseline", "1"})
}

func TestAssessment_JSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, FormatJSON, "run-1").Assessment(sampleAssessment()))

	var got struct {
		RunID string          `json:"run_id"`
		Kind  string          `json:"kind"`
		Data  risk.Assessment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "assessment", got.Kind)
	assert.Equal(t, *sampleAssessment(), got.Data)
}

func TestAssessment_XLSXUnsupported(t *testing.T) {
	t.Parallel()
	err := NewWriter(&bytes.Buffer{}, FormatXLSX, "").Assessment(sampleAssessment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be written to a stream")
}

func TestComparison_Formats(t *testing.T) {
	t.Parallel()
	c := sampleComparison()

	var table bytes.Buffer
	require.NoError(t, NewWriter(&table, FormatTable, "").Comparison(c))
	assert.Contains(t, table.String(), "Simulated")
	assert.Contains(t, table.String(), "-18.64")
	assert.Contains(t, table.String(), "-$12.43")

	var csvBuf bytes.Buffer
	require.NoError(t, NewWriter(&csvBuf, FormatCSV, "").Comparison(c))
	records, err := csv.NewReader(&csvBuf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"metric", "current", "simulated", "delta"}, records[0])
	assert.Equal(t, []string{"systematic_risk", "78", "40", "-38"}, records[2])

	var jsonBuf bytes.Buffer
	require.NoError(t, NewWriter(&jsonBuf, FormatJSON, "").Comparison(c))
	var got struct {
		Data struct {
			Current   risk.Scores `json:"current"`
			Simulated risk.Scores `json:"simulated"`
			Delta     risk.Scores `json:"delta"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &got))
	assert.Equal(t, c.Current, got.Data.Current)
	assert.Equal(t, c.Simulated, got.Data.Simulated)
	assert.InDelta(t, -38, got.Data.Delta.SystematicRisk, 1e-9)
}

func TestTransition_Formats(t *testing.T) {
	t.Parallel()
	trend, _ := samplePoints()

	var table bytes.Buffer
	require.NoError(t, NewWriter(&table, FormatTable, "").Transition(trend))
	lines := strings.Split(strings.TrimSpace(table.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[2], "65.00")

	var csvBuf bytes.Buffer
	require.NoError(t, NewWriter(&csvBuf, FormatCSV, "").Transition(trend))
	records, err := csv.NewReader(&csvBuf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"month", "base_hazard", "systematic_risk", "monthly_premium"}, records[0])
	assert.Equal(t, []string{"1", "60.83", "73", "30.35"}, records[2])

	var jsonBuf bytes.Buffer
	require.NoError(t, NewWriter(&jsonBuf, FormatJSON, "").Transition(trend))
	var got struct {
		Kind string                 `json:"kind"`
		Data []risk.TransitionPoint `json:"data"`
	}
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &got))
	assert.Equal(t, "transition", got.Kind)
	assert.Equal(t, trend, got.Data)
}

func TestSkills_Formats(t *testing.T) {
	t.Parallel()
	_, skills := samplePoints()

	var table bytes.Buffer
	require.NoError(t, NewWriter(&table, FormatTable, "").Skills(skills))
	assert.Contains(t, table.String(), "100%")
	assert.Contains(t, table.String(), "5%")

	var csvBuf bytes.Buffer
	require.NoError(t, NewWriter(&csvBuf, FormatCSV, "").Skills(skills))
	records, err := csv.NewReader(&csvBuf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"0.05", "57.2", "31.37"}, records[2])
}

func TestSaveWorkbook(t *testing.T) {
	t.Parallel()
	trend, skills := samplePoints()
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, SaveWorkbook(path, Workbook{
		Assessment: sampleAssessment(),
		Comparison: sampleComparison(),
		Transition: trend,
		Skills:     skills,
	}))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	for name, rows := range map[string]int{
		SheetAssessment: 14,
		SheetComparison: 4,
		SheetTransition: 3,
		SheetSkills:     4,
	} {
		sheet, ok := f.Sheet[name]
		require.True(t, ok, "sheet %s", name)
		assert.Len(t, sheet.Rows, rows, "sheet %s", name)
	}
	assert.Equal(t, "delta", f.Sheet[SheetComparison].Rows[3].Cells[0].String())
}

func TestSaveWorkbook_SkipsEmptyParts(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "partial.xlsx")
	require.NoError(t, SaveWorkbook(path, Workbook{Comparison: sampleComparison()}))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Sheets, 1)

	err = SaveWorkbook(filepath.Join(t.TempDir(), "empty.xlsx"), Workbook{})
	require.Error(t, err)
}
