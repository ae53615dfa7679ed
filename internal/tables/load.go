package tables

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Load reads tables from path, choosing the parser by file extension.
// An empty path returns the built-in defaults.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}

	var (
		t   *Tables
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		t, err = LoadYAML(path)
	case ".xlsx":
		t, err = LoadXLSX(path)
	default:
		return nil, eris.Errorf("tables: unsupported file extension %q", ext)
	}
	if err != nil {
		return nil, err
	}

	zap.L().Debug("tables: loaded",
		zap.String("path", path),
		zap.Int("occupations", len(t.Occupations)),
		zap.Int("education_levels", len(t.EducationLevels)),
		zap.Int("education_fields", len(t.EducationFields)),
		zap.Int("school_tiers", len(t.SchoolTiers)),
		zap.Int("company_types", len(t.CompanyTypes)),
	)
	return t, nil
}

// LoadYAML reads tables from a YAML file with a top-level "tables" key.
func LoadYAML(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tables: read %s", path)
	}

	var wrapper struct {
		Tables Tables `yaml:"tables"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "tables: parse yaml")
	}

	t := &wrapper.Tables
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadXLSX reads tables from a workbook with one sheet per table kind. The
// first row of each sheet is a header. The company_types sheet is optional.
func LoadXLSX(path string) (*Tables, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "tables: open workbook")
	}

	t := &Tables{
		Occupations:     map[string]Occupation{},
		EducationLevels: map[string]EducationLevel{},
		EducationFields: map[string]EducationField{},
		SchoolTiers:     map[string]SchoolTier{},
		CompanyTypes:    map[string]CompanyType{},
	}

	for _, kind := range Kinds {
		sheet, ok := f.Sheet[string(kind)]
		if !ok {
			if kind == KindCompanyType {
				continue
			}
			return nil, eris.Errorf("tables: sheet %q not found", kind)
		}

		width := len(Columns(kind)) - 1
		for i, row := range sheet.Rows {
			if i == 0 {
				continue
			}
			cells := rowToStrings(row)
			if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
				continue
			}
			name := strings.TrimSpace(cells[0])
			values, err := parseFactors(cells[1:], width)
			if err != nil {
				return nil, eris.Wrapf(err, "tables: sheet %s row %d", kind, i+1)
			}
			t.set(kind, name, values)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// SaveXLSX writes the tables to a workbook that LoadXLSX can read back.
func SaveXLSX(path string, t *Tables) error {
	f := xlsx.NewFile()
	for _, kind := range Kinds {
		sheet, err := f.AddSheet(string(kind))
		if err != nil {
			return eris.Wrapf(err, "tables: add sheet %s", kind)
		}

		header := sheet.AddRow()
		for _, col := range Columns(kind) {
			header.AddCell().SetString(col)
		}

		for _, name := range t.Names(kind) {
			row := sheet.AddRow()
			row.AddCell().SetString(name)
			values, _ := t.Factors(kind, name)
			for _, v := range values {
				row.AddCell().SetFloat(v)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "tables: save workbook %s", path)
	}
	return nil
}

func (t *Tables) set(kind Kind, name string, v []float64) {
	switch kind {
	case KindOccupation:
		t.Occupations[name] = Occupation{BaseHazard: v[0], RoleMultiplier: v[1]}
	case KindEducationLevel:
		t.EducationLevels[name] = EducationLevel{LevelFactor: v[0]}
	case KindEducationField:
		t.EducationFields[name] = EducationField{FieldFactor: v[0]}
	case KindSchoolTier:
		t.SchoolTiers[name] = SchoolTier{SchoolFactor: v[0]}
	case KindCompanyType:
		t.CompanyTypes[name] = CompanyType{CompanyRiskFactor: v[0]}
	}
}

func parseFactors(cells []string, width int) ([]float64, error) {
	if len(cells) < width {
		return nil, eris.Errorf("expected %d factor columns, got %d", width, len(cells))
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(cells[i]), 64)
		if err != nil {
			return nil, eris.Wrapf(err, "column %d", i+2)
		}
		out[i] = v
	}
	return out, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
