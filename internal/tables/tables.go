// Package tables holds the read-only lookup tables (occupations, education,
// school tiers, company types) that feed the risk calculator.
package tables

import (
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNotFound is returned when a lookup key is not present in a table.
var ErrNotFound = eris.New("lookup key not found")

// Kind names one of the lookup tables.
type Kind string

// Table kinds. The values double as YAML keys and XLSX sheet names.
const (
	KindOccupation     Kind = "occupations"
	KindEducationLevel Kind = "education_levels"
	KindEducationField Kind = "education_fields"
	KindSchoolTier     Kind = "school_tiers"
	KindCompanyType    Kind = "company_types"
)

// Kinds lists every table kind in display order.
var Kinds = []Kind{KindOccupation, KindEducationLevel, KindEducationField, KindSchoolTier, KindCompanyType}

// Occupation holds the base automation hazard and role multiplier of a job.
type Occupation struct {
	BaseHazard     float64 `yaml:"base_hazard" json:"base_hazard"`
	RoleMultiplier float64 `yaml:"role_multiplier" json:"role_multiplier"`
}

// EducationLevel holds the factor for a highest education level.
type EducationLevel struct {
	LevelFactor float64 `yaml:"level_factor" json:"level_factor"`
}

// EducationField holds the factor for a field of study.
type EducationField struct {
	FieldFactor float64 `yaml:"field_factor" json:"field_factor"`
}

// SchoolTier holds the factor for an institution tier.
type SchoolTier struct {
	SchoolFactor float64 `yaml:"school_factor" json:"school_factor"`
}

// CompanyType holds the baseline company risk factor of an employer category.
// It is a display default only; the calculator derives company risk from
// live sub-scores.
type CompanyType struct {
	CompanyRiskFactor float64 `yaml:"company_risk_factor" json:"company_risk_factor"`
}

// Tables bundles every lookup mapping, keyed by display name.
type Tables struct {
	Occupations     map[string]Occupation     `yaml:"occupations" json:"occupations"`
	EducationLevels map[string]EducationLevel `yaml:"education_levels" json:"education_levels"`
	EducationFields map[string]EducationField `yaml:"education_fields" json:"education_fields"`
	SchoolTiers     map[string]SchoolTier     `yaml:"school_tiers" json:"school_tiers"`
	CompanyTypes    map[string]CompanyType    `yaml:"company_types" json:"company_types"`
}

// Occupation looks up an occupation by name.
func (t *Tables) Occupation(name string) (Occupation, error) {
	o, ok := t.Occupations[name]
	if !ok {
		return Occupation{}, eris.Wrapf(ErrNotFound, "tables: occupation %q", name)
	}
	return o, nil
}

// EducationLevel looks up an education level by name.
func (t *Tables) EducationLevel(name string) (EducationLevel, error) {
	e, ok := t.EducationLevels[name]
	if !ok {
		return EducationLevel{}, eris.Wrapf(ErrNotFound, "tables: education level %q", name)
	}
	return e, nil
}

// EducationField looks up an education field by name.
func (t *Tables) EducationField(name string) (EducationField, error) {
	f, ok := t.EducationFields[name]
	if !ok {
		return EducationField{}, eris.Wrapf(ErrNotFound, "tables: education field %q", name)
	}
	return f, nil
}

// SchoolTier looks up a school tier by name.
func (t *Tables) SchoolTier(name string) (SchoolTier, error) {
	s, ok := t.SchoolTiers[name]
	if !ok {
		return SchoolTier{}, eris.Wrapf(ErrNotFound, "tables: school tier %q", name)
	}
	return s, nil
}

// CompanyType looks up a company type by name.
func (t *Tables) CompanyType(name string) (CompanyType, error) {
	c, ok := t.CompanyTypes[name]
	if !ok {
		return CompanyType{}, eris.Wrapf(ErrNotFound, "tables: company type %q", name)
	}
	return c, nil
}

// Names returns the sorted keys of the given table.
func (t *Tables) Names(kind Kind) []string {
	var names []string
	switch kind {
	case KindOccupation:
		names = keys(t.Occupations)
	case KindEducationLevel:
		names = keys(t.EducationLevels)
	case KindEducationField:
		names = keys(t.EducationFields)
	case KindSchoolTier:
		names = keys(t.SchoolTiers)
	case KindCompanyType:
		names = keys(t.CompanyTypes)
	}
	sort.Strings(names)
	return names
}

// Factors returns the numeric columns of an entry in table order, for
// listing and export. ok is false when the entry does not exist.
func (t *Tables) Factors(kind Kind, name string) (values []float64, ok bool) {
	switch kind {
	case KindOccupation:
		o, found := t.Occupations[name]
		return []float64{o.BaseHazard, o.RoleMultiplier}, found
	case KindEducationLevel:
		e, found := t.EducationLevels[name]
		return []float64{e.LevelFactor}, found
	case KindEducationField:
		f, found := t.EducationFields[name]
		return []float64{f.FieldFactor}, found
	case KindSchoolTier:
		s, found := t.SchoolTiers[name]
		return []float64{s.SchoolFactor}, found
	case KindCompanyType:
		c, found := t.CompanyTypes[name]
		return []float64{c.CompanyRiskFactor}, found
	}
	return nil, false
}

// Columns returns the header row used for the given table in exports.
func Columns(kind Kind) []string {
	switch kind {
	case KindOccupation:
		return []string{"name", "base_hazard", "role_multiplier"}
	case KindEducationLevel:
		return []string{"name", "level_factor"}
	case KindEducationField:
		return []string{"name", "field_factor"}
	case KindSchoolTier:
		return []string{"name", "school_factor"}
	case KindCompanyType:
		return []string{"name", "company_risk_factor"}
	}
	return nil
}

// Validate checks that the required tables are populated and that every
// factor is finite and non-negative. Company types are optional.
func (t *Tables) Validate() error {
	var errs []string

	if len(t.Occupations) == 0 {
		errs = append(errs, "occupations is empty")
	}
	if len(t.EducationLevels) == 0 {
		errs = append(errs, "education_levels is empty")
	}
	if len(t.EducationFields) == 0 {
		errs = append(errs, "education_fields is empty")
	}
	if len(t.SchoolTiers) == 0 {
		errs = append(errs, "school_tiers is empty")
	}

	for _, kind := range Kinds {
		for _, name := range t.Names(kind) {
			if strings.TrimSpace(name) == "" {
				errs = append(errs, string(kind)+": blank name")
				continue
			}
			values, _ := t.Factors(kind, name)
			for _, v := range values {
				if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
					errs = append(errs, string(kind)+": "+name+" has invalid factor")
					break
				}
			}
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("tables: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
