// Package risk composes the actuarial formulas into a full displacement-risk
// assessment and the career-transition and skill simulations built on it.
package risk

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/aiq-cli/internal/actuarial"
	"github.com/sells-group/aiq-cli/internal/config"
	"github.com/sells-group/aiq-cli/internal/tables"
)

// maxExperienceYears bounds the experience input accepted at the boundary.
const maxExperienceYears = 60

// Profile describes the individual's current career situation.
type Profile struct {
	Occupation     string `json:"occupation"`
	EducationLevel string `json:"education_level"`
	EducationField string `json:"education_field"`
	SchoolTier     string `json:"school_tier"`
	CompanyType    string `json:"company_type,omitempty"`

	YearsExperience float64 `json:"years_experience"`

	// Company sub-scores in [0,1].
	SentimentScore       float64 `json:"sentiment_score"`
	FinancialHealthScore float64 `json:"financial_health_score"`
	GrowthScore          float64 `json:"growth_score"`

	// Skill acquisition progress in [0,1].
	GeneralSkillProgress  float64 `json:"general_skill_progress"`
	SpecificSkillProgress float64 `json:"specific_skill_progress"`
}

// Scenario describes a simulated career transition and skill plan.
type Scenario struct {
	TargetOccupation      string  `json:"target_occupation"`
	MonthsElapsed         int     `json:"months_elapsed"`
	TTVMonths             int     `json:"ttv_months"`
	GeneralSkillProgress  float64 `json:"general_skill_progress"`
	SpecificSkillProgress float64 `json:"specific_skill_progress"`
}

// Market holds the macro modifiers applied to occupational hazard.
type Market struct {
	EconomicClimate float64 `json:"economic_climate"`
	AIInnovation    float64 `json:"ai_innovation"`
}

// Policy holds the insurance terms used to price the premium.
type Policy struct {
	AnnualSalary           float64 `json:"annual_salary"`
	CoverageDurationMonths int     `json:"coverage_duration_months"`
	CoveragePercentage     float64 `json:"coverage_percentage"`
	LoadingFactor          float64 `json:"loading_factor"`
	MinMonthlyPremium      float64 `json:"min_monthly_premium"`
}

// MarketFromConfig returns the configured default market modifiers.
func MarketFromConfig(c config.MarketConfig) Market {
	return Market{EconomicClimate: c.EconomicClimate, AIInnovation: c.AIInnovation}
}

// PolicyFromConfig returns the configured default policy terms.
func PolicyFromConfig(c config.PolicyConfig) Policy {
	return Policy{
		AnnualSalary:           c.AnnualSalary,
		CoverageDurationMonths: c.CoverageDurationMonths,
		CoveragePercentage:     c.CoveragePercentage,
		LoadingFactor:          c.LoadingFactor,
		MinMonthlyPremium:      c.MinMonthlyPremium,
	}
}

// Validate checks the profile against the lookup tables and input ranges.
func (p Profile) Validate(t *tables.Tables) error {
	var errs []string

	if _, err := t.Occupation(p.Occupation); err != nil {
		errs = append(errs, fmt.Sprintf("unknown occupation %q", p.Occupation))
	}
	if _, err := t.EducationLevel(p.EducationLevel); err != nil {
		errs = append(errs, fmt.Sprintf("unknown education level %q", p.EducationLevel))
	}
	if _, err := t.EducationField(p.EducationField); err != nil {
		errs = append(errs, fmt.Sprintf("unknown education field %q", p.EducationField))
	}
	if _, err := t.SchoolTier(p.SchoolTier); err != nil {
		errs = append(errs, fmt.Sprintf("unknown school tier %q", p.SchoolTier))
	}
	if p.CompanyType != "" {
		if _, err := t.CompanyType(p.CompanyType); err != nil {
			errs = append(errs, fmt.Sprintf("unknown company type %q", p.CompanyType))
		}
	}

	if !(p.YearsExperience >= 0 && p.YearsExperience <= maxExperienceYears) {
		errs = append(errs, fmt.Sprintf("years_experience must be between 0 and %d", maxExperienceYears))
	}
	for name, v := range map[string]float64{
		"sentiment_score":         p.SentimentScore,
		"financial_health_score":  p.FinancialHealthScore,
		"growth_score":            p.GrowthScore,
		"general_skill_progress":  p.GeneralSkillProgress,
		"specific_skill_progress": p.SpecificSkillProgress,
	} {
		if !inUnit(v) {
			errs = append(errs, name+" must be between 0 and 1")
		}
	}

	return joinErrs("risk: invalid profile", errs)
}

// Validate checks the scenario against the lookup tables and the profile it
// transitions from.
func (s Scenario) Validate(t *tables.Tables, from Profile) error {
	var errs []string

	if _, err := t.Occupation(s.TargetOccupation); err != nil {
		errs = append(errs, fmt.Sprintf("unknown target occupation %q", s.TargetOccupation))
	} else if s.TargetOccupation == from.Occupation {
		errs = append(errs, "target occupation must differ from current occupation")
	}
	if s.TTVMonths <= 0 || s.TTVMonths > actuarial.MaxMonths {
		errs = append(errs, fmt.Sprintf("ttv_months must be between 1 and %d", actuarial.MaxMonths))
	}
	if s.MonthsElapsed < 0 || s.MonthsElapsed > actuarial.MaxMonths {
		errs = append(errs, fmt.Sprintf("months_elapsed must be between 0 and %d", actuarial.MaxMonths))
	}
	if !inUnit(s.GeneralSkillProgress) {
		errs = append(errs, "general_skill_progress must be between 0 and 1")
	}
	if !inUnit(s.SpecificSkillProgress) {
		errs = append(errs, "specific_skill_progress must be between 0 and 1")
	}

	return joinErrs("risk: invalid scenario", errs)
}

// Validate checks that both modifiers are finite and positive.
func (m Market) Validate() error {
	var errs []string
	if !positiveFinite(m.EconomicClimate) {
		errs = append(errs, "economic_climate must be a finite number > 0")
	}
	if !positiveFinite(m.AIInnovation) {
		errs = append(errs, "ai_innovation must be a finite number > 0")
	}
	return joinErrs("risk: invalid market", errs)
}

// Validate checks the policy terms.
func (p Policy) Validate() error {
	var errs []string
	if !(p.AnnualSalary >= 0) || math.IsInf(p.AnnualSalary, 1) {
		errs = append(errs, "annual_salary must be a finite number >= 0")
	}
	if p.CoverageDurationMonths < 0 || p.CoverageDurationMonths > actuarial.MaxMonths {
		errs = append(errs, fmt.Sprintf("coverage_duration_months must be between 0 and %d", actuarial.MaxMonths))
	}
	if !inUnit(p.CoveragePercentage) {
		errs = append(errs, "coverage_percentage must be between 0 and 1")
	}
	if !(p.LoadingFactor >= 0) {
		errs = append(errs, "loading_factor must be >= 0")
	}
	if !(p.MinMonthlyPremium >= 0) {
		errs = append(errs, "min_monthly_premium must be >= 0")
	}
	return joinErrs("risk: invalid policy", errs)
}

func joinErrs(prefix string, errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	sort.Strings(errs)
	return eris.Errorf("%s: %s", prefix, strings.Join(errs, "; "))
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
