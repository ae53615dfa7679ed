package risk

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/aiq-cli/internal/actuarial"
	"github.com/sells-group/aiq-cli/internal/config"
	"github.com/sells-group/aiq-cli/internal/tables"
)

// Scores is the headline triple shown for a scenario.
type Scores struct {
	IdiosyncraticRisk float64 `json:"idiosyncratic_risk"`
	SystematicRisk    float64 `json:"systematic_risk"`
	MonthlyPremium    float64 `json:"monthly_premium"`
}

// Assessment holds every intermediate value of one pipeline pass.
type Assessment struct {
	Fexp            float64 `json:"fexp"`
	Fhc             float64 `json:"fhc"`
	Fcr             float64 `json:"fcr"`
	Fus             float64 `json:"fus"`
	CompanyBaseline float64 `json:"company_baseline,omitempty"`

	IdiosyncraticRisk float64 `json:"idiosyncratic_risk"`
	BaseHazard        float64 `json:"base_hazard"`
	SystematicRisk    float64 `json:"systematic_risk"`

	Payout              float64 `json:"payout"`
	PSystemic           float64 `json:"p_systemic"`
	PIndividualSystemic float64 `json:"p_individual_systemic"`
	PClaim              float64 `json:"p_claim"`
	ExpectedLoss        float64 `json:"expected_loss"`
	MonthlyPremium      float64 `json:"monthly_premium"`
}

// Scores returns the headline scores of the assessment.
func (a *Assessment) Scores() Scores {
	return Scores{
		IdiosyncraticRisk: a.IdiosyncraticRisk,
		SystematicRisk:    a.SystematicRisk,
		MonthlyPremium:    a.MonthlyPremium,
	}
}

// Calculator runs assessments against a fixed set of lookup tables and model
// parameters. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	tables *tables.Tables
	params config.ActuarialConfig
}

// NewCalculator creates a Calculator with the given tables and parameters.
func NewCalculator(t *tables.Tables, params config.ActuarialConfig) *Calculator {
	return &Calculator{tables: t, params: params}
}

// Tables returns the lookup tables the calculator reads.
func (c *Calculator) Tables() *tables.Tables {
	return c.tables
}

// individual holds the factors that depend only on the profile and the skill
// progress being evaluated.
type individual struct {
	fexp, fhc, fcr, fus, score float64
}

// claimChain holds the probability and pricing results for one pair of
// risk scores.
type claimChain struct {
	pSystemic, pIndividual, pClaim, expectedLoss, premium float64
}

// Assess runs the full pipeline for the profile's current job.
func (c *Calculator) Assess(p Profile, m Market, pol Policy) (*Assessment, error) {
	occ, err := c.tables.Occupation(p.Occupation)
	if err != nil {
		return nil, eris.Wrap(err, "risk: assess")
	}

	ind, err := c.individual(p, p.GeneralSkillProgress, p.SpecificSkillProgress)
	if err != nil {
		return nil, err
	}

	systematic := c.systematic(occ.BaseHazard, m)

	payout, err := actuarial.PayoutAmount(pol.AnnualSalary, pol.CoverageDurationMonths, pol.CoveragePercentage)
	if err != nil {
		return nil, eris.Wrap(err, "risk: payout")
	}

	chain, err := c.price(systematic, ind.score, payout, pol)
	if err != nil {
		return nil, err
	}

	a := &Assessment{
		Fexp:                ind.fexp,
		Fhc:                 ind.fhc,
		Fcr:                 ind.fcr,
		Fus:                 ind.fus,
		IdiosyncraticRisk:   ind.score,
		BaseHazard:          occ.BaseHazard,
		SystematicRisk:      systematic,
		Payout:              payout,
		PSystemic:           chain.pSystemic,
		PIndividualSystemic: chain.pIndividual,
		PClaim:              chain.pClaim,
		ExpectedLoss:        chain.expectedLoss,
		MonthlyPremium:      chain.premium,
	}
	if p.CompanyType != "" {
		if co, err := c.tables.CompanyType(p.CompanyType); err == nil {
			a.CompanyBaseline = co.CompanyRiskFactor
		}
	}

	zap.L().Debug("risk: assessment computed",
		zap.String("occupation", p.Occupation),
		zap.Float64("idiosyncratic_risk", a.IdiosyncraticRisk),
		zap.Float64("systematic_risk", a.SystematicRisk),
		zap.Float64("p_claim", a.PClaim),
		zap.Float64("monthly_premium", a.MonthlyPremium),
	)

	return a, nil
}

// individual computes the human capital, company risk and upskilling factors
// and the resulting idiosyncratic risk for the given skill progress.
func (c *Calculator) individual(p Profile, pGen, pSpec float64) (individual, error) {
	occ, err := c.tables.Occupation(p.Occupation)
	if err != nil {
		return individual{}, eris.Wrap(err, "risk: human capital")
	}
	level, err := c.tables.EducationLevel(p.EducationLevel)
	if err != nil {
		return individual{}, eris.Wrap(err, "risk: human capital")
	}
	field, err := c.tables.EducationField(p.EducationField)
	if err != nil {
		return individual{}, eris.Wrap(err, "risk: human capital")
	}
	school, err := c.tables.SchoolTier(p.SchoolTier)
	if err != nil {
		return individual{}, eris.Wrap(err, "risk: human capital")
	}

	var ind individual
	if ind.fexp, err = actuarial.Fexp(p.YearsExperience); err != nil {
		return individual{}, eris.Wrap(err, "risk: experience factor")
	}
	ind.fhc = actuarial.Fhc(occ.RoleMultiplier, level.LevelFactor, field.FieldFactor, school.SchoolFactor, ind.fexp)

	ind.fcr, err = actuarial.Fcr(p.SentimentScore, p.FinancialHealthScore, p.GrowthScore,
		c.params.W1FCR, c.params.W2FCR, c.params.W3FCR)
	if err != nil {
		return individual{}, eris.Wrap(err, "risk: company risk factor")
	}

	if ind.fus, err = actuarial.Fus(pGen, pSpec, c.params.GammaGen, c.params.GammaSpec); err != nil {
		return individual{}, eris.Wrap(err, "risk: upskilling factor")
	}

	ind.score, err = actuarial.IdiosyncraticRisk(ind.fhc, ind.fcr, ind.fus, c.params.WCR, c.params.WUS)
	if err != nil {
		return individual{}, eris.Wrap(err, "risk: idiosyncratic risk")
	}
	return ind, nil
}

func (c *Calculator) systematic(hBase float64, m Market) float64 {
	return actuarial.SystematicRisk(hBase, m.EconomicClimate, m.AIInnovation, c.params.WEcon, c.params.WInno)
}

// price runs the claim probability and premium model.
func (c *Calculator) price(systematic, idiosyncratic, payout float64, pol Policy) (claimChain, error) {
	var (
		ch  claimChain
		err error
	)
	if ch.pSystemic, err = actuarial.PSystemic(systematic, c.params.BetaSystemic); err != nil {
		return claimChain{}, eris.Wrap(err, "risk: systemic probability")
	}
	if ch.pIndividual, err = actuarial.PIndividualSystemic(idiosyncratic, c.params.BetaIndividual); err != nil {
		return claimChain{}, eris.Wrap(err, "risk: individual probability")
	}
	if ch.pClaim, err = actuarial.PClaim(ch.pSystemic, ch.pIndividual); err != nil {
		return claimChain{}, eris.Wrap(err, "risk: claim probability")
	}
	if ch.expectedLoss, err = actuarial.ExpectedLoss(ch.pClaim, payout); err != nil {
		return claimChain{}, eris.Wrap(err, "risk: expected loss")
	}
	if ch.premium, err = actuarial.MonthlyPremium(ch.expectedLoss, pol.LoadingFactor, pol.MinMonthlyPremium); err != nil {
		return claimChain{}, eris.Wrap(err, "risk: monthly premium")
	}
	return ch, nil
}

func clampUnit(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
