package risk

import (
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/aiq-cli/internal/actuarial"
	"github.com/sells-group/aiq-cli/internal/config"
)

// Comparison pairs the current scores with the simulated ones.
type Comparison struct {
	Current   Scores `json:"current"`
	Simulated Scores `json:"simulated"`
}

// Delta returns simulated minus current for each score.
func (c Comparison) Delta() Scores {
	return Scores{
		IdiosyncraticRisk: c.Simulated.IdiosyncraticRisk - c.Current.IdiosyncraticRisk,
		SystematicRisk:    c.Simulated.SystematicRisk - c.Current.SystematicRisk,
		MonthlyPremium:    c.Simulated.MonthlyPremium - c.Current.MonthlyPremium,
	}
}

// TransitionPoint is one month of a career-transition trend.
type TransitionPoint struct {
	Month          int     `json:"month"`
	BaseHazard     float64 `json:"base_hazard"`
	SystematicRisk float64 `json:"systematic_risk"`
	MonthlyPremium float64 `json:"monthly_premium"`
}

// SkillPoint is one step of a general-skill sensitivity sweep.
type SkillPoint struct {
	Progress          float64 `json:"progress"`
	IdiosyncraticRisk float64 `json:"idiosyncratic_risk"`
	MonthlyPremium    float64 `json:"monthly_premium"`
}

// simulation holds the scenario-dependent values shared by Compare and the
// two trend series.
type simulation struct {
	current       *Assessment
	targetHazard  float64
	idiosyncratic float64
	systematic    float64
	payout        float64
}

func (c *Calculator) simulate(p Profile, s Scenario, m Market, pol Policy) (*simulation, error) {
	current, err := c.Assess(p, m, pol)
	if err != nil {
		return nil, err
	}

	target, err := c.tables.Occupation(s.TargetOccupation)
	if err != nil {
		return nil, eris.Wrap(err, "risk: simulate")
	}

	ind, err := c.individual(p, s.GeneralSkillProgress, s.SpecificSkillProgress)
	if err != nil {
		return nil, err
	}

	hBase, err := actuarial.BaseHazardTTV(s.MonthsElapsed, s.TTVMonths, current.BaseHazard, target.BaseHazard)
	if err != nil {
		return nil, eris.Wrap(err, "risk: transition hazard")
	}

	return &simulation{
		current:       current,
		targetHazard:  target.BaseHazard,
		idiosyncratic: ind.score,
		systematic:    c.systematic(hBase, m),
		payout:        current.Payout,
	}, nil
}

// Compare returns the current scores next to the scores after the scenario's
// skill progress and transition month are applied.
func (c *Calculator) Compare(p Profile, s Scenario, m Market, pol Policy) (*Comparison, error) {
	sim, err := c.simulate(p, s, m, pol)
	if err != nil {
		return nil, err
	}

	chain, err := c.price(sim.systematic, sim.idiosyncratic, sim.payout, pol)
	if err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Current: sim.current.Scores(),
		Simulated: Scores{
			IdiosyncraticRisk: sim.idiosyncratic,
			SystematicRisk:    sim.systematic,
			MonthlyPremium:    chain.premium,
		},
	}

	d := cmp.Delta()
	zap.L().Debug("risk: comparison computed",
		zap.String("occupation", p.Occupation),
		zap.String("target_occupation", s.TargetOccupation),
		zap.Int("months_elapsed", s.MonthsElapsed),
		zap.Float64("delta_idiosyncratic", d.IdiosyncraticRisk),
		zap.Float64("delta_systematic", d.SystematicRisk),
		zap.Float64("delta_premium", d.MonthlyPremium),
	)

	return cmp, nil
}

// TransitionTrend returns one point per month from 0 through the scenario's
// TTV. Idiosyncratic risk is held at the scenario's skill level.
func (c *Calculator) TransitionTrend(p Profile, s Scenario, m Market, pol Policy) ([]TransitionPoint, error) {
	if s.TTVMonths > actuarial.MaxMonths {
		return nil, eris.Wrapf(actuarial.ErrValue, "risk: transition length %d exceeds %d months", s.TTVMonths, actuarial.MaxMonths)
	}

	sim, err := c.simulate(p, s, m, pol)
	if err != nil {
		return nil, err
	}

	points := make([]TransitionPoint, 0, s.TTVMonths+1)
	for k := 0; k <= s.TTVMonths; k++ {
		hBase, err := actuarial.BaseHazardTTV(k, s.TTVMonths, sim.current.BaseHazard, sim.targetHazard)
		if err != nil {
			return nil, eris.Wrapf(err, "risk: transition month %d", k)
		}
		systematic := c.systematic(hBase, m)

		chain, err := c.price(systematic, sim.idiosyncratic, sim.payout, pol)
		if err != nil {
			return nil, eris.Wrapf(err, "risk: transition month %d", k)
		}

		points = append(points, TransitionPoint{
			Month:          k,
			BaseHazard:     hBase,
			SystematicRisk: systematic,
			MonthlyPremium: chain.premium,
		})
	}

	zap.L().Debug("risk: transition trend computed",
		zap.String("target_occupation", s.TargetOccupation),
		zap.Int("points", len(points)),
	)
	return points, nil
}

// SkillSensitivity sweeps general-skill progress from 0 to 1 in increments of
// step, which must lie in [config.MinSkillStep, 1]. Firm-specific progress
// stays at the profile's current value and systematic risk at the scenario's
// simulated value.
func (c *Calculator) SkillSensitivity(p Profile, s Scenario, m Market, pol Policy, step float64) ([]SkillPoint, error) {
	if !(step >= config.MinSkillStep && step <= 1) {
		return nil, eris.Wrapf(actuarial.ErrValue, "risk: skill step %v outside [%v,1]", step, config.MinSkillStep)
	}

	sim, err := c.simulate(p, s, m, pol)
	if err != nil {
		return nil, err
	}

	n := int(math.Ceil(1/step - 1e-9))
	points := make([]SkillPoint, 0, n+1)
	for i := 0; i <= n; i++ {
		progress := clampUnit(math.Round(float64(i)*step*1e6) / 1e6)

		ind, err := c.individual(p, progress, p.SpecificSkillProgress)
		if err != nil {
			return nil, eris.Wrapf(err, "risk: skill progress %v", progress)
		}
		chain, err := c.price(sim.systematic, ind.score, sim.payout, pol)
		if err != nil {
			return nil, eris.Wrapf(err, "risk: skill progress %v", progress)
		}

		points = append(points, SkillPoint{
			Progress:          progress,
			IdiosyncraticRisk: ind.score,
			MonthlyPremium:    chain.premium,
		})
	}

	zap.L().Debug("risk: skill sensitivity computed",
		zap.Float64("step", step),
		zap.Int("points", len(points)),
	)
	return points, nil
}
