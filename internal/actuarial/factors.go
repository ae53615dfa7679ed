// Package actuarial implements the displacement-risk formulas: individual
// risk factors, composite risk scores, the claim probability model and the
// premium model. Every function is pure and safe for concurrent use.
package actuarial

import (
	"math"

	"github.com/rotisserie/eris"
)

const (
	maxExperienceYears   = 20
	experienceDecayPerYr = 0.015
)

// Default company-risk sub-score weights (sentiment, financial health,
// growth/AI adoption). Growth carries the extra hundredth.
const (
	DefaultW1FCR = 0.33
	DefaultW2FCR = 0.33
	DefaultW3FCR = 0.34
)

// Fexp returns the experience factor 1 - 0.015*min(max(years,0),20).
func Fexp(years float64) (float64, error) {
	if math.IsNaN(years) || math.IsInf(years, -1) {
		return 0, eris.Wrapf(ErrType, "actuarial: experience years %v", years)
	}
	years = math.Min(math.Max(years, 0), maxExperienceYears)
	return 1 - experienceDecayPerYr*years, nil
}

// Fhc returns the human capital factor, the product of role, education level,
// education field, school tier and experience factors. NaN and Inf propagate.
func Fhc(roleMult, levelFactor, fieldFactor, schoolFactor, fexp float64) float64 {
	return roleMult * levelFactor * fieldFactor * schoolFactor * fexp
}

// Fcr returns the company risk factor as a weighted sum of the sentiment,
// financial health and growth sub-scores. Weights need not sum to 1.
func Fcr(sentiment, financialHealth, growth, w1, w2, w3 float64) (float64, error) {
	in := []float64{sentiment, financialHealth, growth, w1, w2, w3}
	if anyNaN(in...) {
		return 0, eris.Wrap(ErrValue, "actuarial: company risk input is NaN")
	}
	for _, v := range in {
		if math.IsInf(v, 0) {
			return 0, eris.Wrap(ErrOverflow, "actuarial: company risk input is infinite")
		}
	}
	return w1*sentiment + w2*financialHealth + w3*growth, nil
}

// Fus returns the upskilling factor 1 - (gammaGen*pGen + gammaSpec*pSpec).
// The result is not clamped and goes negative for large gammas.
func Fus(pGen, pSpec, gammaGen, gammaSpec float64) (float64, error) {
	if !inUnit(pGen) {
		return 0, eris.Wrapf(ErrValue, "actuarial: general skill progress %v outside [0,1]", pGen)
	}
	if !inUnit(pSpec) {
		return 0, eris.Wrapf(ErrValue, "actuarial: specific skill progress %v outside [0,1]", pSpec)
	}
	if !(gammaGen >= 0) || !(gammaSpec >= 0) {
		return 0, eris.Wrapf(ErrValue, "actuarial: skill weights must be >= 0 (gen=%v spec=%v)", gammaGen, gammaSpec)
	}
	return 1 - (gammaGen*pGen + gammaSpec*pSpec), nil
}
