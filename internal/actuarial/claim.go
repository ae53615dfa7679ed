package actuarial

import (
	"math"

	"github.com/rotisserie/eris"
)

// PSystemic returns the probability of a systemic displacement event,
// (H_i/100)*beta with negative inputs floored to zero. 0*Inf is 0; any other
// product involving Inf is +Inf.
func PSystemic(hI, betaSystemic float64) (float64, error) {
	if anyNaN(hI, betaSystemic) {
		return 0, eris.Wrap(ErrValue, "actuarial: systemic probability input is NaN")
	}
	h := math.Max(hI, 0)
	b := math.Max(betaSystemic, 0)
	if math.IsInf(h, 1) || math.IsInf(b, 1) {
		if h == 0 || b == 0 {
			return 0, nil
		}
		return math.Inf(1), nil
	}
	return (h / 100) * b, nil
}

// PIndividualSystemic returns the conditional probability of job loss given a
// systemic event, (V_i/100)*beta, rounded to 10 decimals.
func PIndividualSystemic(vI, betaIndividual float64) (float64, error) {
	if !(vI >= 0 && vI <= 100) {
		return 0, eris.Wrapf(ErrValue, "actuarial: idiosyncratic risk %v outside [0,100]", vI)
	}
	if !inUnit(betaIndividual) {
		return 0, eris.Wrapf(ErrValue, "actuarial: individual beta %v outside [0,1]", betaIndividual)
	}
	return roundTo((vI/100)*betaIndividual, 10), nil
}

// PClaim returns the annual claim probability. Inputs must be finite and
// non-negative; values above 1 are accepted as-is.
func PClaim(pSystemic, pIndividual float64) (float64, error) {
	for _, p := range []float64{pSystemic, pIndividual} {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return 0, eris.Wrapf(ErrValue, "actuarial: claim probability input %v must be finite and >= 0", p)
		}
	}
	return pSystemic * pIndividual, nil
}
