package actuarial

import (
	"math"

	"github.com/rotisserie/eris"
)

const (
	monthsPerYear = 12
	// Products closer than this to a whole number are snapped to it.
	integerSnapTolerance = 1e-6
)

// PayoutAmount returns the total payout L = (salary/12) * months * pct.
func PayoutAmount(annualSalary float64, coverageMonths int, coveragePct float64) (float64, error) {
	if !(annualSalary >= 0) || math.IsInf(annualSalary, 1) {
		return 0, eris.Wrapf(ErrValue, "actuarial: annual salary %v must be finite and >= 0", annualSalary)
	}
	if coverageMonths < 0 {
		return 0, eris.Wrapf(ErrValue, "actuarial: coverage duration %d must be >= 0", coverageMonths)
	}
	if !inUnit(coveragePct) {
		return 0, eris.Wrapf(ErrValue, "actuarial: coverage percentage %v outside [0,1]", coveragePct)
	}
	return (annualSalary / monthsPerYear) * float64(coverageMonths) * coveragePct, nil
}

// ExpectedLoss returns pClaim * payout.
func ExpectedLoss(pClaim, payout float64) (float64, error) {
	if !inUnit(pClaim) {
		return 0, eris.Wrapf(ErrValue, "actuarial: claim probability %v outside [0,1]", pClaim)
	}
	if !(payout >= 0) || math.IsInf(payout, 1) {
		return 0, eris.Wrapf(ErrValue, "actuarial: payout %v must be finite and >= 0", payout)
	}

	loss := pClaim * payout
	if r := math.Round(loss); math.Abs(loss-r) < integerSnapTolerance {
		return r, nil
	}
	return loss, nil
}

// MonthlyPremium returns max(max(loss,0)*loadingFactor/12, minPremium).
// A negative expected loss counts as no loss.
func MonthlyPremium(expectedLoss, loadingFactor, minPremium float64) (float64, error) {
	if math.IsNaN(expectedLoss) {
		return 0, eris.Wrap(ErrValue, "actuarial: expected loss is NaN")
	}
	if !(loadingFactor >= 0) {
		return 0, eris.Wrapf(ErrValue, "actuarial: loading factor %v must be >= 0", loadingFactor)
	}
	if !(minPremium >= 0) {
		return 0, eris.Wrapf(ErrValue, "actuarial: minimum premium %v must be >= 0", minPremium)
	}
	var loaded float64
	if expectedLoss > 0 && loadingFactor > 0 {
		loaded = expectedLoss * loadingFactor / monthsPerYear
	}
	return math.Max(loaded, minPremium), nil
}
