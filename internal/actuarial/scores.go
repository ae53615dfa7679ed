package actuarial

import (
	"math"

	"github.com/rotisserie/eris"
)

// Idiosyncratic score normalization: raw scores in [rawFloor, rawCap] map
// linearly onto [scoreFloor, scoreCap]; anything outside saturates.
const (
	rawFloor   = 0.1
	rawCap     = 2.0
	scoreFloor = 5.0
	scoreCap   = 100.0
)

// IdiosyncraticRisk returns the individual-specific risk score V_i in
// [5, 100], rounded to two decimals.
func IdiosyncraticRisk(fhc, fcr, fus, wCR, wUS float64) (float64, error) {
	if anyNaN(fhc, fcr, fus, wCR, wUS) {
		return 0, eris.Wrap(ErrValue, "actuarial: idiosyncratic risk input is NaN")
	}

	combined := wCR*fcr + wUS*fus
	raw := fhc * combined
	return normalizeRaw(raw), nil
}

func normalizeRaw(raw float64) float64 {
	// 0 * Inf between factor and weights yields NaN; treat as no exposure.
	if math.IsNaN(raw) || raw <= rawFloor {
		return scoreFloor
	}
	if raw >= rawCap {
		return scoreCap
	}
	slope := (scoreCap - scoreFloor) / (rawCap - rawFloor)
	return roundTo(scoreFloor+slope*(raw-rawFloor), 2)
}

// BaseHazardTTV interpolates the occupational base hazard k months into a
// career transition lasting ttv months. k saturates at 0 and ttv.
func BaseHazardTTV(k, ttv int, hCurrent, hTarget float64) (float64, error) {
	if ttv == 0 {
		return 0, eris.Wrap(ErrDivisionByZero, "actuarial: transition length is zero")
	}
	if ttv < 0 {
		return 0, eris.Wrapf(ErrValue, "actuarial: transition length %d is negative", ttv)
	}
	if k < 0 {
		k = 0
	}
	if k > ttv {
		k = ttv
	}
	switch k {
	case 0:
		return hCurrent, nil
	case ttv:
		return hTarget, nil
	}
	return (float64(ttv-k)*hCurrent + float64(k)*hTarget) / float64(ttv), nil
}

// SystematicRisk returns the occupation hazard H_i adjusted by the economic
// climate and AI innovation modifiers. The result is in raw hazard units and
// is not clamped.
func SystematicRisk(hBase, mEcon, iAI, wEcon, wInno float64) float64 {
	return hBase * (wEcon*mEcon + wInno*iAI)
}
