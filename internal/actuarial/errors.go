package actuarial

import (
	"math"

	"github.com/rotisserie/eris"
)

// Error kinds returned (wrapped) by the formula functions. Callers classify
// failures with errors.Is.
var (
	ErrType           = eris.New("not a real number")
	ErrValue          = eris.New("value out of domain")
	ErrOverflow       = eris.New("infinite input")
	ErrDivisionByZero = eris.New("division by zero")
)

// MaxMonths bounds every month count accepted at the boundary: transition
// lengths, elapsed months and coverage durations. 100 years.
const MaxMonths = 1200

// WholeMonths coerces an integral float month count to int. Non-integral,
// NaN and infinite values are rejected with ErrType; magnitudes above
// MaxMonths with ErrValue.
func WholeMonths(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Wrapf(ErrType, "actuarial: month count %v is not finite", v)
	}
	if v != math.Trunc(v) {
		return 0, eris.Wrapf(ErrType, "actuarial: month count %v is not a whole number", v)
	}
	if math.Abs(v) > MaxMonths {
		return 0, eris.Wrapf(ErrValue, "actuarial: month count %v exceeds %d", v, MaxMonths)
	}
	return int(v), nil
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
