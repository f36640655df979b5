package render

import (
	"fmt"
	"math"
)

// Predicate decides whether an orbit iterate is still bounded. Orbits stop
// at the first iterate for which Bounded returns false. NaN and infinite
// iterates must report false.
type Predicate interface {
	Bounded(x, y float64) bool
	fmt.Stringer
}

// Modulus is the standard escape test: the orbit is bounded while
// x² + y² < 4.
var Modulus Predicate = modulus{}

type modulus struct{}

func (modulus) Bounded(x, y float64) bool { return x*x+y*y < 4 }
func (modulus) String() string            { return "x²+y²<4" }

// Difference is bounded while x² − y² < threshold. It reproduces the test
// of the first desktop viewer (threshold 2) and its later variant
// (threshold 100). It does not bound the orbit's modulus, so it classifies
// far more of the plane as in-set than Modulus does.
func Difference(threshold float64) Predicate {
	return difference(threshold)
}

type difference float64

func (t difference) Bounded(x, y float64) bool {
	d := x*x - y*y
	return d < float64(t) && !math.IsInf(d, -1)
}

func (t difference) String() string { return fmt.Sprintf("x²-y²<%g", float64(t)) }

// ParsePredicate accepts "modulus" or "difference:<threshold>".
func ParsePredicate(s string) (Predicate, error) {
	if s == "modulus" || s == "" {
		return Modulus, nil
	}
	var t float64
	if _, err := fmt.Sscanf(s, "difference:%g", &t); err != nil {
		return nil, fmt.Errorf("parse predicate %q: %w", s, err)
	}
	if math.IsNaN(t) {
		return nil, fmt.Errorf("parse predicate %q: threshold is NaN", s)
	}
	return Difference(t), nil
}

// Bounded iterates z ← z² + c from z = 0 for c = (p, q) and reports
// whether all budget iterates satisfied pred. Points that pass are only
// presumed to be in the set.
func Bounded(p, q float64, budget int, pred Predicate) bool {
	var x, y float64
	for range budget {
		x, y = x*x-y*y+p, 2*x*y+q
		if !pred.Bounded(x, y) {
			return false
		}
	}
	return true
}
