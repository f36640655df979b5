package mandel

import (
	"fmt"
	"math"
)

// IterationPolicy picks the iteration budget for a zoom level.
type IterationPolicy func(zoom float64) int

// FixedBudget ignores the zoom.
func FixedBudget(n int) IterationPolicy {
	return func(float64) int { return n }
}

// ZoomBudget grows n by floor(ln(sqrt(zoom))) so deeper zooms get more
// iterations. Zooms at or below 1 get n unchanged.
func ZoomBudget(n int) IterationPolicy {
	return func(zoom float64) int {
		boost := math.Floor(math.Log(math.Sqrt(zoom)))
		if math.IsNaN(boost) || boost < 0 {
			boost = 0
		}
		if math.IsInf(boost, 1) || boost > math.MaxInt32 {
			boost = math.MaxInt32
		}
		return n + int(boost)
	}
}

// Budget evaluates p at zoom and rejects results below one iteration.
func (p IterationPolicy) Budget(zoom float64) (int, error) {
	if p == nil {
		return 0, fmt.Errorf("%w: no policy", ErrInvalidBudget)
	}
	n := p(zoom)
	if n < 1 {
		return 0, fmt.Errorf("%w: %d iterations at zoom %v", ErrInvalidBudget, n, zoom)
	}
	return n, nil
}
