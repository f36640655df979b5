package render

import (
	"errors"
	"fmt"

	mandel "github.com/azazak123/mandelbrot-set"
)

// ErrInvalidWorkers is returned for configurations with fewer than one
// worker.
var ErrInvalidWorkers = errors.New("invalid worker count")

// Config holds the tunables of a generation. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// Grid is the sample grid of the whole view.
	Grid mandel.Grid
	// Workers is the number of strips, and of goroutines evaluating them.
	Workers int
	// Policy picks the iteration budget for the view's zoom.
	Policy mandel.IterationPolicy
	// Predicate is the escape test. nil means Modulus.
	Predicate Predicate
	// SpreadRemainder samples the columns that do not divide evenly
	// between the strips instead of dropping them.
	SpreadRemainder bool
}

// DefaultConfig matches the desktop viewer: 400 rows, 50 strips of
// 400/50 columns, 1000 iterations boosted with zoom, standard escape test.
func DefaultConfig() Config {
	return Config{
		Grid:      mandel.Grid{Height: 400},
		Workers:   50,
		Policy:    mandel.ZoomBudget(1000),
		Predicate: Modulus,
	}
}

// Validate checks everything but the iteration policy, which can only be
// judged for a concrete zoom.
func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers)
	}
	if c.Policy == nil {
		return fmt.Errorf("%w: no policy", mandel.ErrInvalidBudget)
	}
	return nil
}

func (c Config) predicate() Predicate {
	if c.Predicate == nil {
		return Modulus
	}
	return c.Predicate
}
