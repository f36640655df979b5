// Package render computes the point set of a view: it cuts the view into
// vertical strips, runs an escape-time test over each strip in its own
// goroutine and joins the results in strip order.
package render

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	mandel "github.com/azazak123/mandelbrot-set"
)

// Generate returns the bounded samples of v in strip order. Every strip is
// evaluated by its own goroutine, and Generate returns once all of them
// have finished. A failing or panicking strip fails the whole call; no
// partial result is returned.
func Generate(ctx context.Context, v mandel.View, cfg Config) ([]mandel.Point, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	budget, err := cfg.Policy.Budget(v.Zoom)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log := mandel.Logger()
	pred := cfg.predicate()
	strips := Partition(v, cfg.Grid, cfg.Workers, budget, cfg.SpreadRemainder)

	dropped := 0
	if !cfg.SpreadRemainder {
		dropped = cfg.Grid.Dropped(cfg.Workers)
	}
	log.Debug("partition",
		"strips", len(strips),
		"columns", cfg.Grid.StripColumns(cfg.Workers),
		"rows", cfg.Grid.Height,
		"dropped", dropped,
		"budget", budget,
		"predicate", pred.String())

	// slots[i] is written only by the goroutine evaluating strips[i].
	slots := make([][]mandel.Point, len(strips))
	g, gctx := errgroup.WithContext(ctx)
	for i, s := range strips {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &WorkerError{Strip: s.Index, Err: fmt.Errorf("panic: %v", r)}
				}
			}()
			pts, err := EvaluateStrip(gctx, s, pred)
			if err != nil {
				if isCancel(err) {
					return err
				}
				return &WorkerError{Strip: s.Index, Err: err}
			}
			slots[i] = pts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		log.Warn("generation failed", "view", v, "err", err)
		return nil, err
	}

	n := 0
	for _, pts := range slots {
		n += len(pts)
	}
	set := make([]mandel.Point, 0, n)
	for _, pts := range slots {
		set = append(set, pts...)
	}

	log.Info("generated", "view", v, "points", len(set), "elapsed", time.Since(start))
	return set, nil
}
