package render

import (
	"context"
	"fmt"

	mandel "github.com/azazak123/mandelbrot-set"
)

// Strip is a vertical band of the view together with everything needed to
// evaluate it independently of every other strip.
//
// Partition places a strip on the sample grid of the whole view: column col
// of the strip sits at Left + (First+col)*Dx. A strip with no Dx samples its
// own [X0, X1) evenly instead.
type Strip struct {
	Index         int
	X0, X1        float64 // [X0, X1)
	Y0, Y1        float64 // [Y0, Y1)
	Columns, Rows int
	Budget        int

	First    int     // grid column of the strip's first sample
	Left, Dx float64 // left edge and column spacing of the grid
}

func (s Strip) String() string {
	return fmt.Sprintf("strip %d [%g, %g)x[%g, %g) %dx%d", s.Index, s.X0, s.X1, s.Y0, s.Y1, s.Columns, s.Rows)
}

// Samples is the number of points s tests.
func (s Strip) Samples() int { return s.Columns * s.Rows }

// column returns the real part of the col-th sample column of s.
func (s Strip) column(col int) float64 {
	if s.Dx == 0 {
		return s.X0 + float64(col)*((s.X1-s.X0)/float64(s.Columns))
	}
	return s.Left + float64(s.First+col)*s.Dx
}

// Partition splits the view into workers vertical strips, left to right,
// over a sample grid of g's columns spread evenly across the view. Every
// strip gets g.StripColumns(workers) consecutive grid columns, so the last
// g.Dropped(workers) columns at the right edge are never sampled.
//
// With spread set the dropped columns are handed one each to the last
// strips instead and the strips cover the whole view.
//
// A sample's coordinates depend only on its grid column and row, never on
// the strip holding it, so the same view yields bit-identical points for
// any worker count that samples the same columns.
//
// workers must be at least 1.
func Partition(v mandel.View, g mandel.Grid, workers, budget int, spread bool) []Strip {
	r := v.Region()
	strips := make([]Strip, workers)

	cols, extra := g.StripColumns(workers), g.Dropped(workers)
	dx := r.Width() / float64(cols*workers+extra)
	start := 0
	for i := range strips {
		n := cols
		if spread && i >= workers-extra {
			n++
		}
		strips[i] = Strip{
			Index:   i,
			X0:      r.Xmin + dx*float64(start),
			X1:      r.Xmin + dx*float64(start+n),
			Y0:      r.Ymin,
			Y1:      r.Ymax,
			Columns: n,
			Rows:    g.Height,
			Budget:  budget,
			First:   start,
			Left:    r.Xmin,
			Dx:      dx,
		}
		start += n
	}
	return strips
}

// EvaluateStrip returns the samples of s that stay bounded under pred, row
// by row from Y0 upwards and left to right within a row. ctx is checked
// before each row; if it is done the strip is abandoned with ctx.Err().
func EvaluateStrip(ctx context.Context, s Strip, pred Predicate) ([]mandel.Point, error) {
	if s.Columns <= 0 || s.Rows <= 0 {
		return nil, nil
	}
	dy := (s.Y1 - s.Y0) / float64(s.Rows)

	var pts []mandel.Point
	for row := range s.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q := s.Y0 + float64(row)*dy
		for col := range s.Columns {
			p := s.column(col)
			if Bounded(p, q, s.Budget, pred) {
				pts = append(pts, mandel.Point{X: p, Y: q})
			}
		}
	}
	return pts, nil
}
