package mandel

import "context"

// PointProvider computes the bounded sample points of a view.
// The returned slice is freshly allocated and owned by the caller.
type PointProvider interface {
	Generate(ctx context.Context, v View) ([]Point, error)
}
