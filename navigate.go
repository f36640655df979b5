package mandel

import (
	"fmt"
	"math"
)

// Direction of a pan.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// MinZoom is the zoom ClampZoom substitutes for unusable values.
const MinZoom = 1e-9

// ClampZoom returns v with a zoom that passes Validate. Collaborators that
// would rather fix up user input than fail call it before generating.
func ClampZoom(v View) View {
	switch {
	case math.IsNaN(v.Zoom) || v.Zoom < MinZoom:
		v.Zoom = MinZoom
	case math.IsInf(v.Zoom, 1):
		v.Zoom = math.MaxFloat64
	}
	return v
}

// ZoomIn multiplies the zoom by factor, keeping the centre.
func (v View) ZoomIn(factor float64) View {
	v.Zoom *= factor
	return v
}

// ZoomOut divides the zoom by factor, keeping the centre.
func (v View) ZoomOut(factor float64) View {
	v.Zoom /= factor
	return v
}

// Pan moves the centre by fraction of the current half-width.
// Up increases the imaginary part.
func (v View) Pan(d Direction, fraction float64) View {
	step := fraction * v.HalfWidth()
	switch d {
	case Up:
		v.Y += step
	case Down:
		v.Y -= step
	case Left:
		v.X -= step
	case Right:
		v.X += step
	}
	return v
}
