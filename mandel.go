// Package mandel holds the plane geometry shared by the point generator and
// its collaborators: views, regions, sample grids and the points that make up
// a rendered set.
package mandel

import (
	"fmt"
	"math"
)

// View is the square window of the complex plane centred at (X, Y) with a
// half-width of 1/Zoom.
type View struct {
	X, Y float64
	Zoom float64
}

// Validate reports ErrInvalidView unless the centre is finite and Zoom is a
// finite positive number.
func (v View) Validate() error {
	if math.IsNaN(v.Zoom) || math.IsInf(v.Zoom, 0) || v.Zoom <= 0 {
		return fmt.Errorf("%w: zoom %v", ErrInvalidView, v.Zoom)
	}
	if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
		return fmt.Errorf("%w: centre (%v, %v)", ErrInvalidView, v.X, v.Y)
	}
	return nil
}

// HalfWidth is the distance from the centre to each edge.
func (v View) HalfWidth() float64 {
	return 1 / v.Zoom
}

// Region returns the plane bounds covered by v.
func (v View) Region() Region {
	h := v.HalfWidth()
	return Region{
		Xmin: v.X - h,
		Xmax: v.X + h,
		Ymin: v.Y - h,
		Ymax: v.Y + h,
	}
}

// Region within the complex plane
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Width of the region along the real axis.
func (r Region) Width() float64 { return r.Xmax - r.Xmin }

// Height of the region along the imaginary axis.
func (r Region) Height() float64 { return r.Ymax - r.Ymin }

// ViewOf returns the smallest square view containing r.
func ViewOf(r Region) View {
	half := max(r.Width(), r.Height()) / 2
	return View{
		X:    r.Xmin + r.Width()/2,
		Y:    r.Ymin + r.Height()/2,
		Zoom: 1 / half,
	}
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}
)

// Landmarks maps the names accepted by the server and the CLI client to
// the classic regions above. "home" is the full set as the viewer opens it.
var Landmarks = map[string]Region{
	"home":     {Xmin: -2, Xmax: 2, Ymin: -2, Ymax: 2},
	"seahorse": SeahorseValley,
	"elephant": ElephantValley,
	"minibrot": SpiralMinibrot,
	"triple":   TripleSpiral,
	"dragon":   ValleyOfTheDragon,
}

// Grid is the number of samples taken along each axis of a full view.
// A zero Width means "derive it from Height", see StripColumns.
type Grid struct {
	Width, Height int
}

// Validate reports ErrInvalidGrid for non-positive dimensions.
func (g Grid) Validate() error {
	if g.Height <= 0 || g.Width < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, g.Width, g.Height)
	}
	return nil
}

func (g Grid) columns() int {
	if g.Width == 0 {
		return g.Height
	}
	return g.Width
}

// StripColumns is the number of sample columns every one of the given
// number of strips receives. Columns that do not divide evenly are dropped;
// see Dropped.
func (g Grid) StripColumns(strips int) int {
	return g.columns() / strips
}

// Dropped is the number of columns lost to integer division when the grid
// is split into the given number of strips.
func (g Grid) Dropped(strips int) int {
	return g.columns() % strips
}

// Point is a sample coordinate that stayed bounded.
type Point struct {
	X, Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}
