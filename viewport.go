package mandel

// Viewport maps plane coordinates of a view onto a Width×Height pixel
// canvas, (0, 0) being the top-left pixel. The imaginary axis points up.
type Viewport struct {
	View          View
	Width, Height int
}

// ToScreen returns the pixel position of p. Points outside the view map
// outside [0, Width)×[0, Height).
func (vp Viewport) ToScreen(p Point) (px, py float64) {
	r := vp.View.Region()
	px = (p.X - r.Xmin) / r.Width() * float64(vp.Width)
	py = (r.Ymax - p.Y) / r.Height() * float64(vp.Height)
	return px, py
}

// ToPlane is the inverse of ToScreen.
func (vp Viewport) ToPlane(px, py float64) Point {
	r := vp.View.Region()
	return Point{
		X: r.Xmin + px/float64(vp.Width)*r.Width(),
		Y: r.Ymax - py/float64(vp.Height)*r.Height(),
	}
}

// Pixel returns the integer pixel containing p and whether it lies on the
// canvas.
func (vp Viewport) Pixel(p Point) (x, y int, ok bool) {
	fx, fy := vp.ToScreen(p)
	if fx < 0 || fy < 0 {
		return 0, 0, false
	}
	x, y = int(fx), int(fy)
	if x >= vp.Width || y >= vp.Height {
		return 0, 0, false
	}
	return x, y, true
}
