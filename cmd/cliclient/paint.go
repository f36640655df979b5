package main

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	mandel "github.com/azazak123/mandelbrot-set"
)

// maskSize caps the side of the intermediate mask. Point sets are far
// coarser than typical output sizes, so cells are painted at mask
// resolution and scaled up without smoothing.
const maskSize = 400

// paint draws every point as a black cell on white.
func paint(vp mandel.Viewport, pts []mandel.Point) *image.Gray {
	mw, mh := min(vp.Width, maskSize), min(vp.Height, maskSize)
	mask := image.NewGray(image.Rect(0, 0, mw, mh))
	draw.Draw(mask, mask.Bounds(), image.White, image.Point{}, draw.Src)

	mvp := mandel.Viewport{View: vp.View, Width: mw, Height: mh}
	for _, p := range pts {
		if x, y, ok := mvp.Pixel(p); ok {
			mask.SetGray(x, y, color.Gray{})
		}
	}

	if mw == vp.Width && mh == vp.Height {
		return mask
	}
	out := image.NewGray(image.Rect(0, 0, vp.Width, vp.Height))
	draw.NearestNeighbor.Scale(out, out.Bounds(), mask, mask.Bounds(), draw.Src, nil)
	return out
}
