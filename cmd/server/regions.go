package main

import (
	"net/http"
	"sort"

	mandel "github.com/azazak123/mandelbrot-set"
)

type namedView struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// regionViews lists mandel.Landmarks by name as the views a client can
// request.
func regionViews() []namedView {
	views := make([]namedView, 0, len(mandel.Landmarks))
	for name, r := range mandel.Landmarks {
		v := mandel.ViewOf(r)
		views = append(views, namedView{Name: name, X: v.X, Y: v.Y, Zoom: v.Zoom})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Name < views[j].Name })
	return views
}

func regionsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, regionViews())
}
