package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/azazak123/mandelbrot-set"
	"github.com/azazak123/mandelbrot-set/render"
	"github.com/azazak123/mandelbrot-set/wire"
)

func testServer(t *testing.T, cfg render.Config) (*httptest.Server, *sessionScheduler) {
	t.Helper()
	sched := newSessionScheduler(cfg)
	srv := httptest.NewServer(newMux(sched))
	t.Cleanup(srv.Close)
	return srv, sched
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	c.SetReadLimit(-1)
	t.Cleanup(func() { c.CloseNow() })
	return c
}

var smallConfig = render.Config{
	Grid:    mandel.Grid{Width: 40, Height: 40},
	Workers: 4,
	Policy:  mandel.FixedBudget(100),
}

func TestServePointSet(t *testing.T) {
	srv, sched := testServer(t, smallConfig)
	c := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	view := mandel.View{X: -0.5, Zoom: 0.5}
	if err := wsjson.Write(ctx, c, wire.NewRequest(3, view)); err != nil {
		t.Fatal(err)
	}
	typ, msg, err := c.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("answer type = %v, want binary: %s", typ, msg)
	}
	id, pts, err := wire.DecodeFrame(msg)
	if err != nil {
		t.Fatal(err)
	}
	if id != 3 {
		t.Errorf("id = %d, want 3", id)
	}

	want, err := render.Generate(ctx, view, smallConfig)
	if err != nil {
		t.Fatal(err)
	}
	if len(pts) != len(want) {
		t.Errorf("got %d points, want %d", len(pts), len(want))
	}

	c.Close(websocket.StatusNormalClosure, "")
	deadline := time.Now().Add(5 * time.Second)
	for sched.active() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := sched.served(); n != 1 {
		t.Errorf("served = %d, want 1", n)
	}
}

func TestServeInvalidView(t *testing.T) {
	srv, _ := testServer(t, smallConfig)
	c := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, req := range []wire.Request{{ID: 1, Zoom: 0}, {ID: 2, Zoom: 1, Region: "atlantis"}} {
		if err := wsjson.Write(ctx, c, req); err != nil {
			t.Fatal(err)
		}
		var f wire.Failure
		if err := wsjson.Read(ctx, c, &f); err != nil {
			t.Fatal(err)
		}
		if f.ID != req.ID || !strings.Contains(f.Error, "invalid view") {
			t.Errorf("failure = %+v, want id %d and an invalid view error", f, req.ID)
		}
	}
}

func TestServeRegionRequest(t *testing.T) {
	srv, _ := testServer(t, smallConfig)
	c := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := wsjson.Write(ctx, c, wire.Request{ID: 9, Region: "home"}); err != nil {
		t.Fatal(err)
	}
	_, msg, err := c.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	id, pts, err := wire.DecodeFrame(msg)
	if err != nil {
		t.Fatal(err)
	}
	if id != 9 || len(pts) == 0 {
		t.Errorf("got id %d with %d points", id, len(pts))
	}
}

func TestServeSupersede(t *testing.T) {
	// Slow enough that the first request is still running when the second
	// arrives.
	slow := render.Config{
		Grid:    mandel.Grid{Width: 8, Height: 4000},
		Workers: 8,
		Policy:  mandel.FixedBudget(1 << 20),
	}
	srv, _ := testServer(t, slow)
	c := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// The first view is entirely inside the main cardioid, so every sample
	// runs the full budget.
	if err := wsjson.Write(ctx, c, wire.NewRequest(1, mandel.View{Zoom: 8})); err != nil {
		t.Fatal(err)
	}
	// The second lies far outside the set and finishes at once.
	if err := wsjson.Write(ctx, c, wire.NewRequest(2, mandel.View{X: 10, Zoom: 8})); err != nil {
		t.Fatal(err)
	}

	_, msg, err := c.Read(ctx)
	if err != nil {
		t.Fatal(err)
	}
	id, pts, err := wire.DecodeFrame(msg)
	if err != nil {
		t.Fatal(err)
	}
	if id != 2 {
		t.Errorf("first answer is for request %d, want 2", id)
	}
	if len(pts) != 0 {
		t.Errorf("got %d points far outside the set", len(pts))
	}
}

func TestServeSupersedeBackToBack(t *testing.T) {
	// Each view takes a few tens of milliseconds, far longer than reading
	// the next request.
	cfg := render.Config{
		Grid:    mandel.Grid{Width: 8, Height: 200},
		Workers: 8,
		Policy:  mandel.FixedBudget(1 << 16),
	}
	srv, _ := testServer(t, cfg)
	c := dial(t, srv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	view := mandel.View{Zoom: 8}
	for i := range uint64(20) {
		older, newer := 2*i+1, 2*i+2
		for _, id := range []uint64{older, newer} {
			if err := wsjson.Write(ctx, c, wire.NewRequest(id, view)); err != nil {
				t.Fatal(err)
			}
		}

		_, msg, err := c.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		id, pts, err := wire.DecodeFrame(msg)
		if err != nil {
			t.Fatal(err)
		}
		if id != newer {
			t.Fatalf("answer to requests %d and %d is for %d, want %d", older, newer, id, newer)
		}
		if want := 8 * 200; len(pts) != want {
			t.Errorf("request %d: got %d points, want %d", id, len(pts), want)
		}
	}
}

func TestRegionsHandler(t *testing.T) {
	srv, _ := testServer(t, smallConfig)

	resp, err := http.Get(srv.URL + "/regions")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var views []namedView
	if err := json.NewDecoder(resp.Body).Decode(&views); err != nil {
		t.Fatal(err)
	}
	if len(views) != len(mandel.Landmarks) {
		t.Fatalf("got %d regions, want %d", len(views), len(mandel.Landmarks))
	}
	for i, v := range views {
		if i > 0 && views[i-1].Name >= v.Name {
			t.Errorf("regions not sorted: %q before %q", views[i-1].Name, v.Name)
		}
		if _, ok := mandel.Landmarks[v.Name]; !ok || v.Zoom <= 0 {
			t.Errorf("unexpected region %+v", v)
		}
	}
}
