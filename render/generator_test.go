package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	mandel "github.com/azazak123/mandelbrot-set"
)

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator()
	if err != nil {
		t.Fatal(err)
	}
	cfg := g.Config()
	if cfg.Workers != 50 || cfg.Grid.Height != 400 || cfg.Grid.StripColumns(cfg.Workers) != 8 {
		t.Errorf("default config = %+v", cfg)
	}
	if n, _ := cfg.Policy.Budget(1); n != 1000 {
		t.Errorf("default budget at zoom 1 = %d, want 1000", n)
	}

	g, err = NewGenerator(
		WithWorkers(3),
		WithGrid(mandel.Grid{Width: 30, Height: 20}),
		WithPolicy(mandel.FixedBudget(7)),
		WithPredicate(Difference(2)),
		WithSpreadRemainder(),
	)
	if err != nil {
		t.Fatal(err)
	}
	cfg = g.Config()
	if cfg.Workers != 3 || cfg.Grid.Width != 30 || !cfg.SpreadRemainder || cfg.Predicate.String() != "x²-y²<2" {
		t.Errorf("config = %+v", cfg)
	}

	if _, err := NewGenerator(WithWorkers(0)); !errors.Is(err, ErrInvalidWorkers) {
		t.Errorf("NewGenerator(WithWorkers(0)) err = %v, want ErrInvalidWorkers", err)
	}
}

func TestGeneratorGenerate(t *testing.T) {
	v, cfg := dyadicConfig(4)
	g, err := NewGenerator(WithConfig(cfg))
	if err != nil {
		t.Fatal(err)
	}
	var p mandel.PointProvider = g
	got, err := p.Generate(context.Background(), v)
	if err != nil {
		t.Fatal(err)
	}
	want, err := Generate(context.Background(), v, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Errorf("Generator.Generate returned %d points, Generate %d", len(got), len(want))
	}
}

// gatePredicate keeps every orbit bounded and closes started on its first
// use, so a test knows a generation is under way.
type gatePredicate struct {
	once    sync.Once
	started chan struct{}
}

func (p *gatePredicate) Bounded(x, y float64) bool {
	p.once.Do(func() { close(p.started) })
	return true
}

func (p *gatePredicate) String() string { return "gate" }

func slowGenerator(t *testing.T) (*Generator, *gatePredicate) {
	t.Helper()
	pred := &gatePredicate{started: make(chan struct{})}
	g, err := NewGenerator(
		WithGrid(mandel.Grid{Width: 4, Height: 4000}),
		WithWorkers(4),
		WithPolicy(mandel.FixedBudget(20000)),
		WithPredicate(pred),
	)
	if err != nil {
		t.Fatal(err)
	}
	return g, pred
}

func TestGeneratorRenderSupersedes(t *testing.T) {
	g, pred := slowGenerator(t)

	errc := make(chan error, 1)
	go func() {
		_, err := g.Render(context.Background(), mandel.View{Zoom: 1})
		errc <- err
	}()

	select {
	case <-pred.started:
	case <-time.After(10 * time.Second):
		t.Fatal("first render never started")
	}

	// The second render is cancelled right away so the test stays fast; it
	// still supersedes the first.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.Render(ctx, mandel.View{Zoom: 2}); !errors.Is(err, context.Canceled) {
		t.Errorf("second render err = %v, want context.Canceled", err)
	}

	select {
	case err := <-errc:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("first render err = %v, want ErrSuperseded", err)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("ErrSuperseded should match context.Canceled")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("superseded render did not return")
	}
}

func TestGeneratorStartOrder(t *testing.T) {
	v, cfg := dyadicConfig(4)
	g, err := NewGenerator(WithConfig(cfg))
	if err != nil {
		t.Fatal(err)
	}

	// The view started last wins however the generations are scheduled.
	older := g.Start(context.Background(), v)
	newer := g.Start(context.Background(), v)

	pts, err := newer()
	if err != nil {
		t.Fatalf("newer view err = %v", err)
	}
	if len(pts) == 0 {
		t.Error("newer view returned no points")
	}
	if pts, err := older(); !errors.Is(err, ErrSuperseded) || pts != nil {
		t.Errorf("older view = %d points, %v; want ErrSuperseded", len(pts), err)
	}

	// A finished view leaves nothing behind for the next one to cancel.
	if _, err := g.Render(context.Background(), v); err != nil {
		t.Errorf("render after both views err = %v", err)
	}
}

func TestGeneratorStop(t *testing.T) {
	g, pred := slowGenerator(t)

	errc := make(chan error, 1)
	go func() {
		_, err := g.Render(context.Background(), mandel.View{Zoom: 1})
		errc <- err
	}()
	<-pred.started
	g.Stop()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("stopped render err = %v, want context.Canceled", err)
		}
		if errors.Is(err, ErrSuperseded) {
			t.Errorf("stopped render reported as superseded")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("stopped render did not return")
	}

	// Stop with nothing in flight is a no-op.
	g.Stop()
}
