package render

import (
	"context"
	"errors"
	"sync"

	mandel "github.com/azazak123/mandelbrot-set"
)

// Option configures a Generator.
type Option func(*Config)

// WithConfig replaces the whole configuration.
func WithConfig(c Config) Option {
	return func(cfg *Config) { *cfg = c }
}

// WithWorkers sets the number of strips.
func WithWorkers(n int) Option {
	return func(cfg *Config) { cfg.Workers = n }
}

// WithGrid sets the sample grid.
func WithGrid(g mandel.Grid) Option {
	return func(cfg *Config) { cfg.Grid = g }
}

// WithPolicy sets the iteration policy.
func WithPolicy(p mandel.IterationPolicy) Option {
	return func(cfg *Config) { cfg.Policy = p }
}

// WithPredicate sets the escape test.
func WithPredicate(p Predicate) Option {
	return func(cfg *Config) { cfg.Predicate = p }
}

// WithSpreadRemainder samples the columns that do not divide evenly
// between the strips.
func WithSpreadRemainder() Option {
	return func(cfg *Config) { cfg.SpreadRemainder = true }
}

// Generator serves point sets for a fixed configuration. Generate calls are
// independent of each other; Render calls supersede one another.
type Generator struct {
	cfg Config

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelCauseFunc
}

// NewGenerator starts from DefaultConfig and applies opts.
func NewGenerator(opts ...Option) (*Generator, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg}, nil
}

// Config returns the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate implements mandel.PointProvider.
func (g *Generator) Generate(ctx context.Context, v mandel.View) ([]mandel.Point, error) {
	return Generate(ctx, v, g.cfg)
}

// Render is Generate for interactive viewers: starting a Render cancels the
// one still running, which then returns ErrSuperseded.
func (g *Generator) Render(ctx context.Context, v mandel.View) ([]mandel.Point, error) {
	return g.Start(ctx, v)()
}

// Start supersedes the Render in flight, if any, and returns the function
// that generates v. Calls to Start order views by arrival even when their
// generations run on other goroutines: once Start returns, every earlier
// view is cancelled. The returned function must be called exactly once.
func (g *Generator) Start(ctx context.Context, v mandel.View) func() ([]mandel.Point, error) {
	ctx, cancel := context.WithCancelCause(ctx)

	g.mu.Lock()
	if g.cancel != nil {
		g.cancel(ErrSuperseded)
	}
	g.seq++
	seq := g.seq
	g.cancel = cancel
	g.mu.Unlock()

	return func() ([]mandel.Point, error) {
		defer cancel(nil)
		defer func() {
			g.mu.Lock()
			if g.seq == seq {
				g.cancel = nil
			}
			g.mu.Unlock()
		}()

		pts, err := Generate(ctx, v, g.cfg)
		if err != nil {
			if errors.Is(context.Cause(ctx), ErrSuperseded) {
				return nil, ErrSuperseded
			}
			return nil, err
		}
		return pts, nil
	}
}

// Stop cancels the Render in flight, if any.
func (g *Generator) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel(context.Canceled)
		g.cancel = nil
	}
}

var _ mandel.PointProvider = (*Generator)(nil)
