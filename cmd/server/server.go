package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	mandel "github.com/azazak123/mandelbrot-set"
	"github.com/azazak123/mandelbrot-set/render"
)

// main is the entry point for the point server.
// Note: clients only paint; every point set is computed here.
func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	var (
		addr      = flag.String("addr", ":8080", "http listen address")
		workers   = flag.Int("workers", 50, "strips (and goroutines) per view")
		rows      = flag.Int("rows", 400, "sample rows per view")
		cols      = flag.Int("cols", 0, "sample columns per view, 0 derives them from -rows")
		iter      = flag.Int("iter", 1000, "base iteration budget")
		fixed     = flag.Bool("fixed", false, "do not grow the iteration budget with zoom")
		predicate = flag.String("predicate", "modulus", `escape test: "modulus" or "difference:<threshold>"`)
		spread    = flag.Bool("spread", false, "sample the columns that do not divide between strips")
		verbose   = flag.Bool("v", false, "log every generation")
	)
	flag.Parse()

	if *verbose {
		mandel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	pred, err := render.ParsePredicate(*predicate)
	if err != nil {
		return err
	}
	policy := mandel.ZoomBudget(*iter)
	if *fixed {
		policy = mandel.FixedBudget(*iter)
	}
	cfg := render.Config{
		Grid:            mandel.Grid{Width: *cols, Height: *rows},
		Workers:         *workers,
		Policy:          policy,
		Predicate:       pred,
		SpreadRemainder: *spread,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if d := cfg.Grid.Dropped(cfg.Workers); d > 0 && !cfg.SpreadRemainder {
		log.Printf("warning: %d sample columns do not divide between %d strips and are dropped", d, cfg.Workers)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sched := newSessionScheduler(cfg)
	httpServer := webServer(ctx, *addr, sched)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	log.Printf("mandelbrot point server: %d strips, %dx%d samples, predicate %s", cfg.Workers, cfg.Grid.StripColumns(cfg.Workers)*cfg.Workers, cfg.Grid.Height, pred)
	select {
	case err := <-errCh:
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Printf("served %d views", sched.served())
	return nil
}
