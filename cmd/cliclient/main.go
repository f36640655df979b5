// cliclient asks the point server for one view and paints the returned
// point set into a PNG file.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/azazak123/mandelbrot-set"
	"github.com/azazak123/mandelbrot-set/wire"
)

func main() {
	log.Printf("Starting CLI client...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	var (
		server  = flag.String("server", "ws://localhost:8080/ws", "point server websocket url")
		region  = flag.String("region", "", "named region (home, seahorse, elephant, minibrot, triple, dragon); overrides -x, -y, -zoom")
		x       = flag.Float64("x", -0.5, "view centre, real part")
		y       = flag.Float64("y", 0, "view centre, imaginary part")
		zoom    = flag.Float64("zoom", 0.5, "zoom, the view spans ±1/zoom around the centre")
		size    = flag.Int("size", 800, "output image width and height in pixels")
		output  = flag.String("o", "mandel.png", "output file")
		timeout = flag.Duration("timeout", 2*time.Minute, "give up after this long")
	)
	flag.Parse()

	req := wire.NewRequest(1, mandel.View{X: *x, Y: *y, Zoom: *zoom})
	req.Region = *region
	view, err := req.View()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// Step 1: Connect to the point server
	log.Printf("Connecting to point server at %s...", *server)
	c, _, err := websocket.Dial(ctx, *server, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer c.CloseNow()
	c.SetReadLimit(-1)

	// Step 2: Request the view and wait for its point set
	log.Printf("Requesting view %+v...", view)
	pts, err := fetch(ctx, c, req)
	if err != nil {
		return err
	}
	log.Printf("Received %d points", len(pts))
	c.Close(websocket.StatusNormalClosure, "")

	// Step 3: Paint and save
	img := paint(mandel.Viewport{View: view, Width: *size, Height: *size}, pts)
	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	log.Printf("Point set saved to %q", *output)
	return nil
}

// fetch sends req and returns the point set answering it.
func fetch(ctx context.Context, c *websocket.Conn, req wire.Request) ([]mandel.Point, error) {
	if err := wsjson.Write(ctx, c, req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			return nil, fmt.Errorf("read answer: %w", err)
		}
		switch typ {
		case websocket.MessageText:
			var f wire.Failure
			if err := json.Unmarshal(msg, &f); err != nil {
				return nil, fmt.Errorf("decode failure: %w", err)
			}
			if f.ID == req.ID {
				return nil, fmt.Errorf("server: %s", f.Error)
			}
		case websocket.MessageBinary:
			id, pts, err := wire.DecodeFrame(msg)
			if err != nil {
				return nil, err
			}
			if id == req.ID {
				return pts, nil
			}
		}
	}
}
