// Package wire defines what the point server and its clients exchange over a
// websocket: JSON requests and failures as text messages, point sets as
// binary frames.
//
// A frame is a 12 byte header, the request id (uint64) and the point count
// (uint32), both little endian, followed by the zstd compressed points,
// each one two little endian float64s. An empty set has no payload.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"

	mandel "github.com/azazak123/mandelbrot-set"
)

const (
	headerSize = 12
	pointSize  = 16

	// MaxPoints bounds the point count a frame may announce.
	MaxPoints = 1 << 26
)

// ErrCorrupt is returned for frames that do not decode.
var ErrCorrupt = errors.New("corrupt frame")

// Request asks for the point set of a view. If Region names one of
// mandel.Landmarks it takes precedence over X, Y and Zoom.
type Request struct {
	ID     uint64  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Zoom   float64 `json:"zoom"`
	Region string  `json:"region,omitempty"`
}

// NewRequest builds a request for v.
func NewRequest(id uint64, v mandel.View) Request {
	return Request{ID: id, X: v.X, Y: v.Y, Zoom: v.Zoom}
}

// View resolves the requested view.
func (r Request) View() (mandel.View, error) {
	if r.Region != "" {
		reg, ok := mandel.Landmarks[r.Region]
		if !ok {
			return mandel.View{}, fmt.Errorf("%w: unknown region %q", mandel.ErrInvalidView, r.Region)
		}
		return mandel.ViewOf(reg), nil
	}
	v := mandel.View{X: r.X, Y: r.Y, Zoom: r.Zoom}
	return v, v.Validate()
}

// Failure reports why a request produced no point set.
type Failure struct {
	ID    uint64 `json:"id"`
	Error string `json:"error"`
}

var (
	encoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	})
	// The decoder never grows an output past the largest legal payload,
	// whatever a frame announces.
	decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderConcurrency(0), zstd.WithDecoderMaxMemory(MaxPoints*pointSize))
	})
)

// EncodeFrame serialises the answer to request id.
func EncodeFrame(id uint64, pts []mandel.Point) ([]byte, error) {
	if len(pts) > MaxPoints {
		return nil, fmt.Errorf("encode frame: %d points exceed %d", len(pts), MaxPoints)
	}
	raw := make([]byte, len(pts)*pointSize)
	for i, p := range pts {
		binary.LittleEndian.PutUint64(raw[i*pointSize:], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(raw[i*pointSize+8:], math.Float64bits(p.Y))
	}

	out := make([]byte, headerSize, headerSize+len(raw)/4)
	binary.LittleEndian.PutUint64(out, id)
	binary.LittleEndian.PutUint32(out[8:], uint32(len(pts)))
	if len(pts) == 0 {
		return out, nil
	}
	enc, err := encoder()
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return enc.EncodeAll(raw, out), nil
}

// DecodeFrame is the inverse of EncodeFrame.
func DecodeFrame(b []byte) (id uint64, pts []mandel.Point, err error) {
	if len(b) < headerSize {
		return 0, nil, fmt.Errorf("%w: %d byte frame", ErrCorrupt, len(b))
	}
	id = binary.LittleEndian.Uint64(b)
	n := int(binary.LittleEndian.Uint32(b[8:]))
	if n > MaxPoints {
		return id, nil, fmt.Errorf("%w: %d points announced", ErrCorrupt, n)
	}
	if n == 0 {
		if len(b) != headerSize {
			return id, nil, fmt.Errorf("%w: payload after empty set", ErrCorrupt)
		}
		return id, []mandel.Point{}, nil
	}

	dec, err := decoder()
	if err != nil {
		return id, nil, fmt.Errorf("decode frame: %w", err)
	}
	// Reject a payload whose own header disagrees with the count before
	// decompressing anything. Nothing is allocated up front from n.
	payload := b[headerSize:]
	var h zstd.Header
	if err := h.Decode(payload); err != nil {
		return id, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if h.HasFCS && h.FrameContentSize != uint64(n*pointSize) {
		return id, nil, fmt.Errorf("%w: %d bytes for %d points", ErrCorrupt, h.FrameContentSize, n)
	}
	raw, err := dec.DecodeAll(payload, nil)
	if err != nil {
		return id, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if len(raw) != n*pointSize {
		return id, nil, fmt.Errorf("%w: %d bytes for %d points", ErrCorrupt, len(raw), n)
	}

	pts = make([]mandel.Point, n)
	for i := range pts {
		pts[i] = mandel.Point{
			X: math.Float64frombits(binary.LittleEndian.Uint64(raw[i*pointSize:])),
			Y: math.Float64frombits(binary.LittleEndian.Uint64(raw[i*pointSize+8:])),
		}
	}
	return id, pts, nil
}
