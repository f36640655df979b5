package main

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/azazak123/mandelbrot-set"
	"github.com/azazak123/mandelbrot-set/render"
	"github.com/azazak123/mandelbrot-set/wire"
)

// sessionScheduler hands every websocket connection its own generator so a
// new view on one connection only supersedes that connection's previous
// view.
type sessionScheduler struct {
	cfg render.Config

	m         sync.Mutex
	sessions  int
	viewsDone int
}

func newSessionScheduler(cfg render.Config) *sessionScheduler {
	return &sessionScheduler{cfg: cfg}
}

func (ss *sessionScheduler) active() int {
	ss.m.Lock()
	defer ss.m.Unlock()
	return ss.sessions
}

func (ss *sessionScheduler) served() int {
	ss.m.Lock()
	defer ss.m.Unlock()
	return ss.viewsDone
}

func (ss *sessionScheduler) incSessions() {
	ss.m.Lock()
	ss.sessions++
	n := ss.sessions
	ss.m.Unlock()

	log.Printf("sessions: %d", n)
}

func (ss *sessionScheduler) decSessions() {
	ss.m.Lock()
	ss.sessions--
	n := ss.sessions
	ss.m.Unlock()

	log.Printf("sessions: %d", n)
}

func (ss *sessionScheduler) viewServed() {
	ss.m.Lock()
	ss.viewsDone++
	ss.m.Unlock()
}

// serve reads requests from c until it fails or ctx is done. Each request
// is rendered in the background; a newer request cancels the older one,
// which is then left unanswered. Requests supersede each other in the
// order they are read, before their renders are scheduled.
func (ss *sessionScheduler) serve(ctx context.Context, c *websocket.Conn) error {
	ss.incSessions()
	defer ss.decSessions()

	gen, err := render.NewGenerator(render.WithConfig(ss.cfg))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &session{conn: c, sched: ss}
	defer func() {
		cancel()
		s.wg.Wait()
	}()

	for {
		var req wire.Request
		if err := wsjson.Read(ctx, c, &req); err != nil {
			return err
		}
		v, err := req.View()
		if err != nil {
			s.fail(ctx, req.ID, err)
			continue
		}

		run := gen.Start(ctx, v)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.render(ctx, req.ID, run)
		}()
	}
}

type session struct {
	conn  *websocket.Conn
	sched *sessionScheduler

	wg      sync.WaitGroup
	writeMu sync.Mutex
}

func (s *session) render(ctx context.Context, id uint64, run func() ([]mandel.Point, error)) {
	pts, err := run()
	switch {
	case errors.Is(err, render.ErrSuperseded):
		log.Printf("request %d superseded", id)
		return
	case ctx.Err() != nil:
		return
	case err != nil:
		s.fail(ctx, id, err)
		return
	}

	frame, err := wire.EncodeFrame(id, pts)
	if err != nil {
		s.fail(ctx, id, err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.Write(ctx, websocket.MessageBinary, frame); err != nil {
		log.Printf("write frame %d: %v", id, err)
		return
	}
	s.sched.viewServed()
}

func (s *session) fail(ctx context.Context, id uint64, err error) {
	log.Printf("request %d failed: %v", id, err)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := wsjson.Write(ctx, s.conn, wire.Failure{ID: id, Error: err.Error()}); err != nil {
		log.Printf("write failure %d: %v", id, err)
	}
}
