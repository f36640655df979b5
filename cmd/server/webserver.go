package main

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// webServer serves the point protocol on /ws, the named regions on
// /regions, session counters on /stats and files from ./static on /.
func webServer(ctx context.Context, addr string, sched *sessionScheduler) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           newMux(sched),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.Printf("listening on http://localhost%s", addr)
	return srv
}

func newMux(sched *sessionScheduler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(sched))
	mux.HandleFunc("/regions", regionsHandler)
	mux.HandleFunc("/stats", statsHandler(sched))
	mux.Handle("/", http.FileServer(http.Dir("./static")))
	return mux
}

// websocketHandler upgrades the request and serves the connection as one
// session until either side closes it.
func websocketHandler(sched *sessionScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: restrict once the viewer has a fixed origin
		})
		if err != nil {
			log.Println(err)
			return
		}
		defer c.CloseNow()

		log.Printf("got connection from: %s", r.RemoteAddr)
		err = sched.serve(r.Context(), c)
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			c.Close(websocket.StatusNormalClosure, "")
		default:
			log.Printf("session %s: %v", r.RemoteAddr, err)
		}
	}
}

func statsHandler(sched *sessionScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, struct {
			Sessions int `json:"sessions"`
			Served   int `json:"served"`
		}{sched.active(), sched.served()})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json: %v", err)
	}
}
