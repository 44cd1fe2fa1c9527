// Package server streams simulation runs over websockets. Each client
// connection starts a fresh run and receives one JSON frame per sample
// until the run finishes or the client goes away.
package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/san-kum/vortshed/internal/body"
	"github.com/san-kum/vortshed/internal/kutta"
	"github.com/san-kum/vortshed/internal/sim"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Frame is one streamed sample.
type Frame struct {
	Time             float64      `json:"time"`
	BodyX            float64      `json:"body_x"`
	BodyY            float64      `json:"body_y"`
	BodyAngle        float64      `json:"body_angle"`
	ImpulseX         float64      `json:"impulse_x"`
	ImpulseY         float64      `json:"impulse_y"`
	WakeCirculation  float64      `json:"wake_circulation"`
	BoundCirculation float64      `json:"bound_circulation"`
	Blobs            [][3]float64 `json:"blobs"` // x, y, gamma
}

// Builder produces a fresh simulation setup for each connection.
type Builder func() (*body.Body, []kutta.Edge, sim.Config, error)

type Server struct {
	preset string
	build  Builder
	logger *log.Logger
}

func New(preset string, build Builder, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{preset: preset, build: build, logger: logger}
}

// Handler exposes the routes: GET / for run info, GET /ws for the
// stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleInfo)
	mux.HandleFunc("/ws", s.handleStream)
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"preset": s.preset,
		"stream": "/ws",
	})
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	b, edges, cfg, err := s.build()
	if err != nil {
		s.logger.Printf("stream setup: %v", err)
		conn.WriteJSON(map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// reads only serve to detect the client closing
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	frames := make(chan Frame, 64)
	marcher := sim.New(b, edges)
	marcher.AddObserver(frameObserver{frames: frames, ctx: ctx})

	errc := make(chan error, 1)
	go func() {
		_, err := marcher.Run(ctx, cfg)
		close(frames)
		errc <- err
	}()

	for frame := range frames {
		if err := conn.WriteJSON(frame); err != nil {
			cancel()
			for range frames {
			}
			break
		}
	}
	if err := <-errc; err != nil && ctx.Err() == nil {
		s.logger.Printf("stream run: %v", err)
	}
}

type frameObserver struct {
	frames chan<- Frame
	ctx    context.Context
}

func (o frameObserver) OnStep(snap sim.Snapshot) {
	blobs := make([][3]float64, len(snap.Blobs))
	for i, blob := range snap.Blobs {
		blobs[i] = [3]float64{real(blob.Pos), imag(blob.Pos), blob.Gamma}
	}
	frame := Frame{
		Time:             snap.Time,
		BodyX:            real(snap.BodyPos),
		BodyY:            imag(snap.BodyPos),
		BodyAngle:        snap.BodyAngle,
		ImpulseX:         real(snap.Impulse),
		ImpulseY:         imag(snap.Impulse),
		WakeCirculation:  snap.WakeCirculation,
		BoundCirculation: snap.BoundCirculation,
		Blobs:            blobs,
	}
	select {
	case o.frames <- frame:
	case <-o.ctx.Done():
	}
}
