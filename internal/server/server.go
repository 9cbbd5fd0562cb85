// Package server exposes item counting sessions over WebSocket. Each
// connection is one recording session with its own engine; the connection's
// reader goroutine is the only goroutine that touches that engine.
//
// A reset carrying a sense ("see", "hear", ...) turns the session into a
// sense step: counts are then capped at the step's expected items, taps can
// confirm items, and replies report the step's progress.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/chaz8081/groundcount/internal/itemcount"
	"github.com/chaz8081/groundcount/internal/sense"
)

const wsMaxMessageSize = 1 << 20 // 1MB

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server serves counting sessions.
type Server struct {
	addr       string
	params     itemcount.Params
	engineOpts []itemcount.Option
	metrics    *Metrics
}

// Option customizes a Server.
type Option func(*Server)

// WithMetrics enables the /metrics endpoint.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithEngineOptions passes options to every session engine.
func WithEngineOptions(opts ...itemcount.Option) Option {
	return func(s *Server) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// New creates a Server listening on addr once Start is called.
func New(addr string, params itemcount.Params, opts ...Option) *Server {
	s := &Server{addr: addr, params: params}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP routes: /ws, /healthz and, if enabled, /metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[server] listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// session is one connection's counting state. step is nil until the client
// starts a sense step.
type session struct {
	id     string
	conn   *websocket.Conn
	engine *itemcount.Engine
	step   *sense.Step
}

// withProgress adds the active step's progress to a reply.
func (sess *session) withProgress(m Message) Message {
	if sess.step == nil {
		return m
	}
	t := sess.step.Sense()
	m.Sense = t.String()
	m.Expected = t.Expected()
	m.Detected = intPtr(sess.step.DetectedCount())
	m.Complete = sess.step.Complete()
	return m
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("[server] upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageSize)

	sess := &session{
		id:     uuid.NewString(),
		conn:   conn,
		engine: itemcount.New(s.params, s.engineOpts...),
	}
	if s.metrics != nil {
		s.metrics.sessions.Inc()
		defer s.metrics.sessions.Dec()
	}

	log := slog.With("session", sess.id)
	log.Debug("[server] session opened", "remote", conn.RemoteAddr().String())
	defer log.Debug("[server] session closed")

	if err := conn.WriteJSON(Message{Type: TypeSession, SessionID: sess.id}); err != nil {
		log.Warn("[server] write failed", "error", err)
		return
	}

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("[server] read ended", "error", err)
			}
			return
		}
		reply, ok := s.processMessage(sess, msg)
		if !ok {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("[server] write failed", "error", err)
			return
		}
	}
}

// processMessage handles one client message. It reports false when there
// is nothing to send back, which is how a debounced count is expressed.
func (s *Server) processMessage(sess *session, msg Message) (Message, bool) {
	switch msg.Type {
	case TypeSnapshot:
		b := sess.engine.Inspect(msg.Text, msg.Segments)
		var count int
		var ok bool
		if sess.step != nil {
			if sess.step.Mode() == sense.Manual {
				sess.step.SetMode(sense.Voice)
			}
			count, ok = sess.step.ObserveSnapshot(msg.Text, msg.Segments)
		} else {
			count, ok = sess.engine.Process(msg.Text, msg.Segments)
		}
		if s.metrics != nil {
			s.metrics.observeSnapshot(ok)
		}
		if !ok {
			return Message{}, false
		}
		slog.Debug("[server] count", "session", sess.id, "count", count, "text", b.TextCount, "pause", b.PauseCount)
		return sess.withProgress(Message{Type: TypeCount, SessionID: sess.id, Count: intPtr(count), Breakdown: &b, Final: msg.Final}), true

	case TypeReset:
		if msg.Sense != "" {
			t, err := sense.ParseType(msg.Sense)
			if err != nil {
				return Message{Type: TypeError, SessionID: sess.id, Error: err.Error()}, true
			}
			sess.step = sense.NewStep(t, sess.engine)
			slog.Debug("[server] sense step started", "session", sess.id, "sense", t.String())
		}
		if sess.step != nil {
			sess.step.StartRecording()
		} else {
			sess.engine.Reset()
		}
		if s.metrics != nil {
			s.metrics.resets.Inc()
		}
		return sess.withProgress(Message{Type: TypeResetDone, SessionID: sess.id, Count: intPtr(0)}), true

	case TypeManual:
		if s.metrics != nil {
			s.metrics.manual.Inc()
		}
		if sess.step != nil {
			sess.step.SetMode(sense.Manual)
			sess.step.SetManualText(msg.Text)
		}
		return sess.withProgress(Message{Type: TypeManualCount, Count: intPtr(itemcount.CountSeparatedItems(msg.Text))}), true

	case TypeConfirm:
		if sess.step == nil {
			return Message{Type: TypeError, SessionID: sess.id, Error: "confirm needs a sense step; send a reset with a sense first"}, true
		}
		if s.metrics != nil {
			s.metrics.confirms.Inc()
		}
		accepted := sess.step.ConfirmItem()
		return sess.withProgress(Message{Type: TypeConfirmed, SessionID: sess.id, Accepted: boolPtr(accepted)}), true

	default:
		return Message{Type: TypeError, Error: fmt.Sprintf("unknown message type %q", msg.Type)}, true
	}
}
