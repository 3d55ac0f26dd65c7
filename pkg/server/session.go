package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/crumbtrail/pkg/render"
	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// Session is one live connection. It owns a single Tree for its whole
// lifetime, so breadcrumb overrides survive navigation within the session.
//
// The session runs three goroutines:
//   - ReadLoop decodes client messages and queues them
//   - EventLoop applies navigations to the tree and sends renders
//   - WriteLoop sends heartbeat pings
//
// Only EventLoop touches the tree.
type Session struct {
	// ID is the unique session identifier.
	ID string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	conn     *websocket.Conn
	tree     *Tree
	config   *SessionConfig
	renderer *render.Renderer
	tracer   trace.Tracer
	observer Observer
	logger   *slog.Logger

	events chan Message

	writeMu    sync.Mutex
	done       chan struct{}
	closeOnce  sync.Once
	onClose    func(*Session)
	lastActive atomic.Int64
	messages   atomic.Int64
}

func generateSessionID() string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return generateComponentID()
	}
	return hex.EncodeToString(b)
}

type sessionDeps struct {
	config   *SessionConfig
	renderer *render.Renderer
	tracer   trace.Tracer
	observer Observer
	logger   *slog.Logger
	onClose  func(*Session)
}

func newSession(conn *websocket.Conn, app vdom.Component, path string, deps sessionDeps) *Session {
	id := generateSessionID()
	logger := deps.logger.With("session_id", id)
	s := &Session{
		ID:        id,
		CreatedAt: time.Now(),
		conn:      conn,
		config:    deps.config,
		renderer:  deps.renderer,
		tracer:    deps.tracer,
		observer:  deps.observer,
		logger:    logger,
		events:    make(chan Message, 16),
		done:      make(chan struct{}),
		onClose:   deps.onClose,
	}
	s.tree = NewTree(app, path, TreeConfig{
		MaxPasses: deps.config.MaxPasses,
		Logger:    logger,
	})
	s.lastActive.Store(time.Now().UnixNano())
	return s
}

// Start starts all session loops.
func (s *Session) Start() {
	go s.ReadLoop()
	go s.WriteLoop()
	go s.EventLoop()
}

// ReadLoop reads client messages until the connection fails or the session
// closes. Malformed messages are answered with an error message and
// otherwise ignored.
func (s *Session) ReadLoop() {
	defer s.Close()

	s.conn.SetReadLimit(s.config.MaxMessageSize)
	s.conn.SetPongHandler(func(string) error {
		s.touch()
		return s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", &SessionError{SessionID: s.ID, Op: "read", Err: err})
			}
			return
		}
		s.touch()
		s.messages.Add(1)

		msg, err := DecodeMessage(data)
		if err != nil {
			s.logger.Warn("malformed message", "error", err)
			if err := s.send(errorMessage(err)); err != nil {
				return
			}
			continue
		}

		select {
		case s.events <- msg:
		case <-s.done:
			return
		}
	}
}

// WriteLoop sends heartbeat pings until the session closes.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.config.WriteTimeout))
			s.writeMu.Unlock()
			if err != nil {
				s.logger.Debug("ping failed", "error", &SessionError{SessionID: s.ID, Op: "ping", Err: err})
				s.Close()
				return
			}
		case <-s.done:
			return
		}
	}
}

// EventLoop renders the initial tree and then applies queued navigations
// one at a time. It owns the tree and disposes it on exit.
func (s *Session) EventLoop() {
	defer vango.ReleaseGoroutine()
	defer s.tree.Dispose()

	s.renderAndSend(context.Background())

	for {
		select {
		case msg := <-s.events:
			s.handleMessage(msg)
		case <-s.done:
			return
		}
	}
}

func (s *Session) handleMessage(msg Message) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("message panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	switch msg.Type {
	case MessageNavigate:
		ctx, span := s.tracer.Start(context.Background(), "crumbs.navigate",
			trace.WithAttributes(
				attribute.String("crumbs.session_id", s.ID),
				attribute.String("crumbs.path", msg.Path),
			))
		defer span.End()

		if err := s.tree.Navigate(msg.Path); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			s.logger.Warn("navigate rejected", "path", msg.Path, "error", err)
			s.send(errorMessage(err))
			return
		}
		s.renderAndSend(ctx)
	}
}

// renderAndSend settles the tree and sends its HTML.
func (s *Session) renderAndSend(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "crumbs.render",
		trace.WithAttributes(attribute.String("crumbs.session_id", s.ID)))
	defer span.End()

	node, err := s.tree.Render()
	stats := s.tree.Stats()
	s.observer.Rendered(RenderEvent{
		Source:   SourceLive,
		Path:     stats.Path,
		Passes:   stats.Passes,
		Duration: stats.Duration,
		Err:      err,
	})
	span.SetAttributes(
		attribute.String("crumbs.path", stats.Path),
		attribute.Int("crumbs.passes", stats.Passes),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("render failed", "path", stats.Path, "error", err)
		s.send(errorMessage(err))
		return
	}

	html, err := s.renderer.RenderToString(node)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("html render failed", "path", stats.Path, "error", err)
		s.send(errorMessage(err))
		return
	}
	s.send(Message{Type: MessageRender, Path: stats.Path, HTML: html})
}

// send writes msg as JSON. It returns ErrSessionClosed once the session is
// closed; a write error closes the session and is returned as a
// *SessionError.
func (s *Session) send(msg Message) error {
	if s.IsClosed() {
		return ErrSessionClosed
	}
	s.writeMu.Lock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	err := s.conn.WriteJSON(msg)
	s.writeMu.Unlock()
	if err != nil {
		err = &SessionError{SessionID: s.ID, Op: "write", Err: err}
		s.logger.Debug("write failed", "error", err)
		s.Close()
		return err
	}
	return nil
}

func (s *Session) touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

// LastActive returns the time of the last message or pong.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Messages returns the number of messages received.
func (s *Session) Messages() int64 {
	return s.messages.Load()
}

// Close closes the session and its connection. It is safe to call more
// than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		s.conn.Close()
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed when the session closes.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
