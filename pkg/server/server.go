package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/crumbtrail/internal/errors"
	"github.com/vango-dev/crumbtrail/pkg/render"
	"github.com/vango-dev/crumbtrail/pkg/routepath"
	"github.com/vango-dev/crumbtrail/pkg/vango"
	"github.com/vango-dev/crumbtrail/pkg/vdom"
)

// TracerName is the OpenTelemetry instrumentation name of this package.
const TracerName = "github.com/vango-dev/crumbtrail/pkg/server"

// Middleware is a function that wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Server serves rendered pages over HTTP and keeps them live over
// WebSocket sessions.
type Server struct {
	config   *ServerConfig
	sessions *SessionManager
	upgrader websocket.Upgrader
	renderer *render.Renderer
	tracer   trace.Tracer

	root       func() vdom.Component
	middleware []Middleware
	mounts     []mount

	handlerOnce sync.Once
	handler     http.Handler

	httpServer *http.Server
	logger     *slog.Logger
}

type mount struct {
	pattern string
	handler http.Handler
}

// New creates a Server. Unset config fields take their defaults.
func New(config *ServerConfig) *Server {
	config = config.withDefaults()
	logger := config.Logger.With("component", "server")

	if err := config.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
	}

	renderer := render.NewRenderer(render.RendererConfig{})
	tracer := otel.Tracer(TracerName)

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		renderer: renderer,
		tracer:   tracer,
		logger:   logger,
	}
	s.sessions = newSessionManager(config.MaxSessions, sessionDeps{
		config:   config.SessionConfig,
		renderer: renderer,
		tracer:   tracer,
		observer: config.Observer,
		logger:   config.Logger,
	})
	return s
}

// SetRootComponent sets the factory for the component every page and
// session mounts. Each tree gets a fresh component.
func (s *Server) SetRootComponent(factory func() vdom.Component) {
	s.root = factory
}

// Use adds HTTP middleware. It must be called before the first request.
func (s *Server) Use(mw Middleware) {
	s.middleware = append(s.middleware, mw)
}

// Mount serves h at pattern next to the page routes, e.g. "/metrics".
// It must be called before the first request.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.mounts = append(s.mounts, mount{pattern: pattern, handler: h})
}

// Handler returns the complete HTTP handler:
//
//	GET /healthz        liveness probe
//	GET /_crumbs/live   live session WebSocket (when enabled)
//	GET /*              rendered pages
//
// plus everything added with Mount.
func (s *Server) Handler() http.Handler {
	s.handlerOnce.Do(func() {
		r := chi.NewRouter()
		r.Use(chimw.RequestID)
		r.Use(chimw.Recoverer)
		for _, mw := range s.middleware {
			r.Use(mw)
		}

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte("ok"))
		})
		if !s.config.DisableLive {
			r.Get(LivePath, s.HandleWebSocket)
		}
		for _, m := range s.mounts {
			r.Handle(m.pattern, m.handler)
		}
		r.Get("/*", s.HandlePage)

		s.handler = r
	})
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}

// RenderPath mounts a fresh tree at path, settles it and returns the
// expanded node tree together with the render statistics.
func (s *Server) RenderPath(ctx context.Context, path string) (*vdom.VNode, RenderStats, error) {
	if s.root == nil {
		return nil, RenderStats{Path: path}, ErrNoRoot
	}

	_, span := s.tracer.Start(ctx, "crumbs.render",
		trace.WithAttributes(attribute.String("crumbs.path", path)))
	defer span.End()

	tree := NewTree(s.root(), path, TreeConfig{
		MaxPasses: s.config.SessionConfig.MaxPasses,
		Logger:    s.config.Logger,
	})
	defer tree.Dispose()

	node, err := tree.Render()
	stats := tree.Stats()
	span.SetAttributes(attribute.Int("crumbs.passes", stats.Passes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	s.config.Observer.Rendered(RenderEvent{
		Source:   SourcePage,
		Path:     stats.Path,
		Passes:   stats.Passes,
		Duration: stats.Duration,
		Err:      err,
	})
	return node, stats, err
}

// HandlePage renders the page for the request path as a full document.
func (s *Server) HandlePage(w http.ResponseWriter, r *http.Request) {
	defer vango.ReleaseGoroutine()

	path := r.URL.EscapedPath()
	if _, err := routepath.Canonicalize(path); err != nil {
		http.Error(w, "invalid path", http.StatusBadRequest)
		return
	}

	node, stats, err := s.RenderPath(r.Context(), path)
	if err != nil {
		attrs := []any{
			"path", path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		}
		if ce, ok := errors.As(err); ok && ce.Suggestion != "" {
			attrs = append(attrs, "hint", ce.Suggestion)
		}
		s.logger.Error("page render failed", attrs...)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := render.PageData{
		Title: s.config.Title,
		Body:  vdom.Div(vdom.ID(RootID), node),
	}
	if !s.config.DisableLive {
		page.Scripts = []string{clientScript}
	}

	var buf bytes.Buffer
	if err := s.renderer.RenderPage(&buf, page); err != nil {
		s.logger.Error("page write failed", "path", path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	s.logger.Debug("page rendered",
		"path", stats.Path,
		"passes", stats.Passes,
		"duration", stats.Duration)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// HandleWebSocket upgrades the request and starts a live session at the
// path given by the "path" query parameter.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.root == nil {
		http.Error(w, ErrNoRoot.Error(), http.StatusServiceUnavailable)
		return
	}

	path := r.URL.Query().Get("path")
	if path == "" || strings.HasPrefix(path, "/_crumbs/") {
		path = "/"
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	session, err := s.sessions.Create(conn, s.root(), path)
	if err != nil {
		s.logger.Warn("session rejected", "error", err)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()),
			time.Now().Add(time.Second))
		conn.Close()
		return
	}
	session.Start()
}

// Run starts the server and blocks until it receives SIGINT or SIGTERM.
func (s *Server) Run() error {
	if err := s.config.Validate(); err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-shutdown:
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes all sessions and gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.sessions.Shutdown()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Config returns the effective server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}
