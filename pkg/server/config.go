package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// SessionConfig holds configuration for live sessions.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a message from the client.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between pings. Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming message.
	// Default: 64KB.
	MaxMessageSize int64

	// MaxPasses bounds the render loop of the session's tree.
	// Default: DefaultMaxPasses.
	MaxPasses int
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 30 * time.Second,
		MaxMessageSize:    64 * 1024,
		MaxPasses:         DefaultMaxPasses,
	}
}

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Address is the address to listen on. Default: ":8080".
	Address string

	// Title is the document title of rendered pages.
	Title string

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 4096.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin validates the Origin header of WebSocket upgrades.
	// Default: same host only.
	CheckOrigin func(r *http.Request) bool

	// SessionConfig configures live sessions.
	SessionConfig *SessionConfig

	// MaxSessions caps concurrent live sessions. Zero means unlimited.
	MaxSessions int

	// DisableLive turns off the live endpoint and the client script, leaving
	// plain server-rendered pages.
	DisableLive bool

	// ShutdownTimeout bounds graceful shutdown. Default: 30 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout, ReadTimeout, WriteTimeout and IdleTimeout are
	// passed to http.Server.
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// Observer receives render and session events. Optional.
	Observer Observer

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           ":8080",
		Title:             "crumbtrail",
		ReadBufferSize:    4096,
		WriteBufferSize:   4096,
		CheckOrigin:       sameOrigin,
		SessionConfig:     DefaultSessionConfig(),
		ShutdownTimeout:   30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		Observer:          nopObserver{},
		Logger:            slog.Default(),
	}
}

// withDefaults fills unset fields from DefaultServerConfig.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		c = &ServerConfig{}
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.Title == "" {
		out.Title = defaults.Title
	}
	if out.ReadBufferSize == 0 {
		out.ReadBufferSize = defaults.ReadBufferSize
	}
	if out.WriteBufferSize == 0 {
		out.WriteBufferSize = defaults.WriteBufferSize
	}
	if out.CheckOrigin == nil {
		out.CheckOrigin = defaults.CheckOrigin
	}
	if out.SessionConfig == nil {
		out.SessionConfig = defaults.SessionConfig
	} else {
		sc := *out.SessionConfig
		ds := defaults.SessionConfig
		if sc.ReadTimeout == 0 {
			sc.ReadTimeout = ds.ReadTimeout
		}
		if sc.WriteTimeout == 0 {
			sc.WriteTimeout = ds.WriteTimeout
		}
		if sc.HeartbeatInterval == 0 {
			sc.HeartbeatInterval = ds.HeartbeatInterval
		}
		if sc.MaxMessageSize == 0 {
			sc.MaxMessageSize = ds.MaxMessageSize
		}
		if sc.MaxPasses == 0 {
			sc.MaxPasses = ds.MaxPasses
		}
		out.SessionConfig = &sc
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.ReadTimeout == 0 {
		out.ReadTimeout = defaults.ReadTimeout
	}
	if out.WriteTimeout == 0 {
		out.WriteTimeout = defaults.WriteTimeout
	}
	if out.IdleTimeout == 0 {
		out.IdleTimeout = defaults.IdleTimeout
	}
	if out.Observer == nil {
		out.Observer = defaults.Observer
	}
	if out.Logger == nil {
		out.Logger = defaults.Logger
	}
	return &out
}

// Validate reports configuration values that can never work.
func (c *ServerConfig) Validate() error {
	if c.MaxSessions < 0 {
		return fmt.Errorf("server: MaxSessions must not be negative, got %d", c.MaxSessions)
	}
	if c.SessionConfig != nil {
		if c.SessionConfig.MaxMessageSize < 0 {
			return fmt.Errorf("server: MaxMessageSize must not be negative, got %d", c.SessionConfig.MaxMessageSize)
		}
		if c.SessionConfig.MaxPasses < 0 {
			return fmt.Errorf("server: MaxPasses must not be negative, got %d", c.SessionConfig.MaxPasses)
		}
	}
	return nil
}

// sameOrigin accepts requests without Origin and requests whose Origin
// host equals the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
