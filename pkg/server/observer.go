package server

import "time"

// Render sources reported to an Observer.
const (
	SourcePage = "page"
	SourceLive = "live"
)

// RenderEvent describes one completed Render of a tree.
type RenderEvent struct {
	Source   string
	Path     string
	Passes   int
	Duration time.Duration
	Err      error
}

// Observer receives server events. middleware.Metrics implements it.
type Observer interface {
	Rendered(RenderEvent)
	SessionOpened()
	SessionClosed()
}

type nopObserver struct{}

func (nopObserver) Rendered(RenderEvent) {}
func (nopObserver) SessionOpened()       {}
func (nopObserver) SessionClosed()       {}
