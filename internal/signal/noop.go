package signal

import (
	"context"

	"github.com/achauhan/focusreport/internal/domain"
)

// Noop returns a provider bundle that reports nothing: never idle, unknown
// app, no media, no events. It keeps the engine runnable on platforms without
// real signal providers; every tick accrues against the Unknown bucket.
func Noop() Providers {
	n := &noop{keys: make(chan KeyEvent), switches: make(chan struct{})}
	return Providers{Idle: n, App: n, Media: n, Keys: n, Switches: n}
}

type noop struct {
	keys     chan KeyEvent
	switches chan struct{}
}

func (n *noop) IdleSeconds(context.Context) (float64, error) { return 0, nil }

func (n *noop) FrontmostApp(context.Context) (domain.AppInfo, error) {
	return domain.AppInfo{Name: UnknownApp}, nil
}

func (n *noop) MediaPlaying(context.Context) (bool, error) { return false, nil }

func (n *noop) Start() error { return nil }
func (n *noop) Stop()        {}

func (n *noop) Keys() <-chan KeyEvent        { return n.keys }
func (n *noop) Activations() <-chan struct{} { return n.switches }
