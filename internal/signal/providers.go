// Package signal defines the provider interfaces the tracker samples each
// tick. Providers are external collaborators: a failed or slow provider
// degrades to an unknown value, it never blocks the tick pipeline.
package signal

import (
	"context"
	"time"

	"github.com/achauhan/focusreport/internal/domain"
)

// DefaultResolveTimeout bounds a single provider call
const DefaultResolveTimeout = 2 * time.Second

// IdleSource reports seconds since the last user input
type IdleSource interface {
	IdleSeconds(ctx context.Context) (float64, error)
}

// AppSource resolves the frontmost application and its context metadata
type AppSource interface {
	FrontmostApp(ctx context.Context) (domain.AppInfo, error)
}

// MediaSource reports whether system or media audio is playing
type MediaSource interface {
	MediaPlaying(ctx context.Context) (bool, error)
}

// KeyEvent is one keystroke delivered while subscribed
type KeyEvent struct {
	KeyCode int
}

// KeyStream delivers keystroke events while started
type KeyStream interface {
	Start() error
	Stop()
	Keys() <-chan KeyEvent
}

// ActivationStream delivers one signal per foreground-app change while started
type ActivationStream interface {
	Start() error
	Stop()
	Activations() <-chan struct{}
}

// Providers bundles every signal source the tracker consumes
type Providers struct {
	Idle     IdleSource
	App      AppSource
	Media    MediaSource
	Keys     KeyStream
	Switches ActivationStream
}

// ResolveIdle samples idle seconds with a bounded timeout, degrading to 0 on
// failure so an unavailable provider counts as "not idle".
func ResolveIdle(src IdleSource, timeout time.Duration) float64 {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	secs, err := src.IdleSeconds(ctx)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

// ResolveApp samples the frontmost app with a bounded timeout. An unavailable
// provider yields UnknownApp so tick accounting still has a bucket to accrue
// against.
func ResolveApp(src AppSource, timeout time.Duration) domain.AppInfo {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	info, err := src.FrontmostApp(ctx)
	if err != nil || info.Name == "" {
		return domain.AppInfo{Name: UnknownApp}
	}
	return info
}

// ResolveMedia samples the media-playing flag with a bounded timeout,
// degrading to false on failure.
func ResolveMedia(src MediaSource, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	playing, err := src.MediaPlaying(ctx)
	if err != nil {
		return false
	}
	return playing
}

// UnknownApp is the accounting bucket used when the app provider fails
const UnknownApp = "Unknown"
