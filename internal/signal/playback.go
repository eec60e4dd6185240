package signal

import (
	"context"
	"sync"

	"github.com/achauhan/focusreport/internal/domain"
)

// Frame is one scripted tick's worth of provider readings
type Frame struct {
	IdleSeconds  float64
	App          domain.AppInfo
	MediaPlaying bool
}

// Playback is a scripted provider used by tests and `track --demo`. Each call
// to IdleSeconds advances to the next frame; FrontmostApp and MediaPlaying
// read the current frame. Keystroke and activation events are pushed
// explicitly with EmitKey/EmitSwitch.
type Playback struct {
	mu     sync.Mutex
	frames []Frame
	pos    int
	loop   bool

	keys     chan KeyEvent
	switches chan struct{}
}

// NewPlayback creates a playback provider over the given frames
func NewPlayback(frames []Frame) *Playback {
	return &Playback{
		frames:   frames,
		keys:     make(chan KeyEvent, 256),
		switches: make(chan struct{}, 64),
	}
}

func (p *Playback) current() Frame {
	if len(p.frames) == 0 {
		return Frame{App: domain.AppInfo{Name: UnknownApp}}
	}
	i := p.pos
	if i >= len(p.frames) {
		i = len(p.frames) - 1
	}
	return p.frames[i]
}

// IdleSeconds returns the next frame's idle reading. The idle source is
// sampled first on every tick, so frame advancement is keyed to it.
func (p *Playback) IdleSeconds(_ context.Context) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loop && len(p.frames) > 0 && p.pos >= len(p.frames) {
		p.pos = 0
	}
	f := p.current()
	p.pos++
	return f.IdleSeconds, nil
}

// SetLoop makes the script wrap around instead of sticking on the last frame
func (p *Playback) SetLoop(loop bool) {
	p.mu.Lock()
	p.loop = loop
	p.mu.Unlock()
}

func (p *Playback) FrontmostApp(_ context.Context) (domain.AppInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	// frame was already advanced by the idle read for this tick
	i := p.pos - 1
	if i < 0 {
		i = 0
	}
	if i >= len(p.frames) {
		i = len(p.frames) - 1
	}
	if len(p.frames) == 0 {
		return domain.AppInfo{Name: UnknownApp}, nil
	}
	return p.frames[i].App, nil
}

func (p *Playback) MediaPlaying(_ context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	i := p.pos - 1
	if i < 0 || len(p.frames) == 0 {
		return false, nil
	}
	if i >= len(p.frames) {
		i = len(p.frames) - 1
	}
	return p.frames[i].MediaPlaying, nil
}

// EmitKey delivers a keystroke event as if the user pressed a key
func (p *Playback) EmitKey(keyCode int) {
	select {
	case p.keys <- KeyEvent{KeyCode: keyCode}:
	default:
	}
}

// EmitSwitch delivers a foreground-app change notification
func (p *Playback) EmitSwitch() {
	select {
	case p.switches <- struct{}{}:
	default:
	}
}

func (p *Playback) Start() error { return nil }
func (p *Playback) Stop()        {}

func (p *Playback) Keys() <-chan KeyEvent        { return p.keys }
func (p *Playback) Activations() <-chan struct{} { return p.switches }

// Providers returns a bundle backed entirely by this playback
func (p *Playback) Providers() Providers {
	return Providers{Idle: p, App: p, Media: p, Keys: p, Switches: p}
}
