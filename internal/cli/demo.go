package cli

import (
	"time"

	"github.com/achauhan/focusreport/internal/domain"
	signals "github.com/achauhan/focusreport/internal/signal"
)

// demoDriver scripts a plausible work pattern through the playback provider:
// typing in an editor, reading in a browser, a mouse-only stretch, an idle
// gap, and a burst of repeated keys that trips the low-variance rule.
type demoDriver struct {
	playback *signals.Playback
	done     chan struct{}
}

func newDemoDriver() *demoDriver {
	editor := domain.AppInfo{Name: "Editor", WindowTitle: "main.go", ProjectFolder: "~/src/focusreport"}
	browser := domain.AppInfo{Name: "Browser", WindowTitle: "Go docs", URL: "https://pkg.go.dev"}
	player := domain.AppInfo{Name: "Music", WindowTitle: "Now playing"}

	frames := []signals.Frame{
		{App: editor, IdleSeconds: 1},
		{App: editor, IdleSeconds: 0},
		{App: editor, IdleSeconds: 2},
		{App: browser, IdleSeconds: 1},
		{App: browser, IdleSeconds: 3},
		{App: player, IdleSeconds: 2, MediaPlaying: true},
		{App: player, IdleSeconds: 90, MediaPlaying: true}, // idle gap
		{App: editor, IdleSeconds: 1},
		{App: editor, IdleSeconds: 0},
	}
	p := signals.NewPlayback(frames)
	p.SetLoop(true)

	d := &demoDriver{playback: p, done: make(chan struct{})}
	go d.emit()
	return d
}

// emit feeds keystroke and switch events on a human-ish rhythm
func (d *demoDriver) emit() {
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()
	codes := []int{4, 22, 26, 8, 7, 11, 44, 40}
	i := 0
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.playback.EmitKey(codes[i%len(codes)])
			if i%7 == 0 {
				d.playback.EmitSwitch()
			}
			i++
		}
	}
}

func (d *demoDriver) close() {
	close(d.done)
}
