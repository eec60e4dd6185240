package domain

import "time"

// AppInfo is the frontmost application identity plus whatever context the
// provider managed to resolve. All fields except Name may be empty.
type AppInfo struct {
	Name          string `json:"name"`
	WindowTitle   string `json:"window_title,omitempty"`
	ProjectFolder string `json:"project_folder,omitempty"`
	URL           string `json:"url,omitempty"`
}

// Snapshot is the set of signals sampled for one tick: provider readings plus
// the rolling counters accumulated since the previous tick.
type Snapshot struct {
	Timestamp      time.Time `json:"timestamp"`
	IdleSeconds    float64   `json:"idle_seconds"`
	App            AppInfo   `json:"app"`
	Keystrokes     int       `json:"keystrokes"`
	UniqueKeys     []int     `json:"unique_keys,omitempty"`
	WindowSwitches int       `json:"window_switches"`
	MediaPlaying   bool      `json:"media_playing"`
}

// ActivityRecord is one non-idle tick of the detailed log. Created once by the
// aggregator and immutable afterwards.
type ActivityRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	AppName        string    `json:"app_name"`
	WindowTitle    string    `json:"window_title,omitempty"`
	ProjectFolder  string    `json:"project_folder,omitempty"`
	ActiveURL      string    `json:"active_url,omitempty"`
	KeystrokeCount int       `json:"keystroke_count"`
	UniqueKeys     []int     `json:"unique_keys,omitempty"`
	IsHuman        bool      `json:"is_human"`
	MediaPlaying   bool      `json:"media_playing"`
	WindowSwitches int       `json:"window_switches"`
	FlagReason     string    `json:"flag_reason,omitempty"`
}

// Context returns the best available context string for display: window title,
// then URL, then project folder.
func (r ActivityRecord) Context() string {
	switch {
	case r.WindowTitle != "":
		return r.WindowTitle
	case r.ActiveURL != "":
		return r.ActiveURL
	default:
		return r.ProjectFolder
	}
}

// Flagged reports whether any heuristic flagged this tick
func (r ActivityRecord) Flagged() bool {
	return r.FlagReason != ""
}
