package domain

import "time"

// EventType identifies a session lifecycle event
type EventType string

const (
	EventStart  EventType = "START"
	EventPause  EventType = "PAUSE"
	EventResume EventType = "RESUME"
	EventStop   EventType = "STOP"
)

// SessionEvent records a single lifecycle transition
type SessionEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// Session holds everything accumulated during one start-to-stop monitoring run.
// AppOrder preserves first-seen order of AppUsage keys so display sorting can
// break ties deterministically.
type Session struct {
	ID               string             `json:"id"`
	StartTime        time.Time          `json:"start_time"`
	EndTime          *time.Time         `json:"end_time,omitempty"`
	AppUsage         map[string]float64 `json:"app_usage"` // app name -> seconds
	AppOrder         []string           `json:"app_order,omitempty"`
	TotalIdleSeconds float64            `json:"total_idle_seconds"`
	Events           []SessionEvent     `json:"events"`
	DetailedLog      []ActivityRecord   `json:"detailed_log"`
}

// NewSession creates a session starting at the given time with its START event
// already appended.
func NewSession(id string, start time.Time) *Session {
	return &Session{
		ID:        id,
		StartTime: start,
		AppUsage:  make(map[string]float64),
		Events:    []SessionEvent{{Timestamp: start, Type: EventStart}},
	}
}

// AppendEvent records a lifecycle event
func (s *Session) AppendEvent(typ EventType, at time.Time) {
	s.Events = append(s.Events, SessionEvent{Timestamp: at, Type: typ})
}

// LogActivity accrues active seconds against an application
func (s *Session) LogActivity(appName string, seconds float64) {
	if _, ok := s.AppUsage[appName]; !ok {
		s.AppOrder = append(s.AppOrder, appName)
	}
	s.AppUsage[appName] += seconds
}

// AddIdleTime accrues idle seconds
func (s *Session) AddIdleTime(seconds float64) {
	s.TotalIdleSeconds += seconds
}

// AppendRecord appends an activity record to the detailed log
func (s *Session) AppendRecord(rec ActivityRecord) {
	s.DetailedLog = append(s.DetailedLog, rec)
}

// Close sets the end time and appends the terminal STOP event. It is a no-op
// if the session is already closed.
func (s *Session) Close(at time.Time) {
	if s.EndTime != nil {
		return
	}
	end := at
	s.EndTime = &end
	s.AppendEvent(EventStop, at)
}

// Duration returns elapsed time between start and end. For a live session the
// end defaults to the given now.
func (s *Session) Duration(now time.Time) time.Duration {
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return now.Sub(s.StartTime)
}

// ActiveSeconds sums per-app usage
func (s *Session) ActiveSeconds() float64 {
	var total float64
	for _, secs := range s.AppUsage {
		total += secs
	}
	return total
}

// Clone returns a deep copy safe to hand to readers while the session is live
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{
		ID:               s.ID,
		StartTime:        s.StartTime,
		AppUsage:         make(map[string]float64, len(s.AppUsage)),
		AppOrder:         append([]string(nil), s.AppOrder...),
		TotalIdleSeconds: s.TotalIdleSeconds,
		Events:           append([]SessionEvent(nil), s.Events...),
		DetailedLog:      append([]ActivityRecord(nil), s.DetailedLog...),
	}
	for app, secs := range s.AppUsage {
		out.AppUsage[app] = secs
	}
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	return out
}
