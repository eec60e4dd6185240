// Package output renders the report content model through concrete backends:
// machine-readable NDJSON, styled terminal text, and a password-protected PDF
// artifact.
package output

import (
	"encoding/json"
	"io"
	"time"

	"github.com/achauhan/focusreport/internal/domain"
	"github.com/achauhan/focusreport/internal/report"
)

// SchemaVersion is stamped on every NDJSON line
const SchemaVersion = 1

// NDJSONWriter emits newline-delimited JSON records
type NDJSONWriter struct {
	enc *json.Encoder
}

// NewNDJSONWriter creates a writer emitting to w
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{enc: json.NewEncoder(w)}
}

// SessionSummary is the NDJSON session header record
type SessionSummary struct {
	Type             string  `json:"type"` // "session_summary"
	SchemaVersion    int     `json:"schemaVersion"`
	SessionID        string  `json:"session_id"`
	StartTime        string  `json:"start_time"`
	EndTime          string  `json:"end_time,omitempty"`
	DurationSeconds  int     `json:"duration_seconds"`
	TotalIdleSeconds float64 `json:"total_idle_seconds"`
	Apps             int     `json:"apps"`
	Records          int     `json:"records"`
}

// WriteSessionSummary emits the session header record
func (w *NDJSONWriter) WriteSessionSummary(sess *domain.Session) error {
	s := SessionSummary{
		Type:             "session_summary",
		SchemaVersion:    SchemaVersion,
		SessionID:        sess.ID,
		StartTime:        sess.StartTime.UTC().Format(time.RFC3339),
		DurationSeconds:  int(sess.Duration(sess.StartTime).Seconds()),
		TotalIdleSeconds: sess.TotalIdleSeconds,
		Apps:             len(sess.AppUsage),
		Records:          len(sess.DetailedLog),
	}
	if sess.EndTime != nil {
		s.EndTime = sess.EndTime.UTC().Format(time.RFC3339)
		s.DurationSeconds = int(sess.EndTime.Sub(sess.StartTime).Seconds())
	}
	return w.enc.Encode(s)
}

// WriteEvent emits one lifecycle event record
func (w *NDJSONWriter) WriteEvent(ev domain.SessionEvent) error {
	return w.enc.Encode(map[string]interface{}{
		"type":          "session_event",
		"schemaVersion": SchemaVersion,
		"timestamp":     ev.Timestamp.UTC().Format(time.RFC3339),
		"event":         string(ev.Type),
	})
}

// WriteGroup emits one compacted activity group record
func (w *NDJSONWriter) WriteGroup(g report.Group) error {
	rec := map[string]interface{}{
		"type":             "activity_group",
		"schemaVersion":    SchemaVersion,
		"start":            g.Start.UTC().Format(time.RFC3339),
		"duration_seconds": int(g.Duration.Seconds()),
		"app":              g.Record.AppName,
		"total_keys":       g.TotalKeys,
		"status":           report.StatusFor(g.Record),
	}
	if ctx := g.Record.Context(); ctx != "" {
		rec["context"] = report.TruncateContext(ctx)
	}
	if g.Record.FlagReason != "" {
		rec["flag_reason"] = g.Record.FlagReason
	}
	return w.enc.Encode(rec)
}

// WriteSession emits the full session: summary, events, then groups
func (w *NDJSONWriter) WriteSession(sess *domain.Session, tick time.Duration) error {
	if err := w.WriteSessionSummary(sess); err != nil {
		return err
	}
	for _, ev := range sess.Events {
		if err := w.WriteEvent(ev); err != nil {
			return err
		}
	}
	for _, g := range report.Compact(sess.DetailedLog, tick) {
		if err := w.WriteGroup(g); err != nil {
			return err
		}
	}
	return nil
}

// WriteListing emits one stored-session listing record
func (w *NDJSONWriter) WriteListing(id, start, end string, apps, records int) error {
	rec := map[string]interface{}{
		"type":          "session_listing",
		"schemaVersion": SchemaVersion,
		"session_id":    id,
		"start_time":    start,
		"apps":          apps,
		"records":       records,
	}
	if end != "" {
		rec["end_time"] = end
	}
	return w.enc.Encode(rec)
}

// WriteError emits a machine-readable failure record
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	rec := map[string]interface{}{
		"type":          "error",
		"schemaVersion": SchemaVersion,
		"code":          code,
		"message":       message,
	}
	if len(hint) > 0 && hint[0] != "" {
		rec["hint"] = hint[0]
	}
	return w.enc.Encode(rec)
}
