// Package report turns a finished session into a renderable document: the
// compactor collapses consecutive same-context ticks into activity groups,
// and the builder lays groups and summaries out into a paginated content
// model for an output backend.
package report

import (
	"time"

	"github.com/achauhan/focusreport/internal/domain"
)

// Group is one contiguous run of matching ticks from the detailed log. Record
// is the representative tick; Start is the group's opening timestamp and does
// not move when the representative is backfilled.
type Group struct {
	Record    domain.ActivityRecord
	Start     time.Time
	Duration  time.Duration
	TotalKeys int
}

// Compact performs a single forward pass over the chronological detailed log,
// merging each record into the open group when context matches. tick is the
// sampling interval each record represents.
func Compact(log []domain.ActivityRecord, tick time.Duration) []Group {
	var groups []Group
	for _, rec := range log {
		if len(groups) > 0 && mergeable(&groups[len(groups)-1], rec) {
			open := &groups[len(groups)-1]
			if open.Record.WindowTitle == "" && rec.WindowTitle != "" {
				// metadata backfill: adopt the richer record as representative
				open.Record = rec
			}
			open.Duration += tick
			open.TotalKeys += rec.KeystrokeCount
			continue
		}
		groups = append(groups, Group{
			Record:    rec,
			Start:     rec.Timestamp,
			Duration:  tick,
			TotalKeys: rec.KeystrokeCount,
		})
	}
	return groups
}

// mergeable tests a record against the open group's representative: same app,
// same flag state, same media state, and a title that either matches or can
// seed a still-untitled group.
func mergeable(open *Group, rec domain.ActivityRecord) bool {
	r := open.Record
	if rec.AppName != r.AppName {
		return false
	}
	if rec.FlagReason != r.FlagReason {
		return false
	}
	if rec.MediaPlaying != r.MediaPlaying {
		return false
	}
	if rec.WindowTitle == r.WindowTitle {
		return true
	}
	return r.WindowTitle == "" && rec.WindowTitle != ""
}
