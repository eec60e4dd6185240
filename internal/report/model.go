package report

import (
	"time"

	"github.com/achauhan/focusreport/internal/domain"
)

// Page geometry in points, US Letter with the margins the PDF backend uses
const (
	PageWidth  = 612.0
	PageHeight = 792.0
	PageMargin = 50.0

	// DisplayContextLimit caps the rendered context string, ellipsis included
	DisplayContextLimit = 110
	ellipsis            = "..."
)

// DefaultLinesPerPage is the line budget derived from the page geometry at
// the body line height used by the backends.
const DefaultLinesPerPage = 38

// Tag is a semantic color hint a backend may map to styling
type Tag string

const (
	TagNone     Tag = ""
	TagPositive Tag = "positive"
	TagNegative Tag = "negative"
	TagNeutral  Tag = "neutral"
	TagFlagged  Tag = "flagged"
)

// Line is one styled line of report content
type Line struct {
	Text string
	Bold bool
	Size float64
	Tag  Tag
}

// Table is a tabular block rendered by the backend's table facility
type Table struct {
	Header []string
	Rows   [][]string
}

// Section is a titled run of lines, optionally followed by a table
type Section struct {
	Title string
	Lines []Line
	Table *Table
}

// Document is the assembled report content model. Backends consume it as-is;
// nothing outside the session model appears in it.
type Document struct {
	Title       string
	Target      string
	GeneratedAt time.Time
	Sections    []Section
}

// Page is a paginated slice of flattened document lines
type Page struct {
	Lines []Line
}

// Status tag precedence: FLAGGED > HUMAN > IDLE
const (
	StatusFlagged = "FLAGGED"
	StatusHuman   = "HUMAN"
	StatusIdle    = "IDLE"
	mediaSuffix   = " + MEDIA"
)

// StatusFor classifies a group's representative record for display
func StatusFor(rec domain.ActivityRecord) string {
	status := StatusIdle
	switch {
	case rec.Flagged():
		status = StatusFlagged
	case rec.IsHuman:
		status = StatusHuman
	}
	if rec.MediaPlaying {
		status += mediaSuffix
	}
	return status
}

// EventTag maps a lifecycle event to its semantic color
func EventTag(typ domain.EventType) Tag {
	switch typ {
	case domain.EventStart, domain.EventResume:
		return TagPositive
	case domain.EventStop:
		return TagNegative
	default:
		return TagNeutral
	}
}

// TruncateContext caps a context string at DisplayContextLimit display
// characters, replacing the tail with an ellipsis marker when it overflows.
func TruncateContext(s string) string {
	runes := []rune(s)
	if len(runes) <= DisplayContextLimit {
		return s
	}
	return string(runes[:DisplayContextLimit-len(ellipsis)]) + ellipsis
}

// Paginate flattens the document's sections into pages honoring a fixed line
// budget. A section that overflows continues on the next page without
// repeating its title; table rows likewise simply continue.
func Paginate(doc *Document, linesPerPage int) []Page {
	if linesPerPage <= 0 {
		linesPerPage = DefaultLinesPerPage
	}
	var pages []Page
	current := Page{}

	emit := func(line Line) {
		if len(current.Lines) >= linesPerPage {
			pages = append(pages, current)
			current = Page{}
		}
		current.Lines = append(current.Lines, line)
	}

	for _, sec := range doc.Sections {
		if sec.Title != "" {
			emit(Line{Text: sec.Title, Bold: true, Size: 14})
		}
		for _, line := range sec.Lines {
			emit(line)
		}
		if sec.Table != nil {
			for _, row := range flattenTable(sec.Table) {
				emit(row)
			}
		}
	}
	if len(current.Lines) > 0 {
		pages = append(pages, current)
	}
	return pages
}

// flattenTable renders a table as padded text lines for paged backends that
// have no native table facility
func flattenTable(t *Table) []Line {
	widths := make([]int, len(t.Header))
	for i, h := range t.Header {
		widths[i] = len([]rune(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len([]rune(cell)) > widths[i] {
				widths[i] = len([]rune(cell))
			}
		}
	}

	pad := func(cells []string) string {
		out := ""
		for i, cell := range cells {
			out += cell
			if i < len(cells)-1 && i < len(widths) {
				for n := len([]rune(cell)); n < widths[i]+2; n++ {
					out += " "
				}
			}
		}
		return out
	}

	lines := []Line{{Text: pad(t.Header), Bold: true}}
	for _, row := range t.Rows {
		lines = append(lines, Line{Text: pad(row)})
	}
	return lines
}
