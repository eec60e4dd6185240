package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/achauhan/focusreport/internal/report"
)

var (
	boldStyle     = lipgloss.NewStyle().Bold(true)
	positiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	negativeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	neutralStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	flaggedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// TextRenderer writes the content model as sectioned terminal text, colorized
// when the destination is a tty.
type TextRenderer struct {
	w     io.Writer
	color bool
}

// NewTextRenderer creates a renderer for w, enabling color only for terminals
func NewTextRenderer(w io.Writer) *TextRenderer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) && os.Getenv("NO_COLOR") == ""
	}
	return &TextRenderer{w: w, color: color}
}

// Render writes the whole document
func (r *TextRenderer) Render(doc *report.Document) error {
	for _, sec := range doc.Sections {
		if sec.Title != "" {
			fmt.Fprintln(r.w, r.style(report.Line{Text: sec.Title, Bold: true}))
		}
		for _, line := range sec.Lines {
			fmt.Fprintln(r.w, r.style(line))
		}
		if sec.Table != nil {
			tbl := tablewriter.NewTable(r.w)
			tbl.Header(sec.Table.Header)
			for _, row := range sec.Table.Rows {
				if err := tbl.Append(row); err != nil {
					return err
				}
			}
			if err := tbl.Render(); err != nil {
				return err
			}
		}
		fmt.Fprintln(r.w)
	}
	return nil
}

func (r *TextRenderer) style(line report.Line) string {
	if !r.color {
		return line.Text
	}
	st := lipgloss.NewStyle()
	switch line.Tag {
	case report.TagPositive:
		st = positiveStyle
	case report.TagNegative:
		st = negativeStyle
	case report.TagNeutral:
		st = neutralStyle
	case report.TagFlagged:
		st = flaggedStyle
	}
	if line.Bold {
		st = st.Inherit(boldStyle).Bold(true)
	}
	return st.Render(line.Text)
}
