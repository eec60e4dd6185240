package output

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/achauhan/focusreport/internal/report"
)

const defaultFontSize = 11.0

// PDFRenderer writes the content model onto 612x792pt pages and protects the
// artifact with a user/owner password when one is set.
type PDFRenderer struct {
	Password string
}

// Render writes the document to path. A failure leaves the in-memory document
// untouched so the caller can retry rendering.
func (r *PDFRenderer) Render(doc *report.Document, path string) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(report.PageMargin, report.PageMargin, report.PageMargin)
	pdf.SetAutoPageBreak(false, report.PageMargin)
	if r.Password != "" {
		pdf.SetProtection(fpdf.CnProtectPrint, r.Password, r.Password)
	}

	for _, page := range report.Paginate(doc, report.DefaultLinesPerPage) {
		pdf.AddPage()
		for _, line := range page.Lines {
			style := ""
			if line.Bold {
				style = "B"
			}
			size := line.Size
			if size == 0 {
				size = defaultFontSize
			}
			pdf.SetFont("Helvetica", style, size)
			pdf.SetTextColor(colorFor(line.Tag))
			pdf.CellFormat(0, size+6, line.Text, "", 1, "L", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func colorFor(tag report.Tag) (r, g, b int) {
	switch tag {
	case report.TagPositive:
		return 0, 128, 0
	case report.TagNegative, report.TagFlagged:
		return 178, 34, 34
	case report.TagNeutral:
		return 105, 105, 105
	default:
		return 0, 0, 0
	}
}
