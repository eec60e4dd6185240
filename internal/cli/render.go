package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/achauhan/focusreport/internal/domain"
	"github.com/achauhan/focusreport/internal/output"
	"github.com/achauhan/focusreport/internal/report"
)

// renderSession runs the report pipeline for one finished session. For the
// pdf format it returns the artifact path; stream formats write to stdout and
// return "". Failures are returned to the caller so rendering can be retried
// against the stored session.
func renderSession(globals *Globals, sess *domain.Session, format, outPath, password, target string, tick time.Duration) (string, error) {
	switch format {
	case "ndjson":
		return "", output.NewNDJSONWriter(globals.Stdout).WriteSession(sess, tick)

	case "text":
		doc := report.Build(sess, report.BuildOptions{
			Target:      target,
			GeneratedAt: time.Now(),
			Tick:        tick,
		})
		return "", output.NewTextRenderer(globals.Stdout).Render(doc)

	case "pdf":
		doc := report.Build(sess, report.BuildOptions{
			Target:      target,
			GeneratedAt: time.Now(),
			Tick:        tick,
		})
		if outPath == "" {
			var err error
			outPath, err = defaultReportPath(globals, time.Now())
			if err != nil {
				return "", err
			}
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return "", err
		}
		renderer := &output.PDFRenderer{Password: password}
		if err := renderer.Render(doc, outPath); err != nil {
			return "", err
		}
		return outPath, nil

	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}
}

// defaultReportPath builds <output dir>/Report_<unix>.pdf
func defaultReportPath(globals *Globals, now time.Time) (string, error) {
	dir := globals.Config.Report.OutputDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".focusreport", "reports")
	}
	return filepath.Join(dir, fmt.Sprintf("Report_%d.pdf", now.Unix())), nil
}
