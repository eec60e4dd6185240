package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/achauhan/focusreport/internal/config"
	"github.com/achauhan/focusreport/internal/domain"
	"github.com/achauhan/focusreport/internal/report"
	"github.com/achauhan/focusreport/internal/store"
)

type capturedGlobals struct {
	*Globals
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func testGlobals(t *testing.T, format string) capturedGlobals {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	g := &Globals{
		Format: format,
		Stdout: stdout,
		Stderr: stderr,
		Config: config.Default(),
	}
	g.logger = newDebugLogger(g)
	return capturedGlobals{Globals: g, stdout: stdout, stderr: stderr}
}

func decodeNDJSON(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec), "line: %s", line)
		out = append(out, rec)
	}
	return out
}

func storedSession(t *testing.T, dir, id string) *domain.Session {
	t.Helper()
	st, err := store.New(dir)
	require.NoError(t, err)
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	sess := domain.NewSession(id, start)
	sess.AppendRecord(domain.ActivityRecord{
		Timestamp:      start.Add(10 * time.Second),
		AppName:        "Editor",
		WindowTitle:    "main.go",
		KeystrokeCount: 2,
		IsHuman:        true,
	})
	sess.LogActivity("Editor", 10)
	sess.Close(start.Add(time.Minute))
	_, err = st.Save(sess)
	require.NoError(t, err)
	return sess
}

func TestConfigShowText(t *testing.T) {
	g := testGlobals(t, "text")
	cmd := &ConfigShowCmd{}

	require.NoError(t, cmd.Run(g.Globals))
	out := g.stdout.String()

	assert.Contains(t, out, "Current Configuration:")
	assert.Contains(t, out, "format: text")
	assert.Contains(t, out, "interval: 10s")
	assert.Contains(t, out, "idle_threshold: 60s")
}

func TestConfigShowNDJSON(t *testing.T) {
	g := testGlobals(t, "ndjson")
	cmd := &ConfigShowCmd{}

	require.NoError(t, cmd.Run(g.Globals))

	recs := decodeNDJSON(t, g.stdout)
	require.Len(t, recs, 1)
	assert.Equal(t, "config", recs[0]["type"])
	assert.Equal(t, "text", recs[0]["format"])
}

func TestConfigGenerate(t *testing.T) {
	g := testGlobals(t, "text")
	cmd := &ConfigGenerateCmd{}

	require.NoError(t, cmd.Run(g.Globals))
	out := g.stdout.String()

	assert.Contains(t, out, "tracking:")
	assert.Contains(t, out, "interval: 10s")
	assert.Contains(t, out, "report:")
}

func TestSessionsEmptyStore(t *testing.T) {
	g := testGlobals(t, "text")
	cmd := &SessionsCmd{Dir: t.TempDir()}

	require.NoError(t, cmd.Run(g.Globals))
	assert.Contains(t, g.stdout.String(), "No stored sessions.")
}

func TestSessionsTextTable(t *testing.T) {
	dir := t.TempDir()
	storedSession(t, dir, "abc-123")

	g := testGlobals(t, "text")
	cmd := &SessionsCmd{Dir: dir}

	require.NoError(t, cmd.Run(g.Globals))
	assert.Contains(t, g.stdout.String(), "abc-123")
}

func TestSessionsNDJSONListing(t *testing.T) {
	dir := t.TempDir()
	storedSession(t, dir, "abc-123")

	g := testGlobals(t, "ndjson")
	cmd := &SessionsCmd{Dir: dir}

	require.NoError(t, cmd.Run(g.Globals))

	recs := decodeNDJSON(t, g.stdout)
	require.Len(t, recs, 1)
	assert.Equal(t, "session_listing", recs[0]["type"])
	assert.Equal(t, "abc-123", recs[0]["session_id"])
	assert.Equal(t, "2026-03-14T09:01:00Z", recs[0]["end_time"])
}

func TestRenderSessionText(t *testing.T) {
	g := testGlobals(t, "text")
	sess := storedSession(t, t.TempDir(), "render-text")

	path, err := renderSession(g.Globals, sess, "text", "", "", "Workstation 7", 10*time.Second)
	require.NoError(t, err)
	assert.Empty(t, path)

	out := g.stdout.String()
	assert.Contains(t, out, report.DocumentTitle)
	assert.Contains(t, out, "Workstation 7")
	assert.Contains(t, out, "Editor")
}

func TestRenderSessionNDJSON(t *testing.T) {
	g := testGlobals(t, "ndjson")
	sess := storedSession(t, t.TempDir(), "render-ndjson")

	path, err := renderSession(g.Globals, sess, "ndjson", "", "", "", 10*time.Second)
	require.NoError(t, err)
	assert.Empty(t, path)

	recs := decodeNDJSON(t, g.stdout)
	require.NotEmpty(t, recs)
	assert.Equal(t, "session_summary", recs[0]["type"])
}

func TestRenderSessionPDF(t *testing.T) {
	g := testGlobals(t, "text")
	sess := storedSession(t, t.TempDir(), "render-pdf")
	outPath := filepath.Join(t.TempDir(), "out.pdf")

	path, err := renderSession(g.Globals, sess, "pdf", outPath, "secret", "", 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, outPath, path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "%PDF"))
}

func TestRenderSessionUnknownFormat(t *testing.T) {
	g := testGlobals(t, "text")
	sess := storedSession(t, t.TempDir(), "render-bad")

	_, err := renderSession(g.Globals, sess, "xml", "", "", "", 10*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown report format")
}

func TestDefaultReportPathUsesConfiguredDir(t *testing.T) {
	g := testGlobals(t, "text")
	g.Config.Report.OutputDir = "/tmp/reports"

	now := time.Unix(1700000000, 0)
	path, err := defaultReportPath(g.Globals, now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/reports", "Report_1700000000.pdf"), path)
}

func TestOutputErrorCommonText(t *testing.T) {
	g := testGlobals(t, "text")

	err := outputErrorCommon(g.Globals, "NO_SESSIONS", "no stored sessions", "run 'focusreport track' first")
	require.Error(t, err)
	assert.Equal(t, "no stored sessions", err.Error())

	msg := g.stderr.String()
	assert.Contains(t, msg, "Error [NO_SESSIONS]: no stored sessions")
	assert.Contains(t, msg, "hint: run 'focusreport track' first")
	assert.Empty(t, g.stdout.String())
}

func TestOutputErrorCommonNDJSON(t *testing.T) {
	g := testGlobals(t, "ndjson")

	err := outputErrorCommon(g.Globals, "REPORT_FAILED", "write pdf: boom")
	require.Error(t, err)

	recs := decodeNDJSON(t, g.stdout)
	require.Len(t, recs, 1)
	assert.Equal(t, "error", recs[0]["type"])
	assert.Equal(t, "REPORT_FAILED", recs[0]["code"])
}

func TestParseDurationOr(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		fallback time.Duration
		want     time.Duration
	}{
		{"valid", "15s", 10 * time.Second, 15 * time.Second},
		{"empty uses fallback", "", 10 * time.Second, 10 * time.Second},
		{"garbage uses fallback", "whenever", 10 * time.Second, 10 * time.Second},
		{"non-positive uses fallback", "-5s", 10 * time.Second, 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDurationOr(tt.in, tt.fallback))
		})
	}
}

func TestNewGlobalsWithConfigMergesFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Quiet = true

	g := NewGlobalsWithConfig(&CLI{Format: "ndjson", Verbose: true}, cfg)

	assert.Equal(t, "ndjson", g.Format)
	assert.True(t, g.Quiet)
	assert.True(t, g.Verbose)
}

func TestTrackingDurationsFromConfig(t *testing.T) {
	g := testGlobals(t, "text")
	g.Config.Tracking.Interval = "5s"
	g.Config.Tracking.IdleThreshold = "bogus"

	assert.Equal(t, 5*time.Second, g.trackingInterval())
	assert.Equal(t, 60*time.Second, g.idleThreshold())
	assert.Equal(t, 2*time.Second, g.resolveTimeout())
}
