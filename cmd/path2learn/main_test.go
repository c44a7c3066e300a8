package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", dir)
	color.NoColor = true
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCommand(out)
	cmd.SetArgs(args)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

// runWithLog is run with the log stream captured.
func runWithLog(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, logs := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCommand(out)
	cmd.SetArgs(args)
	cmd.SetErr(logs)
	err := cmd.Execute()
	return out.String(), logs.String(), err
}

func TestBindingsCommand(t *testing.T) {
	isolate(t)

	out, err := run(t, "bindings")
	require.NoError(t, err)

	assert.Contains(t, out, "INPUT")
	assert.Contains(t, out, "syllabus")
	assert.Contains(t, out, "POST /upload/syllabus")
	assert.Contains(t, out, "notesPreview")
	assert.Contains(t, out, "POST /upload/notes")
}

func TestUploadCommand(t *testing.T) {
	dir := isolate(t)

	var mu sync.Mutex
	var gotPath string
	var gotContent []byte
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotPath = r.URL.Path
		if file, _, err := r.FormFile("file"); err == nil {
			gotContent, _ = io.ReadAll(file)
			file.Close()
		}
	}))
	defer backend.Close()

	path := filepath.Join(dir, "week1.txt")
	data := bytes.Repeat([]byte("w"), 100)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	out, err := run(t, "upload", "--input", "notesFile", "--origin", backend.URL, path)
	require.NoError(t, err)

	assert.Equal(t, "#notesPreview ✅ <strong>week1.txt</strong><br><small>0.10 KB</small>\n", out)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/upload/notes", gotPath)
	assert.Equal(t, data, gotContent)
}

func TestUploadCommandLogsActivityCounters(t *testing.T) {
	dir := isolate(t)
	backend := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer backend.Close()

	path := filepath.Join(dir, "week1.txt")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))

	_, logs, err := runWithLog(t, "upload", "--log-level", "debug", "--input", "notesFile", "--origin", backend.URL, path)
	require.NoError(t, err)

	assert.Contains(t, logs, "path2learn_previews_rendered_total=1")
	assert.Contains(t, logs, "path2learn_uploads_dispatched_total=1")
	assert.Contains(t, logs, "path2learn_upload_dispatched_bytes_total=100")
}

func TestCounterSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	previews := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "previews_total"}, []string{"input"})
	reg.MustRegister(previews)
	previews.WithLabelValues("syllabusFile").Add(2)
	previews.WithLabelValues("notesFile").Inc()

	summary, err := counterSummary(reg)
	require.NoError(t, err)
	assert.Equal(t, "previews_total=3", summary)
}

func TestUploadCommandIgnoresBackendFailure(t *testing.T) {
	dir := isolate(t)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer backend.Close()

	path := filepath.Join(dir, "midterm.pdf")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))

	out, err := run(t, "upload", "--origin", backend.URL, path)
	require.NoError(t, err)
	assert.Contains(t, out, "2.00 KB")
}

func TestUploadCommandUnknownInput(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))

	_, err := run(t, "upload", "--input", "slides", path)
	assert.ErrorContains(t, err, `no binding for input "slides"`)
}

func TestUploadCommandMissingFile(t *testing.T) {
	dir := isolate(t)

	out, err := run(t, "upload", filepath.Join(dir, "missing.pdf"))
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestConfigFileBindings(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "path2learn.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
bindings:
  - input_id: slides
    preview_id: slidesPreview
    endpoint: /upload/slides
`), 0o644))

	out, err := run(t, "bindings")
	require.NoError(t, err)
	assert.Contains(t, out, "POST /upload/slides")
	assert.NotContains(t, out, "syllabus")
}
