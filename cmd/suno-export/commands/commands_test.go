package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/handiism/suno-exporter/internal/export"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/stretchr/testify/require"
)

const (
	idA = "0b7c6a1e-3f9d-4c55-9b7e-1d2a3c4b5e6f"
	idB = "1c8d7b2f-4a0e-4d66-8c8f-2e3b4d5c6f70"
)

func writeExport(t *testing.T, path string, songs ...model.Song) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, export.EncodeCSV(&buf, songs))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func execute(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	return ExecuteContext(context.Background()), out.String()
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	now := time.Now()

	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	writeExport(t, first, model.NewSong(idA, "Night Drive", now))
	writeExport(t, second, model.NewSong(idA, "Night Drive", now), model.NewSong(idB, "Second", now))

	code, stdout := execute(t, "merge", first, second,
		"--config", filepath.Join(dir, "none.json5"),
		"--output", out,
		"--format", "json")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "Night Drive")
	require.Contains(t, stdout, "Second")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasSuffix(entries[0].Name(), ".json"))

	merged, err := export.ReadFile(filepath.Join(out, entries[0].Name()))
	require.NoError(t, err)
	require.Len(t, merged, 2)
}

func TestFetchCommand_SeveralURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows := `<div data-clip-id="` + idA + `"><a href="/song/` + idA + `" title="Night Drive">Night Drive</a></div>`
		if r.URL.Path == "/playlist/two" {
			rows += `<div data-clip-id="` + idB + `"><a href="/song/` + idB + `" title="Second">Second</a></div>`
		}
		w.Write([]byte("<html><body>" + rows + "</body></html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	code, stdout := execute(t, "fetch", srv.URL+"/playlist/one", srv.URL+"/playlist/two",
		"--config", filepath.Join(dir, "none.json5"),
		"--output", out,
		"--format", "json")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "Second")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	songs, err := export.ReadFile(filepath.Join(out, entries[0].Name()))
	require.NoError(t, err)
	require.Len(t, songs, 2)
}

func TestFileCommand_NoSongs(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte("<html><body><p>empty</p></body></html>"), 0644))
	out := filepath.Join(dir, "out")

	code, _ := execute(t, "file", page, "--config", filepath.Join(dir, "none.json5"), "--output", out)
	require.Equal(t, 2, code)
	require.NoDirExists(t, out)
}

func TestInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte("<html></html>"), 0644))

	code, _ := execute(t, "file", page, "--config", filepath.Join(dir, "none.json5"), "--format", "xml")
	require.Equal(t, 2, code)
}
