package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/suno-exporter/internal/progress"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body><a href="/song/x">%s</a></body></html>`, r.Header.Get("User-Agent"))
	})
	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "5")
		w.Write([]byte("ID3ab"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetDocument(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(WithUserAgent("suno-test"))

	doc, err := client.GetDocument(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	require.Equal(t, "suno-test", doc.Find("a").Text())
	require.Equal(t, srv.URL+"/page", doc.Url.String())
}

func TestClient_GetStatusError(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient()

	_, err := client.GetString(context.Background(), srv.URL+"/missing")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusNotFound, statusErr.Code)
}

func TestClient_DownloadFile(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient()

	dest := filepath.Join(t.TempDir(), "song.mp3")
	var lastWritten, lastTotal int64
	err := client.DownloadFile(context.Background(), srv.URL+"/audio.mp3", dest, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "ID3ab", string(data))
	require.EqualValues(t, 5, lastWritten)
	require.EqualValues(t, 5, lastTotal)
	require.NoFileExists(t, dest+".part")
}

func TestClient_WithProgress(t *testing.T) {
	srv := newTestServer(t)
	var events []progress.Event
	client := NewClient(WithProgress(func(e progress.Event) { events = append(events, e) }))

	_, err := client.Get(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, progress.LevelVerbose, events[0].Level)
}

func TestClient_DownloadFileNotFound(t *testing.T) {
	srv := newTestServer(t)
	dest := filepath.Join(t.TempDir(), "song.mp3")

	err := NewClient().DownloadFile(context.Background(), srv.URL+"/missing", dest, nil)
	require.Error(t, err)
	require.NoFileExists(t, dest)
	require.NoFileExists(t, dest+".part")
}
