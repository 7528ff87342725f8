package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/suno-exporter/internal/config"
	"github.com/handiism/suno-exporter/internal/download"
	"github.com/handiism/suno-exporter/internal/export"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/progress"
	"github.com/handiism/suno-exporter/internal/scroll"
	"github.com/stretchr/testify/require"
)

const (
	idA = "0b7c6a1e-3f9d-4c55-9b7e-1d2a3c4b5e6f"
	idB = "1c8d7b2f-4a0e-4d66-8c8f-2e3b4d5c6f70"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func page(rows ...string) string {
	return "<html><body>" + strings.Join(rows, "") + "</body></html>"
}

func row(id, title string) string {
	return `<div data-clip-id="` + id + `"><a href="/song/` + id + `" title="` + title + `">` + title + `</a></div>`
}

type fakeSource struct {
	html   []string
	scroll *scroll.Result
	err    error
}

func (s *fakeSource) Name() string { return "fake" }

func (s *fakeSource) Load(ctx context.Context, onProgress progress.Func) ([]*goquery.Document, *scroll.Result, error) {
	if s.err != nil {
		return nil, s.scroll, s.err
	}
	var docs []*goquery.Document
	for _, h := range s.html {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(h))
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, doc)
	}
	return docs, s.scroll, nil
}

type fakeDownloader struct {
	songs []model.Song
}

func (d *fakeDownloader) Download(ctx context.Context, songs []model.Song) (*download.Result, error) {
	d.songs = songs
	return &download.Result{Downloaded: len(songs)}, nil
}

type recorder struct {
	mu     sync.Mutex
	events []progress.Event
}

func (r *recorder) record(e progress.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) messages(level progress.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if e.Level == level {
			out = append(out, e.Message)
		}
	}
	return out
}

func newRunner(t *testing.T, rec *recorder) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	settings := config.DefaultSettings()
	settings.OutputDir = dir
	settings.Formats = []string{"csv", "json"}

	var fn progress.Func
	if rec != nil {
		fn = rec.record
	}
	r := NewRunner(settings, fn)
	r.Now = func() time.Time { return fixedNow }
	return r, dir
}

func TestRunner_Run(t *testing.T) {
	runner, dir := newRunner(t, nil)
	dl := &fakeDownloader{}
	runner.Downloader = dl
	var sunk []model.Song
	runner.Sink = func(songs []model.Song) { sunk = songs }

	src := &fakeSource{html: []string{
		page(row(idA, "Night Drive"), row(idB, "Second")),
		page(row(idA, "Night Drive")),
	}}

	res, err := runner.Run(context.Background(), src)
	require.NoError(t, err)

	require.Len(t, res.Songs, 2)
	require.Equal(t, "[data-clip-id]", res.Extraction.Selector)
	require.Equal(t, export.Meta{At: fixedNow, Source: "fake"}, res.Meta)
	require.Len(t, res.Artifacts, 2)
	for _, a := range res.Artifacts {
		require.Equal(t, dir, filepath.Dir(a.Path))
		require.FileExists(t, a.Path)
	}
	require.Equal(t, 2, res.Downloads.Downloaded)
	require.Equal(t, res.Songs, dl.songs)
	require.Equal(t, res.Songs, sunk)

	written, err := export.ReadFile(res.Artifacts[0].Path)
	require.NoError(t, err)
	require.Equal(t, []string{idA, idB}, []string{written[0].ID, written[1].ID})
}

func TestRunner_NoSongs(t *testing.T) {
	rec := &recorder{}
	runner, dir := newRunner(t, rec)
	dl := &fakeDownloader{}
	runner.Downloader = dl
	sinkCalled := false
	runner.Sink = func([]model.Song) { sinkCalled = true }

	res, err := runner.Run(context.Background(), &fakeSource{html: []string{page("<p>nothing here</p>")}})

	require.ErrorIs(t, err, ErrNoSongs)
	require.ErrorIs(t, err, export.ErrNoSongs)
	require.Empty(t, res.Artifacts)
	require.Nil(t, dl.songs)
	require.False(t, sinkCalled)
	require.Equal(t, NoSongsHints, rec.messages(progress.LevelWarning))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRunner_SourceError(t *testing.T) {
	runner, _ := newRunner(t, nil)
	sr := &scroll.Result{Outcome: scroll.Running, Polls: 3}
	boom := errors.New("boom")

	res, err := runner.Run(context.Background(), &fakeSource{err: boom, scroll: sr})
	require.ErrorIs(t, err, boom)
	require.Same(t, sr, res.Scroll)
}

type fakePage struct {
	signals []int
	polls   int
	html    string
}

func (p *fakePage) ScrollToBottom(ctx context.Context) error { return nil }

func (p *fakePage) Progress(ctx context.Context) (int, error) {
	i := min(p.polls, len(p.signals)-1)
	p.polls++
	return p.signals[i], nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) { return p.html, nil }

func (p *fakePage) Location(ctx context.Context) (string, error) {
	return "https://suno.com/me", nil
}

func TestCapture_Converged(t *testing.T) {
	p := &fakePage{signals: []int{2, 4, 4}, html: page(row(idA, "Night Drive"))}
	cfg := scroll.Config{MaxPolls: 10, StagnationThreshold: 2}

	docs, res, err := capture(context.Background(), p, cfg, nil)
	require.NoError(t, err)
	require.Equal(t, scroll.Converged, res.Outcome)
	require.Equal(t, 4, res.Polls)
	require.Len(t, docs, 1)
	require.Equal(t, "https://suno.com/me", docs[0].Url.String())
}

func TestCapture_ForcedStopWarns(t *testing.T) {
	rec := &recorder{}
	p := &fakePage{signals: []int{1, 2, 3, 4, 5}, html: page(row(idA, "Night Drive"))}
	cfg := scroll.Config{MaxPolls: 3, StagnationThreshold: 2}

	docs, res, err := capture(context.Background(), p, cfg, rec.record)
	require.NoError(t, err)
	require.Equal(t, scroll.ForcedStop, res.Outcome)
	require.Len(t, docs, 1)

	warnings := rec.messages(progress.LevelWarning)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "maximum of 3 scrolls")
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.html")
	second := filepath.Join(dir, "b.html")
	require.NoError(t, os.WriteFile(first, []byte(page(row(idA, "Night Drive"))), 0644))
	require.NoError(t, os.WriteFile(second, []byte(page(row(idB, "Second"))), 0644))

	src := &FileSource{Paths: []string{first, second}}
	docs, sr, err := src.Load(context.Background(), nil)
	require.NoError(t, err)
	require.Nil(t, sr)
	require.Len(t, docs, 2)
	require.Equal(t, DefaultBaseURL, docs[0].Url.String())

	_, _, err = (&FileSource{Paths: []string{filepath.Join(dir, "missing.html")}}).Load(context.Background(), nil)
	require.Error(t, err)
}

func TestFetchSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/playlist/one":
			w.Write([]byte(page(row(idA, "Night Drive") + row(idB, "Second"))))
		default:
			w.Write([]byte(page(row(idB, "Second"))))
		}
	}))
	defer srv.Close()

	src := &FetchSource{URLs: []string{srv.URL + "/playlist/one", srv.URL + "/playlist/two"}}
	docs, _, err := src.Load(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, 2, docs[0].Find("[data-clip-id]").Length())
	require.Equal(t, 1, docs[1].Find("[data-clip-id]").Length())

	runner, _ := newRunner(t, nil)
	res, err := runner.Run(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, res.Songs, 2)
}
