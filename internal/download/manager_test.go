package download

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/handiism/suno-exporter/internal/config"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/progress"
	"github.com/stretchr/testify/require"
)

const (
	idA = "0b7c6a1e-3f9d-4c55-9b7e-1d2a3c4b5e6f"
	idB = "1c8d7b2f-4a0e-4d66-8c8f-2e3b4d5c6f70"
	idC = "2d9e8c3a-5b1f-4e77-9d90-3f4c5e6d7081"
)

func coverPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newServer(t *testing.T) *httptest.Server {
	cover := coverPNG(t)
	mux := http.NewServeMux()
	mux.HandleFunc("/audio.mp3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\xff\xfb\x90\x00fake mpeg frames"))
	})
	mux.HandleFunc("/cover.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(cover)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
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

func (r *recorder) count(level progress.Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Level == level {
			n++
		}
	}
	return n
}

func TestManager_Download(t *testing.T) {
	srv := newServer(t)
	dir := t.TempDir()

	settings := config.DefaultSettings()
	settings.AudioDir = dir
	settings.CreatePlaylist = true
	settings.MaxConcurrentDownloads = 2
	settings.CoverArtMaxSize = 10

	fresh := model.NewSong(idA, "Night Drive", time.Now())
	fresh.AudioURL = srv.URL + "/audio.mp3"
	fresh.ImageURL = srv.URL + "/cover.png"
	fresh.Author = "Night Rider"

	missing := model.NewSong(idB, "Gone", time.Now())
	missing.AudioURL = srv.URL + "/missing.mp3"

	present := model.NewSong(idC, "Already Here", time.Now())
	presentPath := present.AudioPath(settings.ToPathConfig())
	require.NoError(t, os.WriteFile(presentPath, []byte("existing"), 0644))

	rec := &recorder{}
	m := NewManager(settings, rec.record)

	res, err := m.Download(context.Background(), []model.Song{fresh, missing, present})
	require.NoError(t, err)

	require.Equal(t, 1, res.Downloaded)
	require.Equal(t, 1, res.Skipped)
	require.Equal(t, 1, res.Failed)
	require.Equal(t, 1, rec.count(progress.LevelError))

	freshPath := filepath.Join(dir, "Night Drive [0b7c6a1e].mp3")
	require.Equal(t, freshPath, res.Paths[idA])
	require.Equal(t, presentPath, res.Paths[idC])
	require.NotContains(t, res.Paths, idB)

	tag, err := id3v2.Open(freshPath, id3v2.Options{Parse: true})
	require.NoError(t, err)
	require.Equal(t, "Night Drive", tag.Title())
	require.Equal(t, "Night Rider", tag.Artist())
	require.Len(t, tag.GetFrames(tag.CommonID("Attached picture")), 1)
	tag.Close()

	existing, err := os.ReadFile(presentPath)
	require.NoError(t, err)
	require.Equal(t, "existing", string(existing))

	require.Equal(t, filepath.Join(dir, "suno-export.m3u"), res.Playlist)
	playlist, err := os.ReadFile(res.Playlist)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(playlist), "#EXTM3U\n"))
	require.Contains(t, string(playlist), "\nNight Drive [0b7c6a1e].mp3\n")
	require.Contains(t, string(playlist), "\nAlready Here [2d9e8c3a].mp3\n")

	_, files, total := m.GetProgress()
	require.EqualValues(t, 2, files)
	require.EqualValues(t, 3, total)
}

func TestManager_DownloadEmpty(t *testing.T) {
	settings := config.DefaultSettings()
	settings.AudioDir = filepath.Join(t.TempDir(), "never-created")

	res, err := NewManager(settings, nil).Download(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, res.Paths)
	require.NoDirExists(t, settings.AudioDir)
}

func TestManager_DownloadCancelled(t *testing.T) {
	srv := newServer(t)
	settings := config.DefaultSettings()
	settings.AudioDir = t.TempDir()

	song := model.NewSong(idA, "Night Drive", time.Now())
	song.AudioURL = srv.URL + "/audio.mp3"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewManager(settings, nil).Download(ctx, []model.Song{song})
	require.ErrorIs(t, err, context.Canceled)
}
