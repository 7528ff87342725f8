package download

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/handiism/suno-exporter/internal/audio"
	"github.com/handiism/suno-exporter/internal/config"
	"github.com/handiism/suno-exporter/internal/export"
	"github.com/handiism/suno-exporter/internal/http"
	ioutils "github.com/handiism/suno-exporter/internal/io"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/progress"
	"golang.org/x/sync/errgroup"
)

// Result summarises a download run.
type Result struct {
	// Paths maps song IDs to their audio file, downloaded or already present.
	Paths map[string]string

	Downloaded int
	Skipped    int
	Failed     int

	// Playlist is the written local playlist, empty when none was created.
	Playlist string
}

// Manager downloads song audio.
type Manager struct {
	settings     *config.Settings
	pathCfg      *model.PathConfig
	httpClient   *http.Client
	tagger       *audio.Tagger
	imageService *ioutils.ImageService

	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress progress.Func
	mu         sync.Mutex
}

// NewManager creates a new download Manager.
func NewManager(settings *config.Settings, onProgress progress.Func) *Manager {
	return &Manager{
		settings: settings,
		pathCfg:  settings.ToPathConfig(),
		httpClient: http.NewClient(
			http.WithTimeout(settings.HTTPTimeout()),
			http.WithProgress(onProgress),
		),
		tagger:       audio.NewTagger(audio.DefaultTagConfig()),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes),
		atomic.LoadInt32(&m.downloadedFiles), atomic.LoadInt32(&m.totalFiles)
}

// Download fetches the audio of every song into the audio directory.
//
// At most max_concurrent_downloads songs are fetched at once. Songs whose
// file already exists are skipped. A failing song is reported and does not
// stop the others; only cancellation of ctx is returned as an error.
func (m *Manager) Download(ctx context.Context, songs []model.Song) (*Result, error) {
	res := &Result{Paths: make(map[string]string)}
	if len(songs) == 0 {
		return res, nil
	}
	if err := ioutils.EnsureDir(m.pathCfg.AudioDir); err != nil {
		return res, fmt.Errorf("create audio directory: %w", err)
	}

	atomic.StoreInt32(&m.totalFiles, int32(len(songs)))
	m.onProgress.Info(fmt.Sprintf("Downloading %d songs to %s", len(songs), m.pathCfg.AudioDir))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, m.settings.MaxConcurrentDownloads))

	for _, song := range songs {
		g.Go(func() error {
			path, skipped, err := m.downloadSong(gctx, song)

			m.mu.Lock()
			defer m.mu.Unlock()
			switch {
			case err != nil:
				res.Failed++
				m.onProgress.Error(fmt.Sprintf("Error downloading %s: %v", song.Title, err),
					slog.String("id", song.ID))
			case skipped:
				res.Skipped++
				res.Paths[song.ID] = path
			default:
				res.Downloaded++
				res.Paths[song.ID] = path
			}
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if m.settings.CreatePlaylist && len(res.Paths) > 0 {
		playlist, err := m.writePlaylist(songs, res.Paths)
		if err != nil {
			m.onProgress.Warn(fmt.Sprintf("Error creating playlist: %v", err))
		} else {
			res.Playlist = playlist
			m.onProgress.Success("Created playlist " + filepath.Base(playlist))
		}
	}

	if res.Failed == 0 {
		m.onProgress.Success(fmt.Sprintf("Downloaded %d songs (%d already present)", res.Downloaded, res.Skipped))
	} else {
		m.onProgress.Warn(fmt.Sprintf("Finished downloads, %d of %d songs failed", res.Failed, len(songs)))
	}
	return res, nil
}

func (m *Manager) downloadSong(ctx context.Context, song model.Song) (path string, skipped bool, err error) {
	path = song.AudioPath(m.pathCfg)
	if ioutils.FileExists(path) {
		m.onProgress.Verbose("Skipping existing: " + filepath.Base(path))
		atomic.AddInt32(&m.downloadedFiles, 1)
		return path, true, nil
	}

	var artwork []byte
	if m.settings.TagAudio && m.settings.EmbedCoverArt && song.ImageURL != "" {
		artwork, err = m.downloadArtwork(ctx, song)
		if err != nil {
			m.onProgress.Warn(fmt.Sprintf("Error downloading cover art for %s: %v", song.Title, err))
		}
	}

	var last int64
	err = m.httpClient.DownloadFile(ctx, song.AudioURL, path, func(written, total int64) {
		atomic.AddInt64(&m.receivedBytes, written-last)
		last = written
	})
	if err != nil {
		return "", false, err
	}
	atomic.AddInt32(&m.downloadedFiles, 1)

	if m.settings.TagAudio {
		if err := m.tagger.SaveTags(path, song, artwork); err != nil {
			m.onProgress.Warn(fmt.Sprintf("Error tagging %s: %v", song.Title, err))
		}
	}

	m.onProgress.Verbose("Downloaded: " + filepath.Base(path))
	return path, false, nil
}

func (m *Manager) downloadArtwork(ctx context.Context, song model.Song) ([]byte, error) {
	artwork, err := m.httpClient.DownloadBytes(ctx, song.ImageURL)
	if err != nil {
		return nil, err
	}
	size := m.settings.CoverArtMaxSize
	return m.imageService.ResizeImage(ctx, artwork, size, size)
}

// writePlaylist writes an M3U next to the audio files, with paths relative
// to the audio directory.
func (m *Manager) writePlaylist(songs []model.Song, paths map[string]string) (string, error) {
	relative := make(map[string]string, len(paths))
	for id, p := range paths {
		relative[id] = filepath.Base(p)
	}

	var buf bytes.Buffer
	if err := export.EncodeLocalM3U(&buf, songs, relative); err != nil {
		return "", err
	}

	prefix := m.settings.FilePrefix
	if prefix == "" {
		prefix = export.DefaultPrefix
	}
	path := filepath.Join(m.pathCfg.AudioDir, ioutils.SanitizeFileName(prefix)+".m3u")
	return path, ioutils.WriteFile(path, buf.Bytes())
}
