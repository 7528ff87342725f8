package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/handiism/suno-exporter/internal/config"
	"github.com/handiism/suno-exporter/internal/download"
	"github.com/handiism/suno-exporter/internal/export"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/progress"
	"github.com/handiism/suno-exporter/internal/scroll"
	"github.com/handiism/suno-exporter/internal/suno"
)

// ErrNoSongs is returned when a source yields no songs. It wraps
// export.ErrNoSongs; no export file is written.
var ErrNoSongs = fmt.Errorf("no songs found: %w", export.ErrNoSongs)

// NoSongsHints are reported as warnings alongside ErrNoSongs.
var NoSongsHints = []string{
	"Make sure the page shows songs when opened in a normal browser.",
	"Private libraries need a logged-in browser, see --remote-url.",
	"Try a longer --delay if songs render slowly.",
	"If the page layout changed, pass custom --selector values.",
}

// Downloader fetches the audio of exported songs.
type Downloader interface {
	Download(ctx context.Context, songs []model.Song) (*download.Result, error)
}

// Result is everything a run produced.
type Result struct {
	Songs      []model.Song
	Extraction suno.Result

	// Scroll is the loop result of sources that scroll, nil otherwise.
	Scroll *scroll.Result

	Meta      export.Meta
	Artifacts []export.Artifact

	// Downloads is nil when audio download is disabled.
	Downloads *download.Result
}

// Runner loads, extracts, exports and optionally downloads songs.
type Runner struct {
	Extractor  *suno.Extractor
	Exporter   *export.Exporter
	Downloader Downloader

	// Sink, when set, receives the exported songs.
	Sink func([]model.Song)

	// Now stamps the export. Defaults to time.Now.
	Now func() time.Time

	onProgress progress.Func
}

// NewRunner builds a Runner from settings. Audio download is enabled by
// settings.DownloadAudio.
func NewRunner(settings *config.Settings, onProgress progress.Func) *Runner {
	r := &Runner{
		Extractor:  suno.NewExtractor(settings.ToExtractConfig(), onProgress),
		Exporter:   export.NewExporter(settings.ToExportConfig(), onProgress),
		Now:        time.Now,
		onProgress: onProgress,
	}
	if settings.DownloadAudio {
		r.Downloader = download.NewManager(settings, onProgress)
	}
	return r
}

// Run loads documents from src and exports the songs found in them.
//
// A forced stop of the scroll loop is reported as a warning and the songs
// loaded so far are exported. Zero songs yields ErrNoSongs and nothing is
// written.
func (r *Runner) Run(ctx context.Context, src Source) (*Result, error) {
	docs, sr, err := src.Load(ctx, r.onProgress)
	if err != nil {
		return &Result{Scroll: sr}, fmt.Errorf("load %s: %w", src.Name(), err)
	}

	ext := r.Extractor.Extract(docs...)
	for _, f := range ext.Failures {
		r.onProgress.Warn("Skipped element: " + f.Error())
	}
	r.onProgress.Info(fmt.Sprintf("Found %d songs", len(ext.Songs)),
		slog.String("selector", ext.Selector),
		slog.Int("embedded", ext.Embedded),
		slog.Int("duplicates", ext.Duplicates),
		slog.Int("untitled", ext.Untitled),
	)

	res, err := r.Export(ctx, ext.Songs, src.Name())
	res.Extraction = ext
	res.Scroll = sr
	return res, err
}

// Export writes songs collected from source and downloads their audio when
// a Downloader is set.
func (r *Runner) Export(ctx context.Context, songs []model.Song, source string) (*Result, error) {
	res := &Result{Songs: songs}
	if len(songs) == 0 {
		r.onProgress.Error("No songs found")
		for _, hint := range NoSongsHints {
			r.onProgress.Warn(hint)
		}
		return res, ErrNoSongs
	}

	now := r.Now
	if now == nil {
		now = time.Now
	}
	res.Meta = export.Meta{At: now(), Source: source}

	artifacts, err := r.Exporter.Export(ctx, songs, res.Meta)
	res.Artifacts = artifacts
	if err != nil {
		return res, fmt.Errorf("export: %w", err)
	}
	for _, a := range artifacts {
		r.onProgress.Success(fmt.Sprintf("Saved %s", a.Path), slog.Int("bytes", a.Size))
	}

	if r.Downloader != nil {
		downloads, err := r.Downloader.Download(ctx, songs)
		res.Downloads = downloads
		if err != nil {
			return res, fmt.Errorf("download audio: %w", err)
		}
	}

	if r.Sink != nil {
		r.Sink(songs)
	}
	return res, nil
}
