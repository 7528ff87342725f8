package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	ioutils "github.com/handiism/suno-exporter/internal/io"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/progress"
)

// ErrNoSongs is returned by Export when there is nothing to write. No file
// is created in that case.
var ErrNoSongs = errors.New("no songs to export")

// DefaultPrefix starts every export file name.
const DefaultPrefix = "suno-export"

// Config controls where and how exports are written.
type Config struct {
	// Dir is the output directory. It is created if missing.
	Dir string

	// Prefix starts each file name, followed by the export timestamp.
	Prefix string

	// Formats lists the files to write, one per format.
	Formats []Format
}

// Artifact is a written export file.
type Artifact struct {
	Format Format
	Path   string
	Size   int
}

// Exporter writes song lists to timestamped files.
type Exporter struct {
	cfg        Config
	onProgress progress.Func
}

// NewExporter creates an Exporter, filling in the default prefix and formats.
func NewExporter(cfg Config, onProgress progress.Func) *Exporter {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if len(cfg.Formats) == 0 {
		cfg.Formats = append([]Format(nil), DefaultFormats...)
	}
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	return &Exporter{cfg: cfg, onProgress: onProgress}
}

// Path returns the file path used for format f of an export taken at meta.At.
func (e *Exporter) Path(f Format, meta Meta) string {
	return filepath.Join(e.cfg.Dir, ioutils.TimestampedName(e.cfg.Prefix, f.Extension(), meta.At))
}

// Export writes one file per configured format.
//
// Every format is encoded before anything is written, so an encoding error
// leaves no files behind. Each file is then written atomically. Returns
// ErrNoSongs without touching the file system when songs is empty.
func (e *Exporter) Export(ctx context.Context, songs []model.Song, meta Meta) ([]Artifact, error) {
	if len(songs) == 0 {
		return nil, ErrNoSongs
	}

	encoded := make([][]byte, len(e.cfg.Formats))
	for i, f := range e.cfg.Formats {
		var buf bytes.Buffer
		if err := Encode(&buf, f, songs, meta); err != nil {
			return nil, fmt.Errorf("encode %s: %w", f, err)
		}
		encoded[i] = buf.Bytes()
	}

	if err := ioutils.EnsureDir(e.cfg.Dir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	artifacts := make([]Artifact, 0, len(e.cfg.Formats))
	for i, f := range e.cfg.Formats {
		if err := ctx.Err(); err != nil {
			return artifacts, err
		}

		path := e.Path(f, meta)
		if err := ioutils.WriteFile(path, encoded[i]); err != nil {
			return artifacts, fmt.Errorf("write %s export: %w", f, err)
		}
		artifacts = append(artifacts, Artifact{Format: f, Path: path, Size: len(encoded[i])})
		e.onProgress.Verbose("wrote export file",
			slog.String("format", string(f)),
			slog.String("path", path),
			slog.Int("bytes", len(encoded[i])),
		)
	}

	return artifacts, nil
}
