package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"

	"github.com/handiism/suno-exporter/internal/browser"
	"github.com/handiism/suno-exporter/internal/export"
	ioutils "github.com/handiism/suno-exporter/internal/io"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/scroll"
	"github.com/handiism/suno-exporter/internal/suno"
)

// DefaultFileName is the settings file looked up when no path is given.
const DefaultFileName = "suno-export.json5"

// Settings holds all configuration options.
type Settings struct {
	// Page and output
	PageURL    string   `json:"page_url"`
	OutputDir  string   `json:"output_dir"`
	FilePrefix string   `json:"file_prefix"`
	Formats    []string `json:"formats"`

	// Scroll loop
	ScrollDelayMs       int    `json:"scroll_delay_ms"`
	MaxScrolls          int    `json:"max_scrolls"`
	StagnationThreshold int    `json:"stagnation_threshold"`
	ProgressSignal      string `json:"progress_signal"` // identifiers, height

	// Browser
	Headless           bool   `json:"headless"`
	RemoteURL          string `json:"remote_url"`
	UserAgent          string `json:"user_agent"`
	LoadTimeoutSeconds int    `json:"load_timeout_seconds"`

	// Extraction
	Selectors       []string `json:"selectors"`
	IDAttributes    []string `json:"id_attributes"`
	RequireTitle    bool     `json:"require_title"`
	UseEmbeddedData bool     `json:"use_embedded_data"`
	ExtractLyrics   bool     `json:"extract_lyrics"`

	// Audio download
	DownloadAudio          bool   `json:"download_audio"`
	AudioDir               string `json:"audio_dir"`
	AudioFileNameFormat    string `json:"audio_file_name_format"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads"`
	TagAudio               bool   `json:"tag_audio"`
	EmbedCoverArt          bool   `json:"embed_cover_art"`
	CoverArtMaxSize        int    `json:"cover_art_max_size"`
	CreatePlaylist         bool   `json:"create_playlist"`

	HTTPTimeoutSeconds int  `json:"http_timeout_seconds"`
	Verbose            bool `json:"verbose"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		OutputDir:  ".",
		FilePrefix: export.DefaultPrefix,
		Formats:    []string{"csv", "json", "txt"},

		ScrollDelayMs:       2000,
		MaxScrolls:          500,
		StagnationThreshold: 5,
		ProgressSignal:      string(browser.SignalIdentifiers),

		Headless:           true,
		LoadTimeoutSeconds: 60,

		Selectors:       append([]string(nil), suno.DefaultSelectors...),
		IDAttributes:    append([]string(nil), suno.DefaultIDAttributes...),
		RequireTitle:    true,
		UseEmbeddedData: true,

		AudioDir:               filepath.Join(homeDir, "Music", "Suno"),
		AudioFileNameFormat:    "{title} [{shortid}].mp3",
		MaxConcurrentDownloads: 4,
		TagAudio:               true,
		EmbedCoverArt:          true,
		CoverArtMaxSize:        1000,

		HTTPTimeoutSeconds: 60,
	}
}

// Load reads settings from a JSON5 file on top of the defaults.
//
// A sibling "<name>.local.<ext>" file, when present, is merged over the
// result. Non-zero values of the local file win; it cannot reset a value to
// false or zero. A missing main file is not an error.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	localPath := LocalPath(path)
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if len(local) > 0 {
		var override Settings
		if err := json5.Unmarshal(local, &override); err != nil {
			return nil, fmt.Errorf("parse %s: %w", localPath, err)
		}
		if err := mergo.Merge(settings, override, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge %s: %w", localPath, err)
		}
		slog.Debug("merging config with local overrides", "local", localPath)
	}

	return settings, nil
}

// LocalPath returns the override file path for path, "<name>.local.<ext>".
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// Save writes settings to a JSON file. JSON is valid JSON5.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return ioutils.WriteFile(path, append(data, '\n'))
}

// Validate reports every invalid value at once.
func (s *Settings) Validate() error {
	var errs []error
	if _, err := export.ParseFormats(s.Formats); err != nil {
		errs = append(errs, err)
	}
	if _, err := browser.ParseSignal(s.ProgressSignal); err != nil {
		errs = append(errs, err)
	}
	if err := s.ToScrollConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if s.LoadTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("load_timeout_seconds must be at least 1, got %d", s.LoadTimeoutSeconds))
	}
	if s.HTTPTimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("http_timeout_seconds must be at least 1, got %d", s.HTTPTimeoutSeconds))
	}
	if len(s.Selectors) == 0 {
		errs = append(errs, errors.New("selectors must not be empty"))
	}
	if s.DownloadAudio {
		if s.MaxConcurrentDownloads < 1 {
			errs = append(errs, fmt.Errorf("max_concurrent_downloads must be at least 1, got %d", s.MaxConcurrentDownloads))
		}
		if !strings.Contains(s.AudioFileNameFormat, "{id}") && !strings.Contains(s.AudioFileNameFormat, "{shortid}") {
			errs = append(errs, errors.New("audio_file_name_format must contain {id} or {shortid}"))
		}
	}
	return errors.Join(errs...)
}

// ToScrollConfig converts settings to scroll.Config.
func (s *Settings) ToScrollConfig() scroll.Config {
	return scroll.Config{
		Delay:               time.Duration(s.ScrollDelayMs) * time.Millisecond,
		MaxPolls:            s.MaxScrolls,
		StagnationThreshold: s.StagnationThreshold,
	}
}

// ToBrowserOptions converts settings to browser.Options. The progress
// signal falls back to identifiers when invalid.
func (s *Settings) ToBrowserOptions() browser.Options {
	signal, err := browser.ParseSignal(s.ProgressSignal)
	if err != nil {
		signal = browser.SignalIdentifiers
	}
	return browser.Options{
		URL:         s.PageURL,
		RemoteURL:   s.RemoteURL,
		Headless:    s.Headless,
		UserAgent:   s.UserAgent,
		Signal:      signal,
		LoadTimeout: time.Duration(s.LoadTimeoutSeconds) * time.Second,
	}
}

// ToExtractConfig converts settings to suno.ExtractConfig.
func (s *Settings) ToExtractConfig() suno.ExtractConfig {
	cfg := suno.DefaultExtractConfig()
	if len(s.Selectors) > 0 {
		cfg.Selectors = append([]string(nil), s.Selectors...)
	}
	if len(s.IDAttributes) > 0 {
		cfg.IDAttributes = append([]string(nil), s.IDAttributes...)
	}
	cfg.RequireTitle = s.RequireTitle
	cfg.UseEmbeddedData = s.UseEmbeddedData
	cfg.ExtractLyrics = s.ExtractLyrics
	return cfg
}

// ToExportConfig converts settings to export.Config. Invalid formats fall
// back to the defaults; call Validate to detect them.
func (s *Settings) ToExportConfig() export.Config {
	formats, err := export.ParseFormats(s.Formats)
	if err != nil {
		formats = append([]export.Format(nil), export.DefaultFormats...)
	}
	return export.Config{
		Dir:     s.OutputDir,
		Prefix:  s.FilePrefix,
		Formats: formats,
	}
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		AudioDir:            s.AudioDir,
		AudioFileNameFormat: s.AudioFileNameFormat,
	}
}

// HTTPTimeout returns the HTTP request timeout.
func (s *Settings) HTTPTimeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}
