package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/handiism/suno-exporter/internal/browser"
	"github.com/handiism/suno-exporter/internal/export"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.json5"))
	require.NoError(t, err)
	require.Equal(t, DefaultSettings(), settings)
	require.NoError(t, settings.Validate())
}

func TestLoad_JSON5WithLocalOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suno-export.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// main config
		"page_url": "https://suno.com/me",
		"formats": ["csv", "m3u",],
		"max_scrolls": 50,
		"require_title": false,
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "suno-export.local.json5"), []byte(`{
		"remote_url": "ws://127.0.0.1:9222/devtools/browser/x",
		"max_scrolls": 80,
	}`), 0644))

	settings, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "https://suno.com/me", settings.PageURL)
	require.Equal(t, []string{"csv", "m3u"}, settings.Formats)
	require.Equal(t, 80, settings.MaxScrolls)
	require.Equal(t, "ws://127.0.0.1:9222/devtools/browser/x", settings.RemoteURL)
	require.False(t, settings.RequireTitle)
	require.Equal(t, 5, settings.StagnationThreshold)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{ page_url: `), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "suno-export.json5")
	settings := DefaultSettings()
	settings.PageURL = "https://suno.com/playlist/abc"
	settings.UseEmbeddedData = false

	require.NoError(t, settings.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("cfg", "a.local.json5"), LocalPath(filepath.Join("cfg", "a.json5")))
	require.Equal(t, "noext.local", LocalPath("noext"))
}

func TestValidate(t *testing.T) {
	settings := DefaultSettings()
	settings.Formats = []string{"xml"}
	settings.ProgressSignal = "pixels"
	settings.MaxScrolls = 0
	settings.DownloadAudio = true
	settings.AudioFileNameFormat = "{title}.mp3"

	err := settings.Validate()
	require.Error(t, err)
	for _, want := range []string{"xml", "pixels", "max polls", "audio_file_name_format"} {
		require.ErrorContains(t, err, want)
	}
}

func TestConversions(t *testing.T) {
	settings := DefaultSettings()
	settings.PageURL = "https://suno.com/me"
	settings.ScrollDelayMs = 250
	settings.ProgressSignal = "height"
	settings.Formats = []string{"json"}
	settings.Selectors = []string{".row"}
	settings.ExtractLyrics = true

	sc := settings.ToScrollConfig()
	require.Equal(t, 250*time.Millisecond, sc.Delay)
	require.Equal(t, 500, sc.MaxPolls)
	require.Equal(t, 5, sc.StagnationThreshold)

	bo := settings.ToBrowserOptions()
	require.Equal(t, "https://suno.com/me", bo.URL)
	require.Equal(t, browser.SignalHeight, bo.Signal)
	require.True(t, bo.Headless)
	require.Equal(t, time.Minute, bo.LoadTimeout)

	ec := settings.ToExtractConfig()
	require.Equal(t, []string{".row"}, ec.Selectors)
	require.True(t, ec.RequireTitle)
	require.True(t, ec.ExtractLyrics)
	require.NotEmpty(t, ec.Containers)

	xc := settings.ToExportConfig()
	require.Equal(t, []export.Format{export.FormatJSON}, xc.Formats)
	require.Equal(t, export.DefaultPrefix, xc.Prefix)

	pc := settings.ToPathConfig()
	require.Equal(t, "{title} [{shortid}].mp3", pc.AudioFileNameFormat)
}
