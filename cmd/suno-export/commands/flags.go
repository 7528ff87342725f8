package commands

import (
	"github.com/spf13/cobra"

	"github.com/handiism/suno-exporter/internal/config"
)

// extractFlags are shared by every command that extracts songs from pages.
type extractFlags struct {
	selectors     []string
	keepUntitled  bool
	noEmbedded    bool
	lyrics        bool
	downloadAudio bool
	audioDir      string
}

func (f *extractFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVar(&f.selectors, "selector", nil, "Song element selectors, tried in order.")
	fl.BoolVar(&f.keepUntitled, "keep-untitled", false, "Keep songs without a title.")
	fl.BoolVar(&f.noEmbedded, "no-embedded", false, "Ignore the page's embedded __NEXT_DATA__.")
	fl.BoolVar(&f.lyrics, "lyrics", false, "Export lyrics from embedded page data.")
	fl.BoolVar(&f.downloadAudio, "download-audio", false, "Download the MP3 of every exported song.")
	fl.StringVar(&f.audioDir, "audio-dir", "", "Directory audio is downloaded to (overrides config).")
}

func (f *extractFlags) apply(cmd *cobra.Command, settings *config.Settings) {
	fl := cmd.Flags()
	if fl.Changed("selector") {
		settings.Selectors = f.selectors
	}
	if fl.Changed("keep-untitled") {
		settings.RequireTitle = !f.keepUntitled
	}
	if fl.Changed("no-embedded") {
		settings.UseEmbeddedData = !f.noEmbedded
	}
	if fl.Changed("lyrics") {
		settings.ExtractLyrics = f.lyrics
	}
	if fl.Changed("download-audio") {
		settings.DownloadAudio = f.downloadAudio
	}
	if fl.Changed("audio-dir") {
		settings.AudioDir = f.audioDir
	}
}
