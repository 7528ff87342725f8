package model

import (
	"path/filepath"
	"regexp"
	"strings"
)

// PathConfig holds file naming settings for downloaded audio.
//
// AudioFileNameFormat supports placeholders that are replaced with song values:
//   - {title} - Song title
//   - {author} - Author display name
//   - {id} - Full song ID
//   - {shortid} - First segment of the song ID
//
// Example:
//
//	cfg := &PathConfig{
//	    AudioDir:            "/music/suno",
//	    AudioFileNameFormat: "{title} [{shortid}].mp3",
//	}
//	// Results in paths like "/music/suno/Night Drive [0b7c6a1e].mp3"
type PathConfig struct {
	// AudioDir is the directory downloaded audio files are written to.
	AudioDir string

	// AudioFileNameFormat is the template for audio file names.
	// Must include the file extension.
	AudioFileNameFormat string
}

// AudioPath computes where the song's audio file is saved.
//
// Invalid filename characters are replaced with underscores. The file name is
// truncated when the full path would exceed Windows path limits (260).
func (s Song) AudioPath(cfg *PathConfig) string {
	fileName := s.audioFileName(cfg)
	filePath := filepath.Join(cfg.AudioDir, fileName)

	if len(filePath) >= 260 {
		ext := filepath.Ext(fileName)
		maxLen := 259 - len(cfg.AudioDir) - 1 - len(ext)
		base := strings.TrimSuffix(fileName, ext)
		if maxLen > 0 && maxLen < len(base) {
			filePath = filepath.Join(cfg.AudioDir, base[:maxLen]+ext)
		}
	}

	return filePath
}

func (s Song) audioFileName(cfg *PathConfig) string {
	title := s.Title
	if title == "" {
		title = s.ID
	}
	fileName := cfg.AudioFileNameFormat
	fileName = strings.ReplaceAll(fileName, "{title}", title)
	fileName = strings.ReplaceAll(fileName, "{author}", s.Author)
	fileName = strings.ReplaceAll(fileName, "{shortid}", s.ShortID())
	fileName = strings.ReplaceAll(fileName, "{id}", s.ID)
	return sanitizeFileName(fileName)
}

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	multiSpace       = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
func sanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.TrimRight(name, " ")
}
