package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	songURLPrefix  = "https://suno.com/song/"
	shareURLPrefix = "https://suno.com/s/"
	audioURLPrefix = "https://cdn1.suno.ai/"
	audioURLSuffix = ".mp3"

	// SongIDLength is the length of a canonical song identifier.
	SongIDLength = 36
)

var (
	songIDRe     = regexp.MustCompile(`^[a-f0-9-]{36}$`)
	songLinkRe   = regexp.MustCompile(`/song/([a-f0-9-]{36})`)
	songAudioRe  = regexp.MustCompile(`cdn\d*\.suno\.ai/([a-f0-9-]{36})`)
	durationText = regexp.MustCompile(`\d+:\d{2}`)
)

// Song is a single track collected from a Suno page.
//
// A Song is created once per unique ID during an extraction run and is not
// modified afterwards. Optional fields hold the empty value when the page
// did not provide them.
//
// URL, ShareURL and AudioURL are always derived from ID by NewSong; they are
// never read from the page.
type Song struct {
	// ID is the canonical identifier, a 36 character hyphenated hex token.
	ID string `json:"id"`

	// Title is the song name.
	Title string `json:"title"`

	// URL is the song page, https://suno.com/song/{id}.
	URL string `json:"url"`

	// ShareURL is the short share link built from the first ID segment.
	ShareURL string `json:"shareUrl"`

	// AudioURL is the CDN location of the MP3 rendition.
	AudioURL string `json:"audioUrl"`

	// ImageURL is the cover image, upgraded to the large variant when possible.
	ImageURL string `json:"imageUrl"`

	// Duration is the play time as M:SS.
	Duration string `json:"duration"`

	// Tags holds the style labels in page order.
	Tags []string `json:"tags"`

	Author     string `json:"author"`
	AuthorLink string `json:"authorLink"`

	// Plays, Likes and Comments are counters as displayed on the page.
	Plays    string `json:"plays"`
	Likes    string `json:"likes"`
	Comments string `json:"comments"`

	// Version is the model version badge, e.g. "v3.5".
	Version string `json:"version"`

	// Published is the creation timestamp as provided by the page data.
	Published string `json:"published"`

	// Lyrics is the generation prompt, only available from embedded page data.
	Lyrics string `json:"lyrics"`

	// ExtractedAt is when the record was captured.
	ExtractedAt time.Time `json:"extractedAt"`
}

// NewSong creates a Song with its derived URLs filled in.
//
// Tags is initialised to an empty list so that serialised records always
// carry every field.
func NewSong(id, title string, extractedAt time.Time) Song {
	return Song{
		ID:          id,
		Title:       title,
		URL:         SongURL(id),
		ShareURL:    ShareURL(id),
		AudioURL:    AudioURL(id),
		Tags:        []string{},
		ExtractedAt: extractedAt,
	}
}

// SongURL returns the song page URL for id.
func SongURL(id string) string {
	return songURLPrefix + id
}

// ShareURL returns the short share URL for id.
func ShareURL(id string) string {
	short, _, _ := strings.Cut(id, "-")
	return shareURLPrefix + short
}

// AudioURL returns the CDN MP3 URL for id.
func AudioURL(id string) string {
	return audioURLPrefix + id + audioURLSuffix
}

// ShortID returns the first segment of the song ID.
func (s Song) ShortID() string {
	short, _, _ := strings.Cut(s.ID, "-")
	return short
}

// TagsText returns the tags joined for display.
func (s Song) TagsText() string {
	return strings.Join(s.Tags, ", ")
}

// HasTitle reports whether the song carries a non-blank title.
func (s Song) HasTitle() bool {
	return strings.TrimSpace(s.Title) != ""
}

// String implements fmt.Stringer.
func (s Song) String() string {
	if s.Duration != "" {
		return fmt.Sprintf("%s [%s] (%s)", s.Title, s.Duration, s.ID)
	}
	return fmt.Sprintf("%s (%s)", s.Title, s.ID)
}

// IsSongID reports whether s has the shape of a canonical song identifier.
func IsSongID(s string) bool {
	return songIDRe.MatchString(s)
}

// ParseSongID extracts a song identifier from s.
//
// s may be a song link (absolute or relative, "/song/{id}"), a CDN audio URL
// or a bare identifier. The second return value is false when no identifier
// can be found.
//
// Example:
//
//	id, ok := ParseSongID("https://suno.com/song/0b7c6a1e-3f9d-4c55-9b7e-1d2a3c4b5e6f?sh=x")
//	// id = "0b7c6a1e-3f9d-4c55-9b7e-1d2a3c4b5e6f", ok = true
func ParseSongID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if IsSongID(s) {
		return s, true
	}
	if m := songLinkRe.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	if m := songAudioRe.FindStringSubmatch(s); m != nil {
		return m[1], true
	}
	return "", false
}

// FormatDuration formats seconds as M:SS. Zero or negative input yields "".
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// NormalizeDuration pulls the first M:SS token out of a display string,
// returning the trimmed input when there is none.
func NormalizeDuration(text string) string {
	text = strings.TrimSpace(text)
	if m := durationText.FindString(text); m != "" {
		return m
	}
	return text
}
