package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/handiism/suno-exporter/internal/model"
)

const authorURLPrefix = "https://suno.com/@"

// Tags is a style tag list that accepts either a JSON array of strings or a
// single comma-separated string, both of which appear in Suno page data.
type Tags []string

// UnmarshalJSON parses `["a","b"]` or `"a, b"`.
func (t *Tags) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = cleanTags(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags: expected string or string array: %w", err)
	}
	*t = cleanTags(strings.Split(s, ","))
	return nil
}

func cleanTags(raw []string) Tags {
	out := make(Tags, 0, len(raw))
	for _, tag := range raw {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// Count is a counter that may be encoded as a number or a numeric string.
type Count string

// UnmarshalJSON accepts 12, 12.0 or "12".
func (c *Count) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			*c = Count(strconv.FormatInt(i, 10))
			return nil
		}
		if f, err := n.Float64(); err == nil {
			*c = Count(strconv.FormatInt(int64(f), 10))
			return nil
		}
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("count: expected number or string: %w", err)
	}
	*c = Count(strings.TrimSpace(s))
	return nil
}

// JSONClipMetadata holds the generation details of a clip.
type JSONClipMetadata struct {
	Tags     Tags    `json:"tags"`
	Prompt   string  `json:"prompt"`
	Duration float64 `json:"duration"`
}

// JSONClip is a song as embedded in Suno page data.
type JSONClip struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	ImageURL      string            `json:"image_url"`
	ImageLargeURL string            `json:"image_large_url"`
	VideoURL      string            `json:"video_url"`
	Duration      float64           `json:"duration"`
	DisplayName   string            `json:"display_name"`
	Handle        string            `json:"handle"`
	CreatedAt     string            `json:"created_at"`
	PlayCount     Count             `json:"play_count"`
	UpvoteCount   Count             `json:"upvote_count"`
	CommentCount  Count             `json:"comment_count"`
	ModelName     string            `json:"model_name"`
	IsPublic      bool              `json:"is_public"`
	Metadata      *JSONClipMetadata `json:"metadata"`
}

// JSONClipEntry is an element of a clip list. Playlists wrap each clip in
// an object with a "clip" field; other lists hold clips directly.
type JSONClipEntry struct {
	JSONClip
	Clip *JSONClip `json:"clip"`
}

// Unwrap returns the clip carried by the entry.
func (e JSONClipEntry) Unwrap() JSONClip {
	if e.Clip != nil {
		return *e.Clip
	}
	return e.JSONClip
}

// ToSong converts the clip to a model.Song.
//
// The song URLs are derived from the ID; the clip's own audio URL is
// ignored. Lyrics are copied only when withLyrics is set.
func (c JSONClip) ToSong(extractedAt time.Time, withLyrics bool) model.Song {
	song := model.NewSong(c.ID, strings.TrimSpace(c.Title), extractedAt)

	song.ImageURL = c.ImageLargeURL
	if song.ImageURL == "" {
		song.ImageURL = c.ImageURL
	}

	duration := c.Duration
	if duration == 0 && c.Metadata != nil {
		duration = c.Metadata.Duration
	}
	song.Duration = model.FormatDuration(duration)

	song.Author = c.DisplayName
	if c.Handle != "" {
		song.AuthorLink = authorURLPrefix + c.Handle
		if song.Author == "" {
			song.Author = c.Handle
		}
	}

	song.Plays = string(c.PlayCount)
	song.Likes = string(c.UpvoteCount)
	song.Comments = string(c.CommentCount)
	song.Version = c.ModelName
	song.Published = c.CreatedAt

	if c.Metadata != nil {
		if len(c.Metadata.Tags) > 0 {
			song.Tags = append([]string{}, c.Metadata.Tags...)
		}
		if withLyrics {
			song.Lyrics = c.Metadata.Prompt
		}
	}

	return song
}

// JSONNextData is the subset of a Next.js __NEXT_DATA__ payload that can
// carry clip lists.
type JSONNextData struct {
	Props struct {
		PageProps JSONPageProps `json:"pageProps"`
	} `json:"props"`
}

// JSONPageProps lists the known clip locations of Suno pages.
type JSONPageProps struct {
	Clips    []JSONClipEntry `json:"clips"`
	Songs    []JSONClipEntry `json:"songs"`
	Playlist *struct {
		Clips []JSONClipEntry `json:"clips"`
	} `json:"playlist"`
	Library *struct {
		Clips []JSONClipEntry `json:"clips"`
	} `json:"library"`
}

// AllClips returns every clip in page order: clips, playlist clips, songs,
// library clips.
func (p JSONPageProps) AllClips() []JSONClip {
	var entries []JSONClipEntry
	entries = append(entries, p.Clips...)
	if p.Playlist != nil {
		entries = append(entries, p.Playlist.Clips...)
	}
	entries = append(entries, p.Songs...)
	if p.Library != nil {
		entries = append(entries, p.Library.Clips...)
	}

	clips := make([]JSONClip, 0, len(entries))
	for _, e := range entries {
		clips = append(clips, e.Unwrap())
	}
	return clips
}
