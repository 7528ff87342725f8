package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/handiism/suno-exporter/internal/model"
)

// EncodeJSON writes songs as a two-space indented JSON array. Every record
// carries every field; a missing tag list is written as [].
func EncodeJSON(w io.Writer, songs []model.Song) error {
	out := make([]model.Song, len(songs))
	for i, s := range songs {
		if s.Tags == nil {
			s.Tags = []string{}
		}
		out[i] = s
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

// DecodeJSON reads a JSON export. Records with an invalid ID are skipped and
// derived URLs are rebuilt from the ID.
func DecodeJSON(r io.Reader) ([]model.Song, error) {
	var raw []model.Song
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json export: %w", err)
	}

	songs := make([]model.Song, 0, len(raw))
	for _, s := range raw {
		if !model.IsSongID(s.ID) {
			continue
		}
		derived := model.NewSong(s.ID, s.Title, s.ExtractedAt)
		s.URL, s.ShareURL, s.AudioURL = derived.URL, derived.ShareURL, derived.AudioURL
		if s.Tags == nil {
			s.Tags = []string{}
		}
		songs = append(songs, s)
	}
	return songs, nil
}
