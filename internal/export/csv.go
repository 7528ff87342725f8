package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/handiism/suno-exporter/internal/model"
)

// Columns is the CSV header, in order.
var Columns = []string{
	"id", "title", "url", "shareUrl", "audioUrl", "imageUrl", "duration", "tags",
	"author", "authorLink", "plays", "likes", "comments", "version", "published",
	"lyrics", "extractedAt",
}

const tagSeparator = ", "

func csvRecord(s model.Song) []string {
	extractedAt := ""
	if !s.ExtractedAt.IsZero() {
		extractedAt = s.ExtractedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		s.ID, s.Title, s.URL, s.ShareURL, s.AudioURL, s.ImageURL, s.Duration,
		strings.Join(s.Tags, tagSeparator),
		s.Author, s.AuthorLink, s.Plays, s.Likes, s.Comments, s.Version, s.Published,
		s.Lyrics, extractedAt,
	}
}

// EncodeCSV writes songs as UTF-8 CSV with a header row.
//
// Fields containing a comma, quote or line break are quoted, with inner
// quotes doubled.
func EncodeCSV(w io.Writer, songs []model.Song) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, s := range songs {
		if err := cw.Write(csvRecord(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// headerAliases maps column names used by older exports and other tools to
// the current column names.
var headerAliases = map[string]string{
	"songid":        "id",
	"songname":      "title",
	"songtitle":     "title",
	"songlink":      "url",
	"songurl":       "url",
	"share_url":     "shareUrl",
	"audio_url":     "audioUrl",
	"image_url":     "imageUrl",
	"coverurl":      "imageUrl",
	"length":        "duration",
	"style":         "tags",
	"source_labels": "tags",
	"artist":        "author",
	"display_name":  "author",
	"created_at":    "published",
	"views":         "plays",
	"play_count":    "plays",
	"upvote_count":  "likes",
	"comment_count": "comments",
	"prompt":        "lyrics",
	"modelversion":  "version",
	"model_name":    "version",
}

var canonicalColumns = func() map[string]string {
	m := make(map[string]string, len(Columns))
	for _, c := range Columns {
		m[strings.ToLower(c)] = c
	}
	return m
}()

func canonicalColumn(name string) string {
	name = strings.ToLower(strings.Trim(strings.TrimSpace(name), "\"\ufeff"))
	if c, ok := canonicalColumns[name]; ok {
		return c
	}
	return headerAliases[name]
}

// DecodeCSV reads songs from a CSV export.
//
// The header may use the current column names or the aliases of older
// exports, in any order; unknown columns are ignored and a leading byte order
// mark is tolerated. A row without an id column value takes the ID from its
// song link or audio URL; rows with no derivable ID are skipped. Derived URLs
// are rebuilt from the ID.
func DecodeCSV(r io.Reader) ([]model.Song, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && string(bom) == "\ufeff" {
		br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.Song{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int)
	for i, name := range header {
		if c := canonicalColumn(name); c != "" {
			if _, dup := index[c]; !dup {
				index[c] = i
			}
		}
	}

	songs := []model.Song{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		get := func(col string) string {
			if i, ok := index[col]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		id, ok := songIDFromRow(get)
		if !ok {
			continue
		}
		songs = append(songs, songFromRow(id, get))
	}
	return songs, nil
}

func songIDFromRow(get func(string) string) (string, bool) {
	if id := get("id"); model.IsSongID(id) {
		return id, true
	}
	for _, col := range []string{"url", "audioUrl"} {
		if id, ok := model.ParseSongID(get(col)); ok {
			return id, true
		}
	}
	return "", false
}

func songFromRow(id string, get func(string) string) model.Song {
	var extractedAt time.Time
	if v := get("extractedAt"); v != "" {
		extractedAt, _ = time.Parse(time.RFC3339, v)
	}

	s := model.NewSong(id, get("title"), extractedAt)
	s.ImageURL = get("imageUrl")
	s.Duration = get("duration")
	s.Tags = splitTags(get("tags"))
	s.Author = get("author")
	s.AuthorLink = get("authorLink")
	s.Plays = get("plays")
	s.Likes = get("likes")
	s.Comments = get("comments")
	s.Version = get("version")
	s.Published = get("published")
	s.Lyrics = get("lyrics")
	return s
}

func splitTags(s string) []string {
	tags := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
