package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/handiism/suno-exporter/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatTXT  Format = "txt"
	FormatM3U  Format = "m3u"
)

// DefaultFormats are written when no format is configured.
var DefaultFormats = []Format{FormatCSV, FormatJSON, FormatTXT}

// Extension returns the file extension without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ParseFormat converts a configuration value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatTXT, FormatM3U:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json, txt or m3u)", s)
}

// ParseFormats parses a list of formats, dropping repeats. An empty list
// yields DefaultFormats.
func ParseFormats(values []string) ([]Format, error) {
	if len(values) == 0 {
		return append([]Format(nil), DefaultFormats...), nil
	}

	var formats []Format
	seen := make(map[Format]bool)
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			f, err := ParseFormat(part)
			if err != nil {
				return nil, err
			}
			if !seen[f] {
				seen[f] = true
				formats = append(formats, f)
			}
		}
	}
	if len(formats) == 0 {
		return append([]Format(nil), DefaultFormats...), nil
	}
	return formats, nil
}

// Meta describes the export as a whole.
type Meta struct {
	// At is the export time. It names the files and heads the text listing.
	At time.Time

	// Source is the page or files the songs were collected from.
	Source string
}

// Encode writes songs to w in format f.
func Encode(w io.Writer, f Format, songs []model.Song, meta Meta) error {
	switch f {
	case FormatCSV:
		return EncodeCSV(w, songs)
	case FormatJSON:
		return EncodeJSON(w, songs)
	case FormatTXT:
		return EncodeText(w, songs, meta)
	case FormatM3U:
		return EncodeM3U(w, songs)
	}
	return fmt.Errorf("unknown export format %q", f)
}
