package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/handiism/suno-exporter/internal/model"
)

const rule = "======================================================================"

// EncodeText writes a numbered human-readable listing. Secondary fields are
// indented beneath each title line and omitted when empty.
func EncodeText(w io.Writer, songs []model.Song, meta Meta) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "SUNO COLLECTION EXPORT")
	fmt.Fprintln(bw, rule)
	if !meta.At.IsZero() {
		fmt.Fprintf(bw, "Exported: %s\n", meta.At.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(bw, "Total Songs: %d\n", len(songs))
	if meta.Source != "" {
		fmt.Fprintf(bw, "Source: %s\n", meta.Source)
	}
	fmt.Fprintln(bw, rule)
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "SONGS:")
	fmt.Fprintln(bw)

	for i, s := range songs {
		fmt.Fprintf(bw, "%4d. %s", i+1, titleOrID(s))
		if s.Duration != "" {
			fmt.Fprintf(bw, " [%s]", s.Duration)
		}
		fmt.Fprintln(bw)
		if s.Author != "" {
			fmt.Fprintf(bw, "      By: %s\n", s.Author)
		}
		if len(s.Tags) > 0 {
			fmt.Fprintf(bw, "      Style: %s\n", strings.Join(s.Tags, tagSeparator))
		}
		fmt.Fprintf(bw, "      URL: %s\n", s.URL)
		fmt.Fprintf(bw, "      Audio: %s\n", s.AudioURL)
		fmt.Fprintln(bw)
	}

	return bw.Flush()
}

func titleOrID(s model.Song) string {
	if s.HasTitle() {
		return s.Title
	}
	return "(untitled) " + s.ID
}
