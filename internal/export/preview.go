package export

import (
	"io"

	"github.com/handiism/suno-exporter/internal/model"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const previewTagWidth = 30

// Preview renders the first n songs as a table. n <= 0 renders all songs.
func Preview(w io.Writer, songs []model.Song, n int) {
	if n <= 0 || n > len(songs) {
		n = len(songs)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Title", "Duration", "Author", "Tags"})
	for i, s := range songs[:n] {
		t.AppendRow(table.Row{
			i + 1,
			titleOrID(s),
			s.Duration,
			s.Author,
			text.Trim(s.TagsText(), previewTagWidth) + ellipsis(s.TagsText()),
		})
	}
	if n < len(songs) {
		t.SetCaption("%d of %d songs shown", n, len(songs))
	}
	t.Render()
}

func ellipsis(s string) string {
	if text.RuneWidthWithoutEscSequences(s) > previewTagWidth {
		return "..."
	}
	return ""
}
