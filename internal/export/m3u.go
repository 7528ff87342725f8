package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/handiism/suno-exporter/internal/model"
)

// EncodeM3U writes an extended M3U playlist that streams every song from
// its audio URL.
func EncodeM3U(w io.Writer, songs []model.Song) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#EXTM3U")
	for _, s := range songs {
		name := titleOrID(s)
		if s.Author != "" {
			name = s.Author + " - " + name
		}
		fmt.Fprintf(bw, "#EXTINF:%d,%s\n", durationSeconds(s.Duration), strings.ReplaceAll(name, "\n", " "))
		fmt.Fprintln(bw, s.AudioURL)
	}
	return bw.Flush()
}

// durationSeconds converts M:SS to seconds, -1 when unknown.
func durationSeconds(d string) int {
	var m, s int
	if _, err := fmt.Sscanf(d, "%d:%d", &m, &s); err != nil {
		return -1
	}
	return m*60 + s
}

// EncodeLocalM3U writes a playlist of downloaded files. paths maps song IDs
// to file paths; songs without a path are left out.
func EncodeLocalM3U(w io.Writer, songs []model.Song, paths map[string]string) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "#EXTM3U")
	for _, s := range songs {
		path, ok := paths[s.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(bw, "#EXTINF:%d,%s\n", durationSeconds(s.Duration), titleOrID(s))
		fmt.Fprintln(bw, path)
	}
	return bw.Flush()
}
