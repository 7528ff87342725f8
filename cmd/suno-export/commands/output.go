package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/suno-exporter/internal/export"
	"github.com/handiism/suno-exporter/internal/pipeline"
)

const previewRows = 10

func printResult(w io.Writer, res *pipeline.Result) {
	export.Preview(w, res.Songs, previewRows)
	fmt.Fprintln(w)

	for _, a := range res.Artifacts {
		fmt.Fprintf(w, "%s %s (%d bytes)\n", text.FgGreen.Sprint("saved"), a.Path, a.Size)
	}
	if d := res.Downloads; d != nil {
		fmt.Fprintf(w, "audio: %d downloaded, %d already present, %d failed\n", d.Downloaded, d.Skipped, d.Failed)
		if d.Playlist != "" {
			fmt.Fprintf(w, "%s %s\n", text.FgGreen.Sprint("saved"), d.Playlist)
		}
	}
}
