package suno

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/suno-exporter/internal/suno/dto"
)

// ErrNoEmbeddedData is returned when a document carries no __NEXT_DATA__ script.
var ErrNoEmbeddedData = errors.New("no embedded page data")

const nextDataSelector = "script#__NEXT_DATA__"

// EmbeddedClips decodes the clips embedded in a server rendered Suno page.
//
// Pages rendered by Next.js ship their initial props as JSON in
// <script id="__NEXT_DATA__">. Clips are looked up under props.pageProps in
// clips, playlist.clips, songs and library.clips, in that order.
//
// Returns ErrNoEmbeddedData when the script is absent.
func EmbeddedClips(doc *goquery.Document) ([]dto.JSONClip, error) {
	script := doc.Find(nextDataSelector).First()
	if script.Length() == 0 {
		return nil, ErrNoEmbeddedData
	}

	raw := strings.TrimSpace(script.Text())
	if raw == "" {
		return nil, ErrNoEmbeddedData
	}

	var data dto.JSONNextData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to parse embedded page data: %w", err)
	}
	return data.Props.PageProps.AllClips(), nil
}
