package suno

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/handiism/suno-exporter/internal/model"
	"github.com/handiism/suno-exporter/internal/progress"
)

// DefaultSelectors are the candidate song element selectors, most specific
// first.
var DefaultSelectors = []string{
	"[data-clip-id]",
	`[data-testid="song-row"]`,
	`a[href*="/song/"]`,
}

// DefaultIDAttributes are the element attributes that may hold a song ID.
var DefaultIDAttributes = []string{"data-clip-id"}

// ExtractConfig controls how songs are found in a document.
type ExtractConfig struct {
	// Selectors are tried in order. Extraction stops after the first
	// selector that yields at least one accepted song. A single selector
	// always uses that selector.
	Selectors []string

	// IDAttributes are read, in order, before falling back to song links.
	IDAttributes []string

	// Containers locate the metadata container of a song element.
	Containers []ContainerLocator

	// RequireTitle drops songs without a title.
	RequireTitle bool

	// UseEmbeddedData reads __NEXT_DATA__ clips before walking the DOM.
	UseEmbeddedData bool

	// ExtractLyrics copies prompts from embedded data into Song.Lyrics.
	ExtractLyrics bool

	// Now stamps ExtractedAt. Defaults to time.Now.
	Now func() time.Time
}

// DefaultExtractConfig returns the default selectors and locators with
// titles required and embedded data enabled.
func DefaultExtractConfig() ExtractConfig {
	return ExtractConfig{
		Selectors:       append([]string(nil), DefaultSelectors...),
		IDAttributes:    append([]string(nil), DefaultIDAttributes...),
		Containers:      DefaultContainers(),
		RequireTitle:    true,
		UseEmbeddedData: true,
	}
}

// ElementError describes an element that was dropped because extracting
// its fields failed.
type ElementError struct {
	Selector string
	Index    int
	SongID   string
	Err      error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d of %q (song %s): %v", e.Index, e.Selector, e.SongID, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one extraction run.
type Result struct {
	// Songs are unique by ID, in first-seen order.
	Songs []model.Song

	// Embedded is the number of songs taken from embedded page data.
	Embedded int

	// Selector is the selector that produced DOM songs, if any.
	Selector string

	// Skipped counts elements without a derivable ID.
	Skipped int

	// Duplicates counts elements whose ID was already accepted.
	Duplicates int

	// Untitled counts songs dropped for lacking a title.
	Untitled int

	// Failures lists elements dropped because of an extraction error.
	Failures []*ElementError
}

// Extractor builds Song records from rendered Suno pages.
//
//	ex := suno.NewExtractor(suno.DefaultExtractConfig(), onProgress)
//	res := ex.Extract(doc)
//	for _, song := range res.Songs {
//	    fmt.Println(song)
//	}
type Extractor struct {
	cfg        ExtractConfig
	onProgress progress.Func
}

// NewExtractor creates an Extractor. Empty selector, attribute and
// container lists fall back to the defaults.
func NewExtractor(cfg ExtractConfig, onProgress progress.Func) *Extractor {
	if len(cfg.Selectors) == 0 {
		cfg.Selectors = append([]string(nil), DefaultSelectors...)
	}
	if len(cfg.IDAttributes) == 0 {
		cfg.IDAttributes = append([]string(nil), DefaultIDAttributes...)
	}
	if len(cfg.Containers) == 0 {
		cfg.Containers = DefaultContainers()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Extractor{cfg: cfg, onProgress: onProgress}
}

// run is the state of one Extract call.
type run struct {
	*Extractor
	res  Result
	seen map[string]bool
}

// Extract collects songs from docs. All documents share one set of seen IDs,
// so a song present in several documents is reported once.
//
// Elements without an ID are skipped silently. An element whose field
// extraction fails (including panics) is dropped and recorded in
// Result.Failures; the remaining elements are still processed.
func (e *Extractor) Extract(docs ...*goquery.Document) Result {
	r := &run{Extractor: e, seen: make(map[string]bool)}
	r.res.Songs = []model.Song{}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if e.cfg.UseEmbeddedData {
			r.extractEmbedded(doc)
		}
		r.extractDOM(doc)
	}

	e.onProgress.Verbose("extraction finished",
		slog.Int("songs", len(r.res.Songs)),
		slog.Int("embedded", r.res.Embedded),
		slog.Int("skipped", r.res.Skipped),
		slog.Int("duplicates", r.res.Duplicates),
		slog.Int("untitled", r.res.Untitled),
		slog.Int("failures", len(r.res.Failures)),
	)
	return r.res
}

// accept applies the title policy and uniqueness invariant. The ID is only
// marked as seen once a song is accepted, so an untitled occurrence does not
// hide a later titled one.
func (r *run) accept(song model.Song) bool {
	if r.seen[song.ID] {
		r.res.Duplicates++
		return false
	}
	if r.cfg.RequireTitle && !song.HasTitle() {
		r.res.Untitled++
		return false
	}
	r.seen[song.ID] = true
	r.res.Songs = append(r.res.Songs, song)
	return true
}

func (r *run) extractEmbedded(doc *goquery.Document) {
	clips, err := EmbeddedClips(doc)
	if err != nil {
		if !errors.Is(err, ErrNoEmbeddedData) {
			r.onProgress.Warn("ignoring embedded page data", slog.String("error", err.Error()))
		}
		return
	}

	for _, clip := range clips {
		if !model.IsSongID(clip.ID) {
			r.res.Skipped++
			continue
		}
		if r.accept(clip.ToSong(r.cfg.Now(), r.cfg.ExtractLyrics)) {
			r.res.Embedded++
		}
	}
	r.onProgress.Verbose("read embedded page data", slog.Int("clips", len(clips)))
}

func (r *run) extractDOM(doc *goquery.Document) {
	base := doc.Url

	for _, selector := range r.cfg.Selectors {
		elements := doc.Find(selector)
		r.onProgress.Verbose("trying selector",
			slog.String("selector", selector),
			slog.Int("elements", elements.Length()),
		)

		accepted := 0
		elements.Each(func(i int, el *goquery.Selection) {
			id, ok := r.elementID(el)
			if !ok {
				r.res.Skipped++
				return
			}
			if r.seen[id] {
				r.res.Duplicates++
				return
			}

			song, err := r.extractElement(base, id, el)
			if err != nil {
				failure := &ElementError{Selector: selector, Index: i, SongID: id, Err: err}
				r.res.Failures = append(r.res.Failures, failure)
				r.onProgress.Warn("dropping song element", slog.String("error", failure.Error()))
				return
			}
			if r.accept(song) {
				accepted++
			}
		})

		if accepted > 0 {
			r.res.Selector = selector
			return
		}
	}
}

// elementID derives the canonical song ID of el.
func (r *run) elementID(el *goquery.Selection) (string, bool) {
	for _, attr := range r.cfg.IDAttributes {
		if v, ok := el.Attr(attr); ok && model.IsSongID(v) {
			return v, true
		}
	}

	if href, ok := el.Attr("href"); ok {
		if id, ok := model.ParseSongID(href); ok {
			return id, true
		}
	}

	if href, ok := el.Find(songLinkSelector).First().Attr("href"); ok {
		return model.ParseSongID(href)
	}
	return "", false
}

// extractElement builds the song for el, converting panics into errors.
func (r *run) extractElement(base *url.URL, id string, el *goquery.Selection) (song model.Song, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	container := locateContainer(r.cfg.Containers, el)
	scopes := []*goquery.Selection{el}
	if !container.IsSelection(el) {
		scopes = append(scopes, container)
	}

	song = model.NewSong(id, extractTitle(el, scopes), r.cfg.Now())
	song.Duration = model.NormalizeDuration(first(scopes, durationQueries))
	song.Tags = extractTags(scopes)
	song.Version = first(scopes, versionQueries)
	song.Plays, song.Likes, song.Comments = extractStats(scopes)

	if song.ImageURL, err = extractImage(base, scopes); err != nil {
		return model.Song{}, fmt.Errorf("image url: %w", err)
	}
	if song.Author, song.AuthorLink, err = extractAuthor(base, scopes); err != nil {
		return model.Song{}, fmt.Errorf("author link: %w", err)
	}

	return song, nil
}
