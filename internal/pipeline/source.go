package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/handiism/suno-exporter/internal/browser"
	"github.com/handiism/suno-exporter/internal/http"
	"github.com/handiism/suno-exporter/internal/progress"
	"github.com/handiism/suno-exporter/internal/scroll"
)

// DefaultBaseURL resolves relative links of documents without a known URL.
const DefaultBaseURL = "https://suno.com/"

// Source produces the documents songs are extracted from.
type Source interface {
	// Name describes the source for logs and export headers.
	Name() string

	// Load returns the documents to extract from. Sources that scroll a page
	// also return the loop result; others return nil.
	Load(ctx context.Context, onProgress progress.Func) ([]*goquery.Document, *scroll.Result, error)
}

// LiveSource opens the page in Chrome and scrolls it until every song has
// been rendered.
type LiveSource struct {
	Browser browser.Options
	Scroll  scroll.Config
}

func (s *LiveSource) Name() string {
	return s.Browser.URL
}

func (s *LiveSource) Load(ctx context.Context, onProgress progress.Func) ([]*goquery.Document, *scroll.Result, error) {
	opts := s.Browser
	opts.OnProgress = onProgress

	onProgress.Info("Opening " + opts.URL)
	session, err := browser.Open(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	defer session.Close()

	return capture(ctx, session, s.Scroll, onProgress)
}

// capturePage is a scrollable page that can be serialized.
type capturePage interface {
	scroll.Page
	HTML(ctx context.Context) (string, error)
	Location(ctx context.Context) (string, error)
}

// capture scrolls page to the end and parses the final document.
func capture(ctx context.Context, page capturePage, cfg scroll.Config, onProgress progress.Func) ([]*goquery.Document, *scroll.Result, error) {
	loop := scroll.NewLoop(cfg)
	loop.OnPoll = func(r scroll.Result) {
		onProgress.Verbose(fmt.Sprintf("Scroll %d/%d: %d loaded", r.Polls, cfg.MaxPolls, r.Signal),
			slog.Int("stagnant", r.Stagnant),
		)
	}

	res, err := loop.Run(ctx, page)
	if err != nil {
		return nil, &res, err
	}
	switch res.Outcome {
	case scroll.ForcedStop:
		onProgress.Warn(fmt.Sprintf("Stopped after the maximum of %d scrolls, the page may not be fully loaded", res.Polls))
	default:
		onProgress.Info(fmt.Sprintf("Page fully loaded after %d scrolls", res.Polls))
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, &res, fmt.Errorf("read page html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &res, fmt.Errorf("parse page html: %w", err)
	}

	loc, err := page.Location(ctx)
	if err != nil {
		return nil, &res, fmt.Errorf("read page location: %w", err)
	}
	if doc.Url, err = url.Parse(loc); err != nil {
		return nil, &res, fmt.Errorf("parse page location: %w", err)
	}

	return []*goquery.Document{doc}, &res, nil
}

// FileSource reads saved HTML pages. All files are extracted in one run, so a
// song saved in several files is exported once.
type FileSource struct {
	Paths []string

	// BaseURL resolves relative links. Defaults to DefaultBaseURL.
	BaseURL string
}

func (s *FileSource) Name() string {
	return strings.Join(s.Paths, ", ")
}

func (s *FileSource) Load(ctx context.Context, onProgress progress.Func) ([]*goquery.Document, *scroll.Result, error) {
	base := s.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, nil, fmt.Errorf("parse base url: %w", err)
	}

	docs := make([]*goquery.Document, 0, len(s.Paths))
	for _, path := range s.Paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		doc, err := readDocument(path)
		if err != nil {
			return nil, nil, err
		}
		doc.Url = baseURL
		docs = append(docs, doc)
		onProgress.Verbose("Read " + path)
	}
	return docs, nil, nil
}

func readDocument(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// FetchSource downloads pages without a browser. Only songs present in the
// server-rendered pages and their embedded data are found. All pages are
// extracted in one run, so a song listed on several pages is exported once.
type FetchSource struct {
	URLs   []string
	Client *http.Client
}

func (s *FetchSource) Name() string {
	return strings.Join(s.URLs, ", ")
}

func (s *FetchSource) Load(ctx context.Context, onProgress progress.Func) ([]*goquery.Document, *scroll.Result, error) {
	client := s.Client
	if client == nil {
		client = http.NewClient(http.WithProgress(onProgress))
	}

	docs := make([]*goquery.Document, 0, len(s.URLs))
	for _, u := range s.URLs {
		onProgress.Info("Fetching " + u)
		doc, err := client.GetDocument(ctx, u)
		if err != nil {
			return nil, nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil, nil
}
