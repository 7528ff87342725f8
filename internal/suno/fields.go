package suno

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// query is one fallback lookup for a best-effort field. An empty attr reads
// the element text.
type query struct {
	selector string
	attr     string
	accept   func(string) bool
}

var durationRe = regexp.MustCompile(`\d+:\d{2}`)

var countRe = regexp.MustCompile(`^\d[\d.,]*\s*[KkMmBb]?$`)

func isDuration(s string) bool { return durationRe.MatchString(s) }

func isCount(s string) bool { return countRe.MatchString(s) }

var (
	titleQueries = []query{
		{selector: `a[href*="/song/"] [title]`, attr: "title"},
		{selector: `a[href*="/song/"][title]`, attr: "title"},
		{selector: titleAttrSelector, attr: "title"},
		{selector: `[class*="title"]`},
		{selector: ".text-base"},
		{selector: `a[href*="/song/"]`},
	}
	durationQueries = []query{
		{selector: `[class*="duration"]`, accept: isDuration},
		{selector: ".font-mono", accept: isDuration},
		{selector: "time", accept: isDuration},
	}
	playQueries = []query{
		{selector: `[title*="play"]`, accept: isCount},
		{selector: `[class*="play-count"]`, accept: isCount},
	}
	likeQueries = []query{
		{selector: `[title*="like"]`, accept: isCount},
		{selector: `[class*="like"]`, accept: isCount},
	}
	commentQueries = []query{
		{selector: `[title*="comment"]`, accept: isCount},
		{selector: `[class*="comment"]`, accept: isCount},
	}
	versionQueries = []query{
		{selector: `[style*="FD429C"]`},
		{selector: `[style*="fd429c"]`},
	}
)

// titleAttrSelector matches title attributes outside controls and counters.
const titleAttrSelector = `[title]:not(button):not([role="button"])` +
	`:not([title*="play"]):not([title*="like"]):not([title*="comment"])`

const (
	songLinkSelector   = `a[href*="/song/"]`
	styleLinkSelector  = `a[href*="/style/"]`
	authorLinkSelector = `a[href*="/@"]`
	statsSelector      = `[class~="text-[12px]"] .font-medium`
)

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// first returns the first non-empty value produced by queries, searching
// each scope in order.
func first(scopes []*goquery.Selection, queries []query) string {
	for _, scope := range scopes {
		for _, q := range queries {
			var value string
			scope.Find(q.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				if q.attr != "" {
					value, _ = s.Attr(q.attr)
				} else {
					value = s.Text()
				}
				value = clean(value)
				if value != "" && (q.accept == nil || q.accept(value)) {
					return false
				}
				value = ""
				return true
			})
			if value != "" {
				return value
			}
		}
	}
	return ""
}

// extractTitle reads the title from the element, then from the element's own
// text when it is a song link, then from its container.
func extractTitle(el *goquery.Selection, scopes []*goquery.Selection) string {
	if title := first(scopes[:1], titleQueries); title != "" {
		return title
	}
	if el.Is(songLinkSelector) {
		if title, ok := el.Attr("title"); ok && clean(title) != "" {
			return clean(title)
		}
		if title := clean(el.Text()); title != "" {
			return title
		}
	}
	return first(scopes[1:], titleQueries)
}

// extractImage returns the absolute, high resolution cover URL.
func extractImage(base *url.URL, scopes []*goquery.Selection) (string, error) {
	for _, scope := range scopes {
		img := scope.Find("img").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return imageSource(s) != ""
		}).First()
		if img.Length() == 0 {
			continue
		}
		abs, err := resolve(base, imageSource(img))
		if err != nil {
			return "", err
		}
		return HighResImage(abs), nil
	}
	return "", nil
}

func imageSource(img *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src"} {
		if v, ok := img.Attr(attr); ok {
			if v = strings.TrimSpace(v); v != "" && !strings.HasPrefix(v, "data:") {
				return v
			}
		}
	}
	return ""
}

// HighResImage rewrites a cover URL to its large variant.
//
//	HighResImage("https://cdn2.suno.ai/image_abc.jpeg?width=720")
//	// "https://cdn2.suno.ai/image_large_abc.jpeg"
func HighResImage(u string) string {
	if !strings.Contains(u, "/image_large_") {
		u = strings.Replace(u, "/image_", "/image_large_", 1)
	}
	return strings.Replace(u, "?width=720", "", 1)
}

// extractTags collects style labels from the first scope that has any.
func extractTags(scopes []*goquery.Selection) []string {
	for _, scope := range scopes {
		var tags []string
		seen := make(map[string]bool)
		scope.Find(styleLinkSelector).Each(func(_ int, s *goquery.Selection) {
			tag := clean(s.Text())
			if tag != "" && !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		})
		if len(tags) > 0 {
			return tags
		}
	}
	return []string{}
}

// extractAuthor returns the profile name and absolute profile link.
func extractAuthor(base *url.URL, scopes []*goquery.Selection) (string, string, error) {
	for _, scope := range scopes {
		a := scope.Find(authorLinkSelector).First()
		if a.Length() == 0 {
			continue
		}
		href, _ := a.Attr("href")
		link, err := resolve(base, strings.TrimSpace(href))
		if err != nil {
			return "", "", err
		}
		return clean(a.Text()), link, nil
	}
	return "", "", nil
}

// extractStats reads plays, likes and comments, falling back to the
// unlabelled stats row when no labelled counter is present.
func extractStats(scopes []*goquery.Selection) (plays, likes, comments string) {
	plays = first(scopes, playQueries)
	likes = first(scopes, likeQueries)
	comments = first(scopes, commentQueries)
	if plays != "" || likes != "" || comments != "" {
		return plays, likes, comments
	}

	for _, scope := range scopes {
		stats := scope.Find(statsSelector)
		if stats.Length() >= 3 {
			return clean(stats.Eq(0).Text()), clean(stats.Eq(1).Text()), clean(stats.Eq(2).Text())
		}
	}
	return "", "", ""
}

func resolve(base *url.URL, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if base == nil {
		return u.String(), nil
	}
	return base.ResolveReference(u).String(), nil
}
