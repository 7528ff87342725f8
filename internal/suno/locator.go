package suno

import "github.com/PuerkitoBio/goquery"

// ContainerLocator finds the element that holds a song's metadata, given
// the element its identifier was taken from.
//
// Locate returns nil or an empty selection when it has no opinion.
type ContainerLocator interface {
	Locate(el *goquery.Selection) *goquery.Selection
}

// LocatorFunc adapts a function to ContainerLocator.
type LocatorFunc func(el *goquery.Selection) *goquery.Selection

// Locate calls f(el).
func (f LocatorFunc) Locate(el *goquery.Selection) *goquery.Selection {
	return f(el)
}

// Closest locates the nearest ancestor-or-self matching selector.
func Closest(selector string) ContainerLocator {
	return LocatorFunc(func(el *goquery.Selection) *goquery.Selection {
		return el.Closest(selector)
	})
}

// Self locates the element itself.
func Self() ContainerLocator {
	return LocatorFunc(func(el *goquery.Selection) *goquery.Selection {
		return el
	})
}

// DefaultContainers is the locator chain used when none is configured:
// the song row, then class-name heuristics, then any wrapping div.
func DefaultContainers() []ContainerLocator {
	return []ContainerLocator{
		Closest("[data-clip-id]"),
		Closest(`[class*="song"]`),
		Closest(`[class*="clip"]`),
		Closest("div"),
		Self(),
	}
}

// locateContainer runs locators in order and returns the first non-empty
// result, or el when none matches.
func locateContainer(locators []ContainerLocator, el *goquery.Selection) *goquery.Selection {
	for _, loc := range locators {
		if c := loc.Locate(el); c != nil && c.Length() > 0 {
			return c.First()
		}
	}
	return el
}
