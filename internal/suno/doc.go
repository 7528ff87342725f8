// Package suno extracts song records from rendered Suno pages.
//
// Extraction is heuristic: Suno publishes no schema for its markup, so the
// Extractor tries several candidate selectors, derives each song's ID from
// an identifying attribute or a /song/{id} link, and fills the remaining
// fields through ordered fallback lookups inside the element and its
// metadata container. Missing fields stay empty.
//
// Server rendered pages also embed their initial clip list as JSON in a
// __NEXT_DATA__ script. When present it is read first, since it carries
// fields the markup does not (creation time, prompt, exact counters).
//
//	ex := suno.NewExtractor(suno.DefaultExtractConfig(), nil)
//	res := ex.Extract(doc)
//	fmt.Printf("%d songs, %d duplicates\n", len(res.Songs), res.Duplicates)
package suno
