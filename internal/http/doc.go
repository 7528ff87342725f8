// Package http provides the HTTP client used to fetch public Suno pages,
// audio files and cover art.
//
// The Client sends a desktop browser User-Agent, bounds every request with a
// timeout and can report requests through a progress.Func:
//
//	client := http.NewClient(http.WithProgress(onProgress))
//	doc, err := client.GetDocument(ctx, "https://suno.com/playlist/...")
//
// Large downloads are streamed to disk through a ".part" file:
//
//	err := client.DownloadFile(ctx, song.AudioURL, path, nil)
package http
