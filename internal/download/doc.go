// Package download fetches the audio of exported songs.
//
// # Manager
//
// The Manager works through a song list:
//
//  1. Compute each song's file path from the audio file name format
//  2. Skip songs whose file already exists
//  3. Download cover art and scale it down for embedding
//  4. Download audio concurrently
//  5. Tag MP3 files with ID3 metadata
//  6. Write a local playlist (optional)
//
// # Basic Usage
//
//	manager := download.NewManager(settings, progress.SlogFunc(logger))
//
//	res, err := manager.Download(ctx, songs)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d downloaded, %d failed\n", res.Downloaded, res.Failed)
//
// A failed song is reported through the progress callback and skipped.
// Downloads are not retried.
package download
