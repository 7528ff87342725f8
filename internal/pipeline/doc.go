// Package pipeline ties the packages together into one export run.
//
// A Source produces documents: LiveSource scrolls the page in Chrome,
// FileSource reads saved HTML and FetchSource downloads the server-rendered
// page. Runner extracts songs from the documents, writes the export files and
// optionally downloads the audio:
//
//	runner := pipeline.NewRunner(settings, progress.SlogFunc(logger))
//	res, err := runner.Run(ctx, &pipeline.LiveSource{
//	    Browser: settings.ToBrowserOptions(),
//	    Scroll:  settings.ToScrollConfig(),
//	})
//	if errors.Is(err, pipeline.ErrNoSongs) {
//	    // nothing was written
//	}
package pipeline
