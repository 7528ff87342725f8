// Package ioutils provides file system and image processing utilities.
//
// # File Operations
//
// Exports are written with WriteFile, which goes through a temporary file and
// a rename so an interrupted run never leaves a truncated artifact behind:
//
//	name := ioutils.TimestampedName("suno-export", "json", time.Now())
//	err := ioutils.WriteFile(filepath.Join(dir, name), data)
//
// # Filename Sanitization
//
//	safe := ioutils.SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//
// # Image Processing
//
// The ImageService shrinks cover art before it is embedded in audio files:
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, imageData, 500, 500)
package ioutils
