// Package config provides configuration management for suno-exporter.
//
// This package handles:
//   - Loading settings from JSON5 files with local overrides
//   - Default configuration values
//   - Conversion to the configuration types of the other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Exports csv, json and txt into the working directory
//	// Scrolls every 2s, at most 500 times, until 5 unchanged polls
//	// Audio download disabled
//
// # Loading from File
//
//	settings, err := config.Load("suno-export.json5")
//	// Uses defaults if the file doesn't exist
//
// Comments and trailing commas are allowed. Values in
// "suno-export.local.json5" take precedence over the main file, which keeps
// machine specific settings such as remote_url out of a shared config.
//
// # Saving Settings
//
//	settings.OutputDir = "/exports"
//	err := settings.Save("suno-export.json5")
//
// # Configuration Options
//
// Settings includes options for:
//   - Page URL, output directory, file prefix and formats
//   - Scroll delay, maximum scrolls and stagnation threshold
//   - Browser mode (headless, remote DevTools URL, user agent)
//   - Extraction selectors and title policy
//   - Audio download, tagging and playlist creation
package config
