package ioutils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the filename-safe rendering of an export time,
// truncated to whole seconds.
const TimestampLayout = "2006-01-02T15-04-05"

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots = regexp.MustCompile(`\.+$`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// WriteFile writes data to path atomically.
//
// The data goes to a temporary file in the same directory which is then
// renamed over path, so readers never observe a partially written file.
// The final file has mode 0644.
//
// Example:
//
//	err := WriteFile("/exports/suno-export-2024-03-01T12-00-00.csv", data)
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err = os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// SanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Surrounding whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2") // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")       // Returns "Track"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// TimestampedName builds "{prefix}-{timestamp}.{ext}" for an export taken at at.
//
// The timestamp is rendered in UTC with TimestampLayout, so two exports in
// different seconds never share a name. The prefix is sanitized; an empty
// prefix yields a name starting with the timestamp.
//
// Example:
//
//	TimestampedName("suno-export", "csv", t) // "suno-export-2024-03-01T12-00-00.csv"
func TimestampedName(prefix, ext string, at time.Time) string {
	stamp := at.UTC().Format(TimestampLayout)
	prefix = SanitizeFileName(prefix)
	if prefix == "" {
		return stamp + "." + ext
	}
	return prefix + "-" + stamp + "." + ext
}

// FileExists reports whether path names an existing regular file with content.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
