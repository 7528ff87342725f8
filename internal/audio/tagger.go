package audio

import (
	"fmt"
	"strings"
	"time"

	"github.com/bogem/id3v2"
	"github.com/handiism/suno-exporter/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the song's value.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
//
//	cfg := &TagConfig{
//	    ModifyTags: true,
//	    Album:      "Suno",
//	    Title:      TagModify,
//	    Artist:     TagModify,
//	    Genre:      TagModify,      // style tags, comma separated
//	    Lyrics:     TagDoNotModify, // keep whatever the file had
//	}
type TagConfig struct {
	// ModifyTags is a master switch. If false, no text frames are modified.
	ModifyTags bool

	// Album is written to TALB when non-empty.
	Album string

	// Title controls the TIT2 frame.
	Title TagEditAction

	// Artist controls the TPE1 frame (song author).
	Artist TagEditAction

	// Genre controls the TCON frame (style tags).
	Genre TagEditAction

	// Date controls the TYER and TDRC frames (publication date).
	Date TagEditAction

	// Lyrics controls the USLT frame.
	Lyrics TagEditAction

	// Comment controls the COMM frame (song page URL).
	Comment TagEditAction
}

// DefaultTagConfig modifies every frame and sets the album to "Suno".
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		Album:      "Suno",
		Title:      TagModify,
		Artist:     TagModify,
		Genre:      TagModify,
		Date:       TagModify,
		Lyrics:     TagModify,
		Comment:    TagModify,
	}
}

// Tagger writes ID3 tags to downloaded MP3 files.
//
//	tagger := NewTagger(DefaultTagConfig())
//	err := tagger.SaveTags(path, song, coverJPEG)
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger. If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes song metadata and, when artwork is non-nil, a front cover
// into the MP3 file at path. The file must exist.
func (t *Tagger) SaveTags(path string, song model.Song, artwork []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tags of %s: %w", path, err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	if t.config.ModifyTags {
		t.updateTextFrames(tag, song)
	}
	if artwork != nil {
		updateArtwork(tag, artwork)
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags of %s: %w", path, err)
	}
	return nil
}

func (t *Tagger) updateTextFrames(tag *id3v2.Tag, song model.Song) {
	if t.config.Album != "" {
		tag.SetAlbum(t.config.Album)
	}

	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(song.Title)
	}

	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		tag.SetArtist(song.Author)
	}

	switch t.config.Genre {
	case TagEmpty:
		tag.SetGenre("")
	case TagModify:
		tag.SetGenre(strings.Join(song.Tags, ", "))
	}

	switch t.config.Date {
	case TagEmpty:
		tag.DeleteFrames("TYER")
		tag.DeleteFrames("TDRC")
	case TagModify:
		if published, err := time.Parse(time.RFC3339, song.Published); err == nil {
			tag.AddTextFrame("TYER", id3v2.EncodingUTF8, published.Format("2006"))
			tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, published.Format("2006-01-02"))
		}
	}

	lyricsID := tag.CommonID("Unsynchronised lyrics/text transcription")
	switch t.config.Lyrics {
	case TagEmpty:
		tag.DeleteFrames(lyricsID)
	case TagModify:
		if song.Lyrics != "" {
			tag.DeleteFrames(lyricsID)
			tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
				Encoding: id3v2.EncodingUTF8,
				Language: "eng",
				Lyrics:   song.Lyrics,
			})
		}
	}

	commentID := tag.CommonID("Comments")
	switch t.config.Comment {
	case TagEmpty:
		tag.DeleteFrames(commentID)
	case TagModify:
		tag.DeleteFrames(commentID)
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding: id3v2.EncodingUTF8,
			Language: "eng",
			Text:     song.URL,
		})
	}
}

// updateArtwork replaces any attached pictures with a JPEG front cover.
func updateArtwork(tag *id3v2.Tag, artwork []byte) {
	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     artwork,
	})
}
