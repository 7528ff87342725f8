// Package audio writes ID3 metadata into downloaded Suno MP3 files.
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	err := tagger.SaveTags("/music/suno/Night Drive.mp3", song, coverJPEG)
//
// Title, author, style tags, publication date, lyrics and the song page URL
// (as a comment) are written according to TagConfig. Cover art is embedded
// as a front cover picture.
package audio
