// Package model defines the core data structures used throughout
// suno-exporter.
//
// # Song
//
// Song is the only entity: one record per unique song ID found on a page.
// Derived URLs come from the ID, never from the page:
//
//	song := model.NewSong(id, "Night Drive", time.Now())
//	fmt.Println(song.URL)      // https://suno.com/song/{id}
//	fmt.Println(song.AudioURL) // https://cdn1.suno.ai/{id}.mp3
//
// # Identifiers
//
// ParseSongID pulls the canonical 36 character identifier out of song links,
// CDN audio URLs or bare tokens:
//
//	id, ok := model.ParseSongID("/song/0b7c6a1e-3f9d-4c55-9b7e-1d2a3c4b5e6f")
//
// # Path Configuration
//
// PathConfig controls where downloaded audio is written:
//
//	cfg := &model.PathConfig{
//	    AudioDir:            "/music/suno",
//	    AudioFileNameFormat: "{title} [{shortid}].mp3",
//	}
//	path := song.AudioPath(cfg)
//
// Available placeholders: {title}, {author}, {id}, {shortid}
package model
