package model

import "time"

// MediaKind groups media files by how they are organized on disk.
type MediaKind string

const (
	// MediaAudio covers practice recordings and class audio.
	MediaAudio MediaKind = "audio"
	// MediaVideo covers class and performance videos.
	MediaVideo MediaKind = "video"
	// MediaPhoto covers pictures.
	MediaPhoto MediaKind = "photos"
)

// MediaFile describes one media attachment pulled out of an export archive.
type MediaFile struct {
	Taken        time.Time // zero when the archive filename carried no timestamp
	OriginalName string
	NewName      string
	Kind         MediaKind
	Context      string // label inferred from nearby teacher messages, if any
}
