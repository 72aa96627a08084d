package snapshot

import (
	"time"

	"media-catalog/internal/mediatypes"
	"media-catalog/internal/tags"
)

// SchemaVersion is the version written into every persisted snapshot.
// A cache carrying any other version is rebuilt.
const SchemaVersion = "1.0.0"

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type MediaRecord struct {
	ID            string               `json:"id"`
	RelativePath  string               `json:"relativePath"`
	MediaType     mediatypes.MediaType `json:"mediaType"`
	Tags          []tags.Tag           `json:"tags"`
	Attributes    map[string]string    `json:"attributes"`
	Filesize      int64                `json:"filesize"`
	Dimensions    *Dimensions          `json:"dimensions,omitempty"`
	DurationMs    *int64               `json:"durationMs,omitempty"`
	ThumbnailPath string               `json:"thumbnailPath,omitempty"`
	Hash          string               `json:"hash,omitempty"`
	IndexedAt     time.Time            `json:"indexedAt"`
}

// Snapshot is an immutable generation of the catalog. Callers must not
// modify Media after the snapshot has been handed to the catalog.
type Snapshot struct {
	Version     string        `json:"version"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Media       []MediaRecord `json:"media"`
}

// Empty returns a snapshot with no records and the current schema version.
func Empty() *Snapshot {
	return &Snapshot{Version: SchemaVersion, Media: []MediaRecord{}}
}

// Len returns the number of records, tolerating a nil snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Media)
}
