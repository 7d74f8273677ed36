package media

import "time"

// DocumentVersion tags documents written by this implementation.
const DocumentVersion = "1.0"

// DefaultVideosPerPage is the page size applied to fresh documents.
const DefaultVideosPerPage = 3

// PressRecord is a single written press article.
type PressRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Image        string `json:"image"`
	DateAdded    string `json:"dateAdded"`
	LastModified string `json:"lastModified"`
}

// VideoRecord is a single video entry. The same shape is reused by the
// four video categories. URL is always a normalized embeddable URL.
type VideoRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	DateAdded    string `json:"dateAdded"`
	LastModified string `json:"lastModified"`
}

// Settings holds presentation settings persisted with the document.
type Settings struct {
	VideosPerPage int `json:"videosPerPage"`
}

// Metadata carries document lifecycle timestamps (RFC3339) and a
// version tag.
type Metadata struct {
	Created     string `json:"created"`
	LastUpdated string `json:"lastUpdated"`
	Version     string `json:"version"`
}

// ContentDocument is the whole-of-state persisted unit. Field names
// follow the wire format consumed by the site; sequence order is
// significant and user-editable.
type ContentDocument struct {
	PressData     []PressRecord `json:"pressData"`
	AudioVisual   []VideoRecord `json:"audioVisuelData"`
	EmissionData  []VideoRecord `json:"emissionData"`
	SpotData      []VideoRecord `json:"spotData"`
	NoCommentData []VideoRecord `json:"nocommentData"`
	Settings      Settings      `json:"settings"`
	Metadata      Metadata      `json:"metadata"`
}

// NowISO formats the current UTC time the way the document stores
// timestamps.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DefaultDocument builds the empty, fully populated document used on
// first run and after a clear.
func DefaultDocument() *ContentDocument {
	now := NowISO()
	return &ContentDocument{
		PressData:     []PressRecord{},
		AudioVisual:   []VideoRecord{},
		EmissionData:  []VideoRecord{},
		SpotData:      []VideoRecord{},
		NoCommentData: []VideoRecord{},
		Settings:      Settings{VideosPerPage: DefaultVideosPerPage},
		Metadata: Metadata{
			Created:     now,
			LastUpdated: now,
			Version:     DocumentVersion,
		},
	}
}

// Normalize fills in anything a decoded document may be missing, so
// that every category is present and non-nil and settings/metadata are
// populated. Documents written by older site revisions omit settings
// and sometimes whole categories.
func (d *ContentDocument) Normalize() {
	if d.PressData == nil {
		d.PressData = []PressRecord{}
	}
	if d.AudioVisual == nil {
		d.AudioVisual = []VideoRecord{}
	}
	if d.EmissionData == nil {
		d.EmissionData = []VideoRecord{}
	}
	if d.SpotData == nil {
		d.SpotData = []VideoRecord{}
	}
	if d.NoCommentData == nil {
		d.NoCommentData = []VideoRecord{}
	}
	if d.Settings.VideosPerPage <= 0 {
		d.Settings.VideosPerPage = DefaultVideosPerPage
	}
	if d.Metadata.Version == "" {
		d.Metadata.Version = DocumentVersion
	}
	if d.Metadata.Created == "" {
		d.Metadata.Created = NowISO()
	}
	if d.Metadata.LastUpdated == "" {
		d.Metadata.LastUpdated = d.Metadata.Created
	}
}

// Clone returns a deep copy of the document.
func (d *ContentDocument) Clone() *ContentDocument {
	c := *d
	c.PressData = append([]PressRecord{}, d.PressData...)
	c.AudioVisual = append([]VideoRecord{}, d.AudioVisual...)
	c.EmissionData = append([]VideoRecord{}, d.EmissionData...)
	c.SpotData = append([]VideoRecord{}, d.SpotData...)
	c.NoCommentData = append([]VideoRecord{}, d.NoCommentData...)
	return &c
}

// Videos returns the video sequence for a video category. Callers must
// not pass CategoryPress.
func (d *ContentDocument) Videos(c Category) []VideoRecord {
	switch c {
	case CategoryAudioVisual:
		return d.AudioVisual
	case CategoryEmission:
		return d.EmissionData
	case CategorySpot:
		return d.SpotData
	case CategoryNoComment:
		return d.NoCommentData
	default:
		return nil
	}
}

// SetVideos replaces the video sequence for a video category.
func (d *ContentDocument) SetVideos(c Category, v []VideoRecord) {
	switch c {
	case CategoryAudioVisual:
		d.AudioVisual = v
	case CategoryEmission:
		d.EmissionData = v
	case CategorySpot:
		d.SpotData = v
	case CategoryNoComment:
		d.NoCommentData = v
	}
}

// Count returns the number of records in a category.
func (d *ContentDocument) Count(c Category) int {
	if c == CategoryPress {
		return len(d.PressData)
	}
	return len(d.Videos(c))
}
