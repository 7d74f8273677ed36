// Package media defines the content data model: the five content
// categories, press and video records, and the single ContentDocument
// that persistence reads and writes as one JSON blob.
package media

import "fmt"

// Category identifies one of the five content partitions. The zero
// value is CategoryPress.
type Category int

const (
	// CategoryPress holds written press articles.
	CategoryPress Category = iota
	// CategoryAudioVisual holds general audio-visual videos.
	CategoryAudioVisual
	// CategoryEmission holds broadcast emissions.
	CategoryEmission
	// CategorySpot holds advertising spots.
	CategorySpot
	// CategoryNoComment holds commentary-free footage.
	CategoryNoComment
)

// Categories lists all categories in document order.
func Categories() []Category {
	return []Category{CategoryPress, CategoryAudioVisual, CategoryEmission, CategorySpot, CategoryNoComment}
}

// Token returns the short name used in record IDs and API routes.
func (c Category) Token() string {
	switch c {
	case CategoryPress:
		return "press"
	case CategoryAudioVisual:
		return "audiovisuel"
	case CategoryEmission:
		return "emission"
	case CategorySpot:
		return "spot"
	case CategoryNoComment:
		return "nocomment"
	default:
		return "unknown"
	}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return c.Token()
}

// IsVideo reports whether the category holds video records. Press is
// the only category holding articles.
func (c Category) IsVideo() bool {
	return c != CategoryPress
}

// ParseCategory resolves a route or form token to a Category. The
// aliases match what the admin dashboard historically sent.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "press", "presse":
		return CategoryPress, nil
	case "audiovisuel", "audio", "audio-visuel":
		return CategoryAudioVisual, nil
	case "emission", "emissions":
		return CategoryEmission, nil
	case "spot", "spots":
		return CategorySpot, nil
	case "nocomment", "no-comment":
		return CategoryNoComment, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}
