package domain

// MediaType represents the kind of media a record points to
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaOther MediaType = "other"
)

// ParseMediaType maps raw feed values to a known media type, unknown values become MediaOther
func ParseMediaType(s string) MediaType {
	switch MediaType(s) {
	case MediaImage:
		return MediaImage
	case MediaVideo:
		return MediaVideo
	default:
		return MediaOther
	}
}

// Record represents one daily astronomy picture entry
type Record struct {
	Title        string
	Date         string
	MediaType    MediaType
	URL          string
	HDURL        string
	ThumbnailURL string
	Explanation  string
}

// HasViewableMedia reports whether the record has at least one media reference to show
func (r Record) HasViewableMedia() bool {
	return r.URL != "" || r.HDURL != "" || r.ThumbnailURL != ""
}

// DisplayTitle returns the title or the given fallback when the title is empty
func (r Record) DisplayTitle(fallback string) string {
	if r.Title == "" {
		return fallback
	}
	return r.Title
}
