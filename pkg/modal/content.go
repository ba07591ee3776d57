package modal

import (
	"github.com/umputun/apodview/pkg/domain"
)

// ContentKind defines what the overlay body shows
type ContentKind string

const (
	ContentImage ContentKind = "image"
	ContentVideo ContentKind = "video"
	ContentNone  ContentKind = "none"
)

const noMediaMessage = "No media available."

// Content is the view model of the overlay body
type Content struct {
	Kind ContentKind

	// image
	ImageSrc string
	Alt      string

	// video
	EmbedSrc   string
	FrameTitle string
	OpenURL    string

	// no media
	Message string
}

// BuildContent picks the overlay body for a record. Images prefer the HD version,
// videos get an embeddable frame address from resolve plus the original link.
func BuildContent(rec domain.Record, resolve func(string) string) Content {
	switch {
	case rec.MediaType == domain.MediaImage && (rec.HDURL != "" || rec.URL != ""):
		src := rec.HDURL
		if src == "" {
			src = rec.URL
		}
		return Content{Kind: ContentImage, ImageSrc: src, Alt: rec.DisplayTitle("Astronomy Picture")}
	case rec.MediaType == domain.MediaVideo && rec.URL != "":
		return Content{
			Kind:       ContentVideo,
			EmbedSrc:   resolve(rec.URL),
			FrameTitle: rec.DisplayTitle("APOD video"),
			OpenURL:    rec.URL,
		}
	default:
		return Content{Kind: ContentNone, Message: noMediaMessage}
	}
}
