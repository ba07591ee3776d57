package gallery

import (
	"fmt"
	"strings"

	"github.com/umputun/apodview/pkg/domain"
)

// ThumbKind defines how a card preview is shown
type ThumbKind string

const (
	ThumbImage     ThumbKind = "image"
	ThumbVideo     ThumbKind = "video"
	ThumbNoPreview ThumbKind = "none"
)

const (
	videoPlaceholder     = "▶ Video"
	noPreviewPlaceholder = "No preview"
	displayDateLayout    = "Jan 02, 2006"
)

// ActivationKeys are the keys which open a focused card, same as a pointer click
var ActivationKeys = []string{"Enter", " "}

// Thumbnail is the preview part of a card
type Thumbnail struct {
	Kind        ThumbKind
	Src         string
	Alt         string
	Placeholder string
}

// Card is the view model of a single gallery entry. View and Index address the
// record inside the client view the card was rendered from.
type Card struct {
	View        uint64
	Index       int
	Title       string
	Date        string
	DisplayDate string
	Label       string
	Thumb       Thumbnail
}

// BuildCards maps records of the given view to card view models, one card per record in the same order
func BuildCards(view uint64, list []domain.Record) []Card {
	cards := make([]Card, 0, len(list))
	for i, rec := range list {
		cards = append(cards, Card{
			View:        view,
			Index:       i,
			Title:       rec.DisplayTitle("Untitled"),
			Date:        rec.Date,
			DisplayDate: FormatDate(rec.Date),
			Label:       fmt.Sprintf("%s (%s) – open details", rec.DisplayTitle("APOD"), rec.Date),
			Thumb:       thumbnail(rec),
		})
	}
	return cards
}

// thumbnail picks a light preview: standard image first, video thumbnail, then placeholders
func thumbnail(rec domain.Record) Thumbnail {
	switch rec.MediaType {
	case domain.MediaImage:
		src := rec.URL
		if src == "" {
			src = rec.HDURL
		}
		if src != "" {
			return Thumbnail{Kind: ThumbImage, Src: src, Alt: rec.DisplayTitle("Astronomy Picture")}
		}
	case domain.MediaVideo:
		if rec.ThumbnailURL != "" {
			return Thumbnail{Kind: ThumbImage, Src: rec.ThumbnailURL, Alt: rec.DisplayTitle("APOD video") + " (thumbnail)"}
		}
		return Thumbnail{Kind: ThumbVideo, Placeholder: videoPlaceholder}
	}
	return Thumbnail{Kind: ThumbNoPreview, Placeholder: noPreviewPlaceholder}
}

// FormatDate renders date text as "Jan 02, 2006", unparseable text is returned as is
func FormatDate(s string) string {
	d, ok := ParseDate(s)
	if !ok {
		return s
	}
	return d.Format(displayDateLayout)
}

// ActivationTrigger returns the htmx trigger expression for a card: click plus every activation key
func ActivationTrigger() string {
	conds := make([]string, 0, len(ActivationKeys))
	for _, k := range ActivationKeys {
		conds = append(conds, fmt.Sprintf("key=='%s'", k))
	}
	return "click, keydown[" + strings.Join(conds, "||") + "]"
}

// ActivationKeyGuard returns the keydown handler which stops activation keys from scrolling the page
func ActivationKeyGuard() string {
	keys := make([]string, 0, len(ActivationKeys))
	for _, k := range ActivationKeys {
		keys = append(keys, fmt.Sprintf("'%s'", k))
	}
	return "if([" + strings.Join(keys, ",") + "].includes(event.key))event.preventDefault()"
}
