// Package feed renders the filtered gallery view as an RSS 2.0 document.
package feed

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/umputun/apodview/pkg/domain"
	"github.com/umputun/apodview/pkg/gallery"
)

// Generator creates RSS feeds from records
type Generator struct {
	baseURL string
	now     func() time.Time
}

// NewGenerator creates a new feed generator, baseURL is used for channel and self links
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// GenerateRSS creates an RSS 2.0 feed from records, already filtered and sorted by the caller
func (g *Generator) GenerateRSS(records []domain.Record, rng gallery.Range) (string, error) {
	title := "APOD Gallery"
	if !rng.IsZero() {
		title = fmt.Sprintf("APOD Gallery (%s – %s)", orAny(rng.Start), orAny(rng.End))
	}

	selfLink := g.baseURL + "/rss"
	if q := rangeQuery(rng); q != "" {
		selfLink += "?" + q
	}

	rssItems := make([]*RSSItem, 0, len(records))
	for _, rec := range records {
		rssItems = append(rssItems, g.convertToRSSItem(rec))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Astronomy Picture of the Day, newest first",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: g.now().UTC().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) convertToRSSItem(rec domain.Record) *RSSItem {
	item := &RSSItem{
		Title:       rec.DisplayTitle("Untitled"),
		Description: rec.Explanation,
		Category:    string(rec.MediaType),
		GUID:        &RSSGUID{Value: "apod-" + rec.Date},
	}
	if rec.Date == "" {
		item.GUID.Value = "apod-" + rec.URL
	}
	if t, ok := gallery.ParseDate(rec.Date); ok {
		item.PubDate = t.Format(time.RFC1123Z)
	}

	switch rec.MediaType {
	case domain.MediaImage:
		link := rec.HDURL
		if link == "" {
			link = rec.URL
		}
		item.Link = link
		if rec.URL != "" {
			item.Enclosure = &RSSEnclosure{URL: rec.URL, Type: imageMIME(rec.URL)}
		}
	case domain.MediaVideo:
		item.Link = rec.URL
		if rec.ThumbnailURL != "" {
			item.Enclosure = &RSSEnclosure{URL: rec.ThumbnailURL, Type: imageMIME(rec.ThumbnailURL)}
		}
	default:
		item.Link = rec.URL
	}
	return item
}

func orAny(s string) string {
	if s == "" {
		return "…"
	}
	return s
}

func rangeQuery(rng gallery.Range) string {
	v := url.Values{}
	if rng.Start != "" {
		v.Set("start", rng.Start)
	}
	if rng.End != "" {
		v.Set("end", rng.End)
	}
	return v.Encode()
}

// imageMIME guesses enclosure type by extension, jpeg for anything unknown
func imageMIME(u string) string {
	p := u
	if parsed, err := url.Parse(u); err == nil {
		p = parsed.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
