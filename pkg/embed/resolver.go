// Package embed converts third-party video links into addresses usable inside an iframe.
package embed

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// embedTemplate is the single canonical form for every recognized video link
const embedTemplate = "https://www.youtube-nocookie.com/embed/%s?rel=0&modestbranding=1&playsinline=1"

var videoIDRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Resolve returns an embeddable address for the given video url.
// Links are checked in priority order: watch link with "v" parameter, shorts path,
// embed path, short-link host. Anything unparseable or unrecognized is returned as is.
func Resolve(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return rawURL
	}

	host := strings.ToLower(u.Hostname())
	id := ""
	switch {
	case isPrimaryHost(host):
		id = primaryHostID(u)
	case isNoCookieHost(host):
		id = pathID(u.Path, "/embed/")
	case host == "youtu.be" || host == "www.youtu.be":
		id = firstSegment(u.Path)
	}

	if !videoIDRegex.MatchString(id) {
		return rawURL
	}
	return fmt.Sprintf(embedTemplate, id)
}

// primaryHostID extracts the video id from watch, shorts and embed links
func primaryHostID(u *url.URL) string {
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	if id := pathID(u.Path, "/shorts/"); id != "" {
		return id
	}
	return pathID(u.Path, "/embed/")
}

// pathID returns the trailing segment of a path starting with prefix
func pathID(p, prefix string) string {
	if !strings.HasPrefix(p, prefix) {
		return ""
	}
	rest := strings.Trim(strings.TrimPrefix(p, prefix), "/")
	if rest == "" {
		return ""
	}
	if idx := strings.LastIndex(rest, "/"); idx >= 0 {
		return rest[idx+1:]
	}
	return rest
}

func firstSegment(p string) string {
	seg, _, _ := strings.Cut(strings.TrimPrefix(p, "/"), "/")
	return seg
}

func isPrimaryHost(host string) bool {
	return host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

func isNoCookieHost(host string) bool {
	return host == "youtube-nocookie.com" || strings.HasSuffix(host, ".youtube-nocookie.com")
}
