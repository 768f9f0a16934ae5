// Package streamlink recognises YouTube links and derives the embeddable
// player URL for them.
package streamlink

import (
	"net/url"
	"regexp"
	"strings"
)

// PlatformYouTube is the only platform the marketplace streams on.
const PlatformYouTube = "youtube"

var videoPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&?/]+)`)

// ParseYouTube extracts the video id from a watch or youtu.be link.
func ParseYouTube(raw string) (string, bool) {
	match := videoPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if len(match) < 2 || match[1] == "" {
		return "", false
	}
	return match[1], true
}

// EmbedURL returns the autoplaying embed player URL for a video id.
func EmbedURL(videoID string) string {
	return "https://www.youtube.com/embed/" + url.PathEscape(videoID) + "?autoplay=1"
}

// Link is a validated stream link.
type Link struct {
	VideoID  string
	WatchURL string
	EmbedURL string
}

// Parse validates raw and returns its watch and embed URLs.
func Parse(raw string) (Link, bool) {
	id, ok := ParseYouTube(raw)
	if !ok {
		return Link{}, false
	}
	return Link{VideoID: id, WatchURL: strings.TrimSpace(raw), EmbedURL: EmbedURL(id)}, true
}
