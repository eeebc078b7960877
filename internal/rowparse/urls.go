package rowparse

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	youtubeIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtu\.be/([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	}
	niconicoIDPattern   = regexp.MustCompile(`/watch/([a-z]{2}[0-9]+)`)
	niconicoBarePattern = regexp.MustCompile(`^[a-z]{2}[0-9]+$`)
	bilibiliAVPattern   = regexp.MustCompile(`/video/av([0-9]+)`)
	bilibiliBVPattern   = regexp.MustCompile(`/video/(BV[a-zA-Z0-9]+)`)
)

// CanonicalURL standardizes known video links so the same video always
// yields the same dedup key:
//
//	YouTube  -> https://www.youtube.com/watch?v=ID
//	NicoNico -> https://www.nicovideo.jp/watch/ID (bare sm/nm ids accepted)
//	Bilibili -> https://www.bilibili.com/video/avN or /BVxxxx, keeping only
//	            the multi-part "p" query parameter
//
// Unrecognized URLs pass through with surrounding whitespace trimmed.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	switch {
	case strings.Contains(raw, "youtube.com"), strings.Contains(raw, "youtu.be"):
		return canonicalYouTube(raw)
	case strings.Contains(raw, "nicovideo.jp"), niconicoBarePattern.MatchString(raw):
		return canonicalNiconico(raw)
	case strings.Contains(raw, "bilibili.com"):
		return canonicalBilibili(raw)
	default:
		return raw
	}
}

func canonicalYouTube(raw string) string {
	for _, pattern := range youtubeIDPatterns {
		if match := pattern.FindStringSubmatch(raw); match != nil {
			return "https://www.youtube.com/watch?v=" + match[1]
		}
	}
	return raw
}

func canonicalNiconico(raw string) string {
	if !strings.HasPrefix(raw, "http") {
		if niconicoBarePattern.MatchString(raw) {
			return "https://www.nicovideo.jp/watch/" + raw
		}
		return raw
	}
	if match := niconicoIDPattern.FindStringSubmatch(raw); match != nil {
		return "https://www.nicovideo.jp/watch/" + match[1]
	}
	return raw
}

func canonicalBilibili(raw string) string {
	// Keep the page selector for multi-part videos, drop everything else.
	page := ""
	if parsed, err := url.Parse(raw); err == nil {
		page = parsed.Query().Get("p")
	}

	base := strings.TrimRight(strings.SplitN(raw, "?", 2)[0], "/")

	canonical := ""
	if match := bilibiliAVPattern.FindStringSubmatch(base); match != nil {
		canonical = "https://www.bilibili.com/video/av" + match[1]
	} else if match := bilibiliBVPattern.FindStringSubmatch(base); match != nil {
		canonical = "https://www.bilibili.com/video/" + match[1]
	} else {
		return raw
	}

	if page != "" && page != "1" {
		canonical += "?p=" + page
	}
	return canonical
}
