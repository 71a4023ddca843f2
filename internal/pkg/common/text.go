package common

import (
	"html"
	"net/url"
	"regexp"
	"strings"
)

var (
	hashtagPattern    = regexp.MustCompile(`#[^\s#]+`)
	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
	firstURLPattern   = regexp.MustCompile(`(?i)https?://[^\s)]+`)
	slugStripPattern  = regexp.MustCompile(`[^\w\s\-\x{ac00}-\x{d7a3}]+`)
	slugSpacePattern  = regexp.MustCompile(`[\s_]+`)
)

// StripHashtags removes #tags and collapses the whitespace they leave behind.
func StripHashtags(value string) string {
	cleaned := hashtagPattern.ReplaceAllString(value, "")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// SanitizeTitle normalizes a video or recipe title for display: HTML entities
// decoded, hashtags dropped.
func SanitizeTitle(value string) string {
	return StripHashtags(html.UnescapeString(value))
}

// ExtractFirstURL returns the first http(s) URL in text, with trailing
// punctuation trimmed, or "" when none is present.
func ExtractFirstURL(text string) string {
	match := firstURLPattern.FindString(text)
	if match == "" {
		return ""
	}
	return strings.TrimRight(match, "),.")
}

// HostFromURL returns the hostname without a leading "www.".
func HostFromURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}

var youtubeHosts = map[string]bool{
	"www.youtube.com": true,
	"youtube.com":     true,
	"m.youtube.com":   true,
	"youtu.be":        true,
}

// YouTubeID extracts the video id from a YouTube watch, share, or shorts URL.
// Returns "" for non-YouTube URLs.
func YouTubeID(raw string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || !youtubeHosts[parsed.Hostname()] {
		return ""
	}
	if parsed.Hostname() == "youtu.be" {
		return strings.TrimPrefix(parsed.Path, "/")
	}
	if v := parsed.Query().Get("v"); v != "" {
		return v
	}
	if rest, ok := strings.CutPrefix(parsed.Path, "/shorts/"); ok {
		if idx := strings.Index(rest, "/"); idx != -1 {
			rest = rest[:idx]
		}
		return rest
	}
	return ""
}

// YouTubeThumbnail returns the maxres thumbnail URL for a YouTube source URL,
// or "" when the URL is not a YouTube video.
func YouTubeThumbnail(sourceURL string) string {
	id := YouTubeID(sourceURL)
	if id == "" {
		return ""
	}
	return "https://i.ytimg.com/vi/" + id + "/maxresdefault.jpg"
}

// Slugify lowercases text and reduces it to a hyphen-separated identifier,
// keeping hangul. Falls back to "recipe" for empty results.
func Slugify(text string) string {
	const maxLen = 60
	cleaned := strings.ToLower(strings.TrimSpace(text))
	cleaned = slugStripPattern.ReplaceAllString(cleaned, "")
	cleaned = slugSpacePattern.ReplaceAllString(cleaned, "-")
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		return "recipe"
	}
	if len(cleaned) > maxLen {
		cleaned = cleaned[:maxLen]
	}
	return cleaned
}

// FirstNonEmpty returns the first non-empty string of its arguments.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// HasHangul reports whether the string contains Korean characters.
func HasHangul(s string) bool {
	for _, r := range s {
		if (r >= 0x3131 && r <= 0x314E) || (r >= 0xAC00 && r <= 0xD7A3) {
			return true
		}
	}
	return false
}
