package engine

import (
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/net/html"
)

// UserAgentBot identifies plain API-style requests.
const UserAgentBot = "GoYouTube/1.0"

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanHTML strips HTML tags and trims whitespace.
func CleanHTML(s string) string {
	return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, ""))
}

// CleanCaption turns one timedtext caption line into plain text.
// Caption XML is entity-encoded twice (&amp;#39;), so unescape until stable.
func CleanCaption(s string) string {
	for i := 0; i < 3; i++ {
		u := html.UnescapeString(s)
		if u == s {
			break
		}
		s = u
	}
	s = CleanHTML(s)
	return whitespaceRe.ReplaceAllString(s, " ")
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}
