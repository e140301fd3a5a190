package sources

import (
	"regexp"
	"strings"
)

// videoURLRE matches watch, embed, shorts, live and youtu.be URLs anchored at the
// start of the input. The first v parameter of a watch URL wins. The trailing
// group rejects ids longer than 11 characters.
var videoURLRE = regexp.MustCompile(
	`^(?:https?://)?(?:www\.|m\.)?` +
		`(?:youtube\.com/watch\?(?:[^#]*?&)??v=|youtube\.com/(?:embed|shorts|live)/|youtu\.be/)` +
		`([a-zA-Z0-9_-]{11})(?:[^a-zA-Z0-9_-]|$)`)

var bareVideoIDRE = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ExtractVideoID pulls the 11-char video ID from a YouTube URL or a bare ID.
// The boolean is false when input has neither shape.
func ExtractVideoID(input string) (string, bool) {
	s := strings.TrimSpace(input)
	if m := videoURLRE.FindStringSubmatch(s); len(m) >= 2 {
		return m[1], true
	}
	if bareVideoIDRE.MatchString(s) {
		return s, true
	}
	return "", false
}

// ExtractVideoIDs runs ExtractVideoID over every input, preserving order.
// The first unparseable input is returned as bad.
func ExtractVideoIDs(inputs []string) (ids []string, bad string, ok bool) {
	ids = make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, found := ExtractVideoID(in)
		if !found {
			return nil, in, false
		}
		ids = append(ids, id)
	}
	return ids, "", true
}
