package extract

import "strings"

// MeetingLink returns the first video-call URL found, trying patterns in
// lexicon order.
func (x *Extractor) MeetingLink(text string) (string, bool) {
	for _, re := range x.lex.MeetingLinks {
		if u := re.FindString(text); u != "" {
			u = strings.TrimRight(u, ".,);:]\"'>")
			return u, true
		}
	}
	return "", false
}
