package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var dueInRe = regexp.MustCompile(`(?i)\bdue\s+in\s+(\d+)\s+days?\b`)

// DueHint returns a short deadline phrase such as "due in 3 days" or
// "due Feb 10", or "" when text names no deadline.
func (x *Extractor) DueHint(text string) string {
	if m := dueInRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if n == 1 {
				return "due in 1 day"
			}
			return fmt.Sprintf("due in %d days", n)
		}
	}
	for _, re := range []*regexp.Regexp{x.dueBy, x.deadline} {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		month, ok := x.lex.Month(m[1])
		day, err := strconv.Atoi(m[2])
		if !ok || err != nil || day < 1 || day > 31 {
			continue
		}
		return fmt.Sprintf("due %s %d", time.Month(month).String()[:3], day)
	}
	return ""
}
