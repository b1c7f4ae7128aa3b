// Package extract pulls individual fields out of email text. Every function
// is total: malformed input yields an empty or absent result, never an error.
package extract

import (
	"regexp"
	"strings"
	"time"

	"interview-engine/internal/lexicon"
)

// DefaultWindow is how far in the past an extracted start time may lie.
const DefaultWindow = 180 * 24 * time.Hour

// Extractor binds the field extractors to one lexicon. Safe for concurrent use.
type Extractor struct {
	lex    *lexicon.Lexicon
	window time.Duration

	monthTime   *regexp.Regexp
	numericTime *regexp.Regexp
	dueBy       *regexp.Regexp
	deadline    *regexp.Regexp
}

// New compiles the date patterns for lx. A window <= 0 means DefaultWindow.
func New(lx *lexicon.Lexicon, window time.Duration) *Extractor {
	if window <= 0 {
		window = DefaultWindow
	}
	months := lx.MonthPattern()
	return &Extractor{
		lex:         lx,
		window:      window,
		monthTime:   regexp.MustCompile(`(?is)\b(` + months + `)\b\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b.*?` + timeExpr),
		numericTime: regexp.MustCompile(`(?is)\b(\d{1,2})/(\d{1,2})\b.*?` + timeExpr),
		dueBy:       regexp.MustCompile(`(?i)\bdue\s+(?:by|on)\s+(` + months + `)\b\.?\s+(\d{1,2})\b`),
		deadline:    regexp.MustCompile(`(?i)\bdeadline[:\s]+(` + months + `)\b\.?\s+(\d{1,2})\b`),
	}
}

func (x *Extractor) Lexicon() *lexicon.Lexicon { return x.lex }
func (x *Extractor) Window() time.Duration     { return x.window }

const timeExpr = `\b(\d{1,2}):(\d{2})\s*([ap])\.?m\b`

var addrRe = regexp.MustCompile(`@([A-Za-z0-9.-]+\.[A-Za-z]{2,})`)

// SenderDomain returns the lower-cased domain of the first address in sender,
// or "" when there is none.
func SenderDomain(sender string) string {
	m := addrRe.FindStringSubmatch(sender)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}
