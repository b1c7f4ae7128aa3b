package lexicon

import (
	"fmt"
	"regexp"
	"strings"
)

// RegexPrefix marks a term as a regular expression instead of a substring.
const RegexPrefix = "re:"

type matcher struct {
	term string
	sub  string
	re   *regexp.Regexp
}

func (m matcher) match(lower string) bool {
	if m.re != nil {
		return m.re.MatchString(lower)
	}
	return strings.Contains(lower, m.sub)
}

// Set is a compiled list of terms matched case-insensitively.
// The zero Set matches nothing.
type Set struct {
	ms []matcher
}

func compileSet(name string, terms []string) (Set, error) {
	var s Set
	for i, t := range terms {
		m, err := compileTerm(t)
		if err != nil {
			return Set{}, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		s.ms = append(s.ms, m)
	}
	return s, nil
}

func compileTerm(t string) (matcher, error) {
	t = strings.TrimSpace(t)
	if t == "" {
		return matcher{}, fmt.Errorf("empty term")
	}
	if expr, ok := strings.CutPrefix(t, RegexPrefix); ok {
		re, err := regexp.Compile("(?i)" + expr)
		if err != nil {
			return matcher{}, fmt.Errorf("term %q: %w", t, err)
		}
		return matcher{term: t, re: re}, nil
	}
	return matcher{term: t, sub: strings.ToLower(t)}, nil
}

func (s Set) Len() int { return len(s.ms) }

// Any reports whether at least one term occurs in text.
func (s Set) Any(text string) bool {
	_, ok := s.First(text)
	return ok
}

// First returns the first term, in list order, that occurs in text.
func (s Set) First(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, m := range s.ms {
		if m.match(lower) {
			return m.term, true
		}
	}
	return "", false
}

// Count returns how many distinct terms occur in text.
func (s Set) Count(text string) int {
	lower := strings.ToLower(text)
	n := 0
	for _, m := range s.ms {
		if m.match(lower) {
			n++
		}
	}
	return n
}

// Terms returns the source terms in list order.
func (s Set) Terms() []string {
	out := make([]string, len(s.ms))
	for i, m := range s.ms {
		out[i] = m.term
	}
	return out
}
