package rank

import "time"

// Scorer rates how strongly a message looks like part of a hiring process.
type Scorer interface {
	Score(text, sender string, now time.Time) (score int, tags []string)
	Explain(text, sender string, now time.Time) Breakdown
}

const (
	// VetoScore is returned when a veto term is present. No combination of
	// positive signals can bring it back above any sane threshold.
	VetoScore = -100

	DefaultMinScore = 2
)

// Signal is one contribution to a score.
type Signal struct {
	Tag    string `json:"tag"`
	Weight int    `json:"weight"`
	Term   string `json:"term,omitempty"`
}

// Breakdown is a score with the evidence behind it. Link and Start are kept so
// callers do not have to extract them a second time.
type Breakdown struct {
	Score    int        `json:"score"`
	Vetoed   bool       `json:"vetoed"`
	VetoTerm string     `json:"veto_term,omitempty"`
	ATS      bool       `json:"ats"`
	Provider bool       `json:"provider"`
	Link     string     `json:"meeting_link,omitempty"`
	Start    *time.Time `json:"-"`
	Signals  []Signal   `json:"signals,omitempty"`
}

// Passes reports whether the score reaches min.
func (b Breakdown) Passes(min int) bool { return !b.Vetoed && b.Score >= min }

// Tags lists the tags of every positive contribution.
func (b Breakdown) Tags() []string {
	var tags []string
	for _, s := range b.Signals {
		if s.Weight > 0 {
			tags = append(tags, s.Tag)
		}
	}
	return uniq(tags)
}

func uniq(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
