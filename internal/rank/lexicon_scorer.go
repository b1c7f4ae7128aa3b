package rank

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"

	"interview-engine/internal/extract"
)

type Weights struct {
	ATS      int `yaml:"ats" json:"ats"`
	Provider int `yaml:"provider" json:"provider"`
	Role     int `yaml:"role" json:"role"`
	Link     int `yaml:"link" json:"link"`
	DateTime int `yaml:"datetime" json:"datetime"`
	// PhrasesPerPoint recruiting phrases are worth one point.
	PhrasesPerPoint int `yaml:"phrases_per_point" json:"phrases_per_point"`
}

var DefaultWeights = Weights{
	ATS:             4,
	Provider:        4,
	Role:            1,
	Link:            3,
	DateTime:        3,
	PhrasesPerPoint: 2,
}

// UnmarshalYAML starts from DefaultWeights, so keys left out of a partial
// override keep their default.
func (w *Weights) UnmarshalYAML(n *yaml.Node) error {
	type plain Weights
	p := plain(DefaultWeights)
	if err := n.Decode(&p); err != nil {
		return err
	}
	*w = Weights(p)
	return nil
}

// UnmarshalJSON is UnmarshalYAML for the config API.
func (w *Weights) UnmarshalJSON(b []byte) error {
	type plain Weights
	p := plain(DefaultWeights)
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*w = Weights(p)
	return nil
}

// LexiconScorer adds up lexicon hits, meeting links and start times.
type LexiconScorer struct {
	X       *extract.Extractor
	Weights Weights
}

func NewLexiconScorer(x *extract.Extractor) LexiconScorer {
	return LexiconScorer{X: x, Weights: DefaultWeights}
}

func (s LexiconScorer) Score(text, sender string, now time.Time) (int, []string) {
	b := s.Explain(text, sender, now)
	return b.Score, b.Tags()
}

func (s LexiconScorer) Explain(text, sender string, now time.Time) Breakdown {
	lx := s.X.Lexicon()
	w := s.Weights
	var b Breakdown

	add := func(tag string, weight int, term string) {
		b.Score += weight
		b.Signals = append(b.Signals, Signal{Tag: tag, Weight: weight, Term: term})
	}

	if term, ok := lx.Veto.First(text + "\n" + sender); ok {
		b.Vetoed = true
		b.VetoTerm = term
		b.Score = VetoScore
		b.Signals = []Signal{{Tag: "veto", Weight: VetoScore, Term: term}}
		return b
	}

	dom := extract.SenderDomain(sender)
	if term, ok := lx.ATSDomains.First(dom); ok {
		b.ATS = true
		add("ats", w.ATS, term)
	} else if term, ok := lx.ATSDomains.First(text); ok {
		b.ATS = true
		add("ats", w.ATS, term)
	}

	if term, ok := lx.AssessmentProviders.First(text + "\n" + dom); ok {
		b.Provider = true
		add("provider", w.Provider, term)
	}

	if n := lx.RecruitingPhrases.Count(text); n > 0 && w.PhrasesPerPoint > 0 {
		add("recruiting", n/w.PhrasesPerPoint, "")
	}

	if term, ok := lx.RoleWords.First(text); ok {
		add("role", w.Role, term)
	}

	if term, ok := lx.SchedulingPhrases.First(text); ok {
		// evidence only, not weighted
		add("scheduling", 0, term)
	}

	if link, ok := s.X.MeetingLink(text); ok {
		b.Link = link
		add("meeting_link", w.Link, link)
	}

	if t, ok := s.X.DateTime(text, now); ok {
		b.Start = &t
		add("start_time", w.DateTime, t.Format("2006-01-02T15:04:05"))
	}

	return b
}
