// Package classify turns one email into an InterviewSignal: noise filter,
// confidence gate, field extraction, unknown-company gate.
package classify

import (
	"time"

	"interview-engine/internal/domain"
	"interview-engine/internal/extract"
	"interview-engine/internal/lexicon"
	"interview-engine/internal/rank"
)

// Rejection reasons reported in a Trace.
const (
	ReasonNoise          = "noise"
	ReasonVeto           = "veto"
	ReasonBelowThreshold = "below_threshold"
	ReasonUnknownCompany = "unknown_company"
)

type Options struct {
	MinScore int
	// Window bounds how old an extracted start time may be.
	Window time.Duration
	// Weights overrides rank.DefaultWeights for the lexicon scorer.
	Weights *rank.Weights
	Now     func() time.Time
}

// Classifier is immutable after New and safe for concurrent use.
type Classifier struct {
	lex      *lexicon.Lexicon
	x        *extract.Extractor
	scorer   rank.Scorer
	minScore int
	now      func() time.Time
}

func New(lx *lexicon.Lexicon, opts Options) *Classifier {
	return NewWithScorer(lx, nil, opts)
}

// NewWithScorer uses scorer instead of the lexicon scorer when it is non-nil.
func NewWithScorer(lx *lexicon.Lexicon, scorer rank.Scorer, opts Options) *Classifier {
	x := extract.New(lx, opts.Window)
	if scorer == nil {
		ls := rank.NewLexiconScorer(x)
		if opts.Weights != nil {
			ls.Weights = *opts.Weights
		}
		scorer = ls
	}
	if opts.MinScore <= 0 {
		opts.MinScore = rank.DefaultMinScore
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Classifier{
		lex:      lx,
		x:        x,
		scorer:   scorer,
		minScore: opts.MinScore,
		now:      opts.Now,
	}
}

func (c *Classifier) MinScore() int { return c.minScore }

// Trace is a signal plus the reasoning that produced it.
type Trace struct {
	Signal    domain.InterviewSignal `json:"signal"`
	Rejected  string                 `json:"rejected,omitempty"`
	Detail    string                 `json:"detail,omitempty"`
	Breakdown rank.Breakdown         `json:"breakdown"`
}

// Evaluate classifies e against the current time.
func (c *Classifier) Evaluate(e domain.Email) domain.InterviewSignal {
	return c.EvaluateAt(e, c.now())
}

// EvaluateAt is Evaluate with an explicit reference time. Identical inputs
// always give identical results.
func (c *Classifier) EvaluateAt(e domain.Email, now time.Time) domain.InterviewSignal {
	return c.Trace(e, now).Signal
}

func (c *Classifier) Trace(e domain.Email, now time.Time) Trace {
	if reject, why := Reject(c.lex, e.From, e.Subject, e.Body); reject {
		return Trace{Rejected: ReasonNoise, Detail: why}
	}

	text := e.Text()
	b := c.scorer.Explain(text, e.From, now)
	if b.Vetoed {
		return Trace{Rejected: ReasonVeto, Detail: b.VetoTerm, Breakdown: b}
	}
	if !b.Passes(c.minScore) {
		return Trace{Rejected: ReasonBelowThreshold, Breakdown: b}
	}

	stage := c.x.Stage(text)
	company := c.x.Company(e.From, e.Subject)
	due := c.x.DueHint(text)

	link := b.Link
	if link == "" {
		link, _ = c.x.MeetingLink(text)
	}
	start := b.Start
	if start == nil {
		if t, ok := c.x.DateTime(text, now); ok {
			start = &t
		}
	}

	if company == domain.UnknownCompany && !b.ATS && !b.Provider {
		return Trace{Rejected: ReasonUnknownCompany, Breakdown: b}
	}

	return Trace{
		Signal: domain.InterviewSignal{
			IsInterview: true,
			Stage:       stage,
			Company:     company,
			DueHint:     due,
			StartTime:   start,
			MeetingLink: link,
			Confidence:  b.Score,
		},
		Breakdown: b,
	}
}
