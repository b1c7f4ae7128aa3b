package rank

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"interview-engine/internal/extract"
	"interview-engine/internal/lexicon"
)

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestScorer() LexiconScorer {
	return NewLexiconScorer(extract.New(lexicon.Default(), 0))
}

func TestExplain(t *testing.T) {
	s := newTestScorer()
	tests := []struct {
		name   string
		text   string
		sender string
		score  int
		tags   []string
	}{
		{"empty", "", "", 0, []string{}},
		{"ats sender", "Thanks for applying", "no-reply@greenhouse.io", 4, []string{"ats"}},
		{"ats link in text", "View it at https://boards.greenhouse.io/acme/jobs/1", "team@acme.io", 4, []string{"ats"}},
		{"provider", "Your HackerRank challenge", "acme@acme.io", 4, []string{"provider"}},
		{"phrases are halved", "interview next steps recruiter", "a@b.io", 1, []string{"recruiting"}},
		{"single phrase rounds down", "interview", "a@b.io", 0, []string{}},
		{"role word", "the engineer role", "a@b.io", 1, []string{"role"}},
		{"meeting link", "Join: https://zoom.us/j/1234567890", "a@b.io", 3, []string{"meeting_link"}},
		{"start time", "Feb 10 3:00 PM works", "a@b.io", 3, []string{"start_time"}},
		{"scheduling words carry no weight", "please share your availability", "a@b.io", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, tags := s.Score(tt.text, tt.sender, now)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.tags, tags)
		})
	}
}

func TestExplainVeto(t *testing.T) {
	s := newTestScorer()
	b := s.Explain("Your loan is approved. Interview with the hiring manager at https://zoom.us/j/1", "offers@greenhouse.io", now)

	assert.True(t, b.Vetoed)
	assert.Equal(t, VetoScore, b.Score)
	assert.Equal(t, `re:\bloans?\b`, b.VetoTerm)
	assert.False(t, b.Passes(DefaultMinScore))
	assert.Empty(t, b.Link)
}

func TestExplainKeepsExtractedFields(t *testing.T) {
	s := newTestScorer()
	b := s.Explain("Technical interview Feb 10 3:00 PM https://meet.google.com/abc-defg-hij", "recruiter@acme.io", now)

	require.NotNil(t, b.Start)
	assert.Equal(t, time.Date(2025, 2, 10, 15, 0, 0, 0, time.UTC), *b.Start)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", b.Link)
	assert.True(t, b.Passes(DefaultMinScore))
	assert.Equal(t, 6, b.Score)
}

func TestWeightsAreConfigurable(t *testing.T) {
	s := newTestScorer()
	s.Weights.Link = 10
	s.Weights.PhrasesPerPoint = 1

	score, _ := s.Score("interview recruiter https://zoom.us/j/1", "a@b.io", now)
	assert.Equal(t, 12, score)
}

func TestPartialWeightsKeepDefaults(t *testing.T) {
	want := DefaultWeights
	want.Link = 5

	tests := []struct {
		name   string
		decode func(*Weights) error
	}{
		{"yaml", func(w *Weights) error { return yaml.Unmarshal([]byte("link: 5\n"), w) }},
		{"json", func(w *Weights) error { return json.Unmarshal([]byte(`{"link":5}`), w) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w Weights
			require.NoError(t, tt.decode(&w))
			assert.Equal(t, want, w)
		})
	}
}
