package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-engine/internal/domain"
	"interview-engine/internal/lexicon"
	"interview-engine/internal/rank"
)

var jan1 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newTestClassifier() *Classifier {
	return New(lexicon.Default(), Options{Now: func() time.Time { return jan1 }})
}

func TestReject(t *testing.T) {
	lx := lexicon.Default()
	tests := []struct {
		name    string
		sender  string
		subject string
		body    string
		reject  bool
		reason  string
	}{
		{"subject keyword", "bank@example.com", "Your loan statement", "", true, `subject:re:\bloans?\b`},
		{"sender keyword", "Weekly Digest <digest@news.example>", "Hello", "", true, "sender:digest"},
		{"bulk sender", "noreply@amazon.jobs", "Interview", "", true, "bulk_sender:noreply"},
		{"property mail", "Maple Apartments <office@maple-apartment-homes.com>", "Pool schedule", "", true, "bulk_sender:apartment"},
		{"body statement", "alerts@bank.example", "Monthly update", "Your minimum amount due is $25", true, "body:minimum amount due"},
		{"first name in body", "jane@google.com", "Technical interview", "Hi Emi, your interview is Feb 10 3:00 PM", false, ""},
		{"rent needs a word boundary", "jane@acme.io", "Current openings", "", false, ""},
		{"recruiting mail passes", "jane@acme.io", "Interview next week", "Are you free?", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reject, reason := Reject(lx, tt.sender, tt.subject, tt.body)
			assert.Equal(t, tt.reject, reject)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	c := newTestClassifier()
	emails := []domain.Email{
		{Subject: "Technical interview", From: "jane@google.com", Body: "Feb 10 3:00 PM https://zoom.us/j/1"},
		{Subject: "Your loan", From: "bank@example.com"},
		{Subject: "Follow up", From: "alex@randomcorp.io", Body: "interview next steps recruiter engineer"},
		{},
	}
	for i, e := range emails {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			assert.Equal(t, c.EvaluateAt(e, jan1), c.EvaluateAt(e, jan1))
			assert.Equal(t, c.Evaluate(e), c.EvaluateAt(e, jan1))
		})
	}
}

func TestNoiseVetoIsAbsolute(t *testing.T) {
	c := newTestClassifier()
	for _, subject := range []string{"Your loan offer", "Subscription renewed", "NetBanking alert"} {
		e := domain.Email{
			Subject: subject,
			From:    "Recruiting <talent@greenhouse.io>",
			Body:    "Online assessment on HackerRank, then a technical interview Feb 10 3:00 PM https://zoom.us/j/1234567890",
		}
		tr := c.Trace(e, jan1)
		assert.False(t, tr.Signal.IsInterview, subject)
		assert.Equal(t, ReasonNoise, tr.Rejected, subject)
		assert.Equal(t, domain.InterviewSignal{}, tr.Signal, subject)
	}
}

func TestThresholdMonotonicity(t *testing.T) {
	c := newTestClassifier()
	base := domain.Email{From: "Sam <sam@google.com>", Subject: "Quick chat about the engineer role"}

	tr := c.Trace(base, jan1)
	require.Equal(t, rank.DefaultMinScore-1, tr.Breakdown.Score)
	assert.False(t, tr.Signal.IsInterview)
	assert.Equal(t, ReasonBelowThreshold, tr.Rejected)

	withLink := base
	withLink.Body = "Join: https://zoom.us/j/1234567890"
	sig := c.EvaluateAt(withLink, jan1)
	assert.True(t, sig.IsInterview)
	assert.Equal(t, "Google", sig.Company)
	assert.Equal(t, 4, sig.Confidence)
	assert.Nil(t, sig.StartTime)
	assert.False(t, sig.CalendarReady())

	withTime := base
	withTime.Body = "Does Feb 10 3:00 PM work?"
	sig = c.EvaluateAt(withTime, jan1)
	assert.True(t, sig.IsInterview)
	assert.True(t, sig.CalendarReady())
}

func TestStagePrecedence(t *testing.T) {
	c := newTestClassifier()
	sig := c.EvaluateAt(domain.Email{
		From:    "Acme Recruiting <recruiting@greenhouse.io>",
		Subject: "Next steps with Acme",
		Body:    "Please complete the online assessment, then schedule a call with us.",
	}, jan1)

	require.True(t, sig.IsInterview)
	assert.Equal(t, domain.StageAssessment, sig.Stage)
}

func TestDatetimeRecencyGuard(t *testing.T) {
	c := newTestClassifier()
	oct1 := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	sig := c.EvaluateAt(domain.Email{
		From:    "recruiting@greenhouse.io",
		Subject: "Interview confirmation",
		Body:    "Your interview is on Mar 3 2:00 PM.",
	}, oct1)

	require.True(t, sig.IsInterview)
	assert.Nil(t, sig.StartTime)
}

func TestGreetingNamesDoNotReject(t *testing.T) {
	c := newTestClassifier()
	for _, name := range []string{"Emi", "Maria"} {
		t.Run(name, func(t *testing.T) {
			tr := c.Trace(domain.Email{
				MessageID: "m-" + name,
				From:      "jane@google.com",
				Subject:   "Technical interview",
				Body:      "Hi " + name + ", your technical interview is Feb 10 3:00 PM https://zoom.us/j/1234567890",
			}, jan1)

			assert.Empty(t, tr.Rejected)
			require.True(t, tr.Signal.IsInterview)
			require.NotNil(t, tr.Signal.StartTime)
			assert.Equal(t, "2025-02-10T15:00:00", tr.Signal.StartTime.Format(domain.LocalTimeLayout))
		})
	}
}

func TestDatetimeRoundTrip(t *testing.T) {
	c := newTestClassifier()
	sig := c.EvaluateAt(domain.Email{
		MessageID: "m-1",
		From:      "Jane <jane@google.com>",
		Subject:   "Interview",
		Body:      "...let's meet Feb 10 3:00 PM...",
	}, jan1)

	require.True(t, sig.IsInterview)
	require.NotNil(t, sig.StartTime)
	assert.Equal(t, "2025-02-10T15:00:00", sig.StartTime.Format(domain.LocalTimeLayout))

	b, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"start_time":"2025-02-10T15:00:00"`)
}

func TestUnknownCompanyGate(t *testing.T) {
	c := newTestClassifier()
	tr := c.Trace(domain.Email{
		From:    "alex@randomcorp.io",
		Subject: "Follow up",
		Body:    "Happy to schedule an interview as next steps with the recruiter for the engineer role.",
	}, jan1)

	assert.GreaterOrEqual(t, tr.Breakdown.Score, rank.DefaultMinScore)
	assert.False(t, tr.Breakdown.ATS)
	assert.False(t, tr.Breakdown.Provider)
	assert.Equal(t, ReasonUnknownCompany, tr.Rejected)
	assert.Equal(t, domain.InterviewSignal{}, tr.Signal)
}

func TestUnknownCompanyPassesWithProvider(t *testing.T) {
	c := newTestClassifier()
	sig := c.EvaluateAt(domain.Email{
		From:    "alex@randomcorp.io",
		Subject: "Follow up",
		Body:    "Your Codility test is due in 3 days.",
	}, jan1)

	require.True(t, sig.IsInterview)
	assert.Equal(t, domain.UnknownCompany, sig.Company)
	assert.Equal(t, domain.StageAssessment, sig.Stage)
	assert.Equal(t, "due in 3 days", sig.DueHint)
}

func TestMeetingLinkExtraction(t *testing.T) {
	c := newTestClassifier()
	sig := c.EvaluateAt(domain.Email{
		From:    "recruiting@greenhouse.io",
		Subject: "Interview details",
		Body:    "Join: https://zoom.us/j/1234567890",
	}, jan1)

	require.True(t, sig.IsInterview)
	assert.Equal(t, "https://zoom.us/j/1234567890", sig.MeetingLink)
}

func TestCompanyDomainResolution(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, "Amazon", c.x.Company("noreply@amazon.jobs", ""))

	// the same sender never reaches extraction through Evaluate
	tr := c.Trace(domain.Email{From: "noreply@amazon.jobs", Subject: "Interview"}, jan1)
	assert.Equal(t, ReasonNoise, tr.Rejected)
}

func TestPartialDateIsNotGuessed(t *testing.T) {
	c := newTestClassifier()
	sig := c.EvaluateAt(domain.Email{
		From:    "recruiting@greenhouse.io",
		Subject: "Interview scheduled for Feb 10",
	}, jan1)

	require.True(t, sig.IsInterview)
	assert.Nil(t, sig.StartTime)
	assert.Equal(t, domain.StageScheduling, sig.Stage)
	assert.Equal(t, "Greenhouse", sig.Company)
}

func TestMinScoreOption(t *testing.T) {
	strict := New(lexicon.Default(), Options{MinScore: 10})
	assert.Equal(t, 10, strict.MinScore())

	sig := strict.EvaluateAt(domain.Email{From: "recruiting@greenhouse.io", Subject: "Interview"}, jan1)
	assert.False(t, sig.IsInterview)

	assert.Equal(t, rank.DefaultMinScore, New(lexicon.Default(), Options{}).MinScore())
}

type fixedScorer struct{ b rank.Breakdown }

func (f fixedScorer) Score(string, string, time.Time) (int, []string)  { return f.b.Score, nil }
func (f fixedScorer) Explain(string, string, time.Time) rank.Breakdown { return f.b }

func TestCustomScorerStillGetsFields(t *testing.T) {
	c := NewWithScorer(lexicon.Default(), fixedScorer{rank.Breakdown{Score: 5, ATS: true}}, Options{})
	sig := c.EvaluateAt(domain.Email{
		From: "x@y.io",
		Body: "Onsite on Feb 10 3:00 PM at https://meet.google.com/abc-defg-hij",
	}, jan1)

	require.True(t, sig.IsInterview)
	assert.Equal(t, domain.StageOnsiteFinal, sig.Stage)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", sig.MeetingLink)
	require.NotNil(t, sig.StartTime)
	assert.Equal(t, 5, sig.Confidence)
}

func TestEvaluateAll(t *testing.T) {
	c := newTestClassifier()
	var emails []domain.Email
	for i := 0; i < 40; i++ {
		e := domain.Email{MessageID: fmt.Sprint(i), From: "recruiting@greenhouse.io", Subject: "Interview"}
		if i%2 == 1 {
			e.Subject = "Your loan"
		}
		emails = append(emails, e)
	}

	res, err := c.EvaluateAll(context.Background(), emails, 4)
	require.NoError(t, err)
	require.Len(t, res, len(emails))
	for i, r := range res {
		assert.Equal(t, fmt.Sprint(i), r.Email.MessageID)
		assert.Equal(t, i%2 == 0, r.Signal.IsInterview)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.EvaluateAll(ctx, emails, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWeightsOverride(t *testing.T) {
	e := domain.Email{Subject: "Technical interview", From: "jane@google.com", Body: "Feb 10 3:00 PM https://zoom.us/j/1"}

	def := newTestClassifier()
	require.True(t, def.EvaluateAt(e, jan1).IsInterview)

	muted := New(lexicon.Default(), Options{
		Now:     func() time.Time { return jan1 },
		Weights: &rank.Weights{PhrasesPerPoint: 100},
	})
	tr := muted.Trace(e, jan1)
	assert.False(t, tr.Signal.IsInterview)
	assert.Equal(t, ReasonBelowThreshold, tr.Rejected)
}
