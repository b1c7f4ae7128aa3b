package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"interview-engine/internal/domain"
	"interview-engine/internal/lexicon"
)

func newTestExtractor() *Extractor {
	return New(lexicon.Default(), 0)
}

func TestSenderDomain(t *testing.T) {
	tests := []struct {
		sender string
		want   string
	}{
		{"noreply@amazon.jobs", "amazon.jobs"},
		{`"Jane Recruiter" <Jane.Doe@Mail.Google.COM>`, "mail.google.com"},
		{"Acme Talent <talent@acme-corp.io>", "acme-corp.io"},
		{"no address here", ""},
		{"broken@localhost", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.sender, func(t *testing.T) {
			assert.Equal(t, tt.want, SenderDomain(tt.sender))
		})
	}
}

func TestStage(t *testing.T) {
	x := newTestExtractor()
	tests := []struct {
		name string
		text string
		want domain.Stage
	}{
		{"assessment wins over scheduling", "Please complete the online assessment, then schedule a call with us", domain.StageAssessment},
		{"oa as a word", "Your OA link is below", domain.StageAssessment},
		{"oa inside a word is not a cue", "Welcome aboard! Phone screen on Monday", domain.StagePhoneScreen},
		{"phone screen", "Invitation: phone screen with Acme", domain.StagePhoneScreen},
		{"technical", "Next up is a technical interview with the team", domain.StageTechnical},
		{"onsite", "We'd like to bring you in for a virtual onsite", domain.StageOnsiteFinal},
		{"scheduling", "Please share your availability for next week", domain.StageScheduling},
		{"nothing", "Thanks for your interest in our products", domain.StageUnclassified},
		{"empty", "", domain.StageUnclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Stage(tt.text))
		})
	}
}

func TestMeetingLink(t *testing.T) {
	x := newTestExtractor()
	tests := []struct {
		name string
		text string
		want string
	}{
		{"zoom", "Join: https://zoom.us/j/1234567890", "https://zoom.us/j/1234567890"},
		{"zoom subdomain with pwd", "Link https://acme.zoom.us/j/987654321?pwd=abcDEF. See you", "https://acme.zoom.us/j/987654321?pwd=abcDEF"},
		{"google meet", "Meet at https://meet.google.com/abc-defg-hij, thanks", "https://meet.google.com/abc-defg-hij"},
		{"teams trailing paren", "(https://teams.microsoft.com/l/meetup-join/19%3ameeting_x/0)", "https://teams.microsoft.com/l/meetup-join/19%3ameeting_x/0"},
		{"pattern order beats text order", "https://acme.webex.com/meet/bob or https://zoom.us/j/42", "https://zoom.us/j/42"},
		{"none", "call me at 555-0100", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := x.MeetingLink(tt.text)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != "", ok)
		})
	}
}

func TestDueHint(t *testing.T) {
	x := newTestExtractor()
	tests := []struct {
		text string
		want string
	}{
		{"The assessment is due in 3 days.", "due in 3 days"},
		{"Due in 1 day", "due in 1 day"},
		{"Please submit, due by February 14", "due Feb 14"},
		{"due on Sept. 3 at noon", "due Sep 3"},
		{"Deadline: Mar 20", "due Mar 20"},
		{"deadline Dec 1", "due Dec 1"},
		{"due by Feb 45", ""},
		{"no deadline mentioned", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, x.DueHint(tt.text))
		})
	}
}
