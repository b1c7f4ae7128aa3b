// Package calendar turns calendar-ready interview signals into events.
package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"interview-engine/internal/domain"
)

const DefaultDuration = time.Hour

type Event struct {
	Title       string
	Description string
	Location    string
	Start       time.Time
	Duration    time.Duration
}

func (e Event) End() time.Time { return e.Start.Add(e.Duration) }

type Created struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// Pusher creates one event on an external calendar.
type Pusher interface {
	CreateEvent(ctx context.Context, ev Event) (Created, error)
}

// EventFor builds the event for a signal. ok is false unless the signal is
// calendar-ready.
func EventFor(s domain.InterviewSignal, e domain.Email, d time.Duration) (Event, bool) {
	if !s.CalendarReady() {
		return Event{}, false
	}
	if d <= 0 {
		d = DefaultDuration
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", e.Subject)
	fmt.Fprintf(&b, "From: %s\n", e.From)
	if s.MeetingLink != "" {
		fmt.Fprintf(&b, "Link: %s\n", s.MeetingLink)
	}
	if s.DueHint != "" {
		fmt.Fprintf(&b, "Due: %s\n", s.DueHint)
	}
	fmt.Fprintf(&b, "Confidence: %d\n", s.Confidence)
	if e.MessageID != "" {
		fmt.Fprintf(&b, "Message-ID: %s\n", e.MessageID)
	}

	return Event{
		Title:       fmt.Sprintf("%s: %s", s.Stage, s.Company),
		Description: b.String(),
		Location:    s.MeetingLink,
		Start:       *s.StartTime,
		Duration:    d,
	}, true
}
