package domain

import (
	"strings"
	"time"
)

// Email is one fetched message. Absent fields are empty strings.
type Email struct {
	MessageID string    `json:"message_id"`
	ThreadID  string    `json:"thread_id,omitempty"`
	Subject   string    `json:"subject"`
	From      string    `json:"from"`
	Snippet   string    `json:"snippet"`
	Body      string    `json:"body"`
	Date      time.Time `json:"date,omitzero"`
	Source    string    `json:"source,omitempty"` // imap/gmail/cli
}

// Text is the subject, snippet and body joined by newlines.
func (e Email) Text() string {
	return strings.TrimSpace(e.Subject) + "\n" +
		strings.TrimSpace(e.Snippet) + "\n" +
		strings.TrimSpace(e.Body)
}
