package research

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"interview-engine/internal/store"
)

const (
	minQuestionLen = 18
	maxQuestionLen = 200
	MaxQuestions   = 12
	webSource      = "Linkup (public sources)"
)

var (
	emailRe = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\.\w+\b`)
	phoneRe = regexp.MustCompile(`(?:\+|\b)\d[\d\-\s]{7,}\d\b`)
	longID  = regexp.MustCompile(`\b\d{8,}\b`)
)

// SanitizeQuery redacts emails, phone numbers and long numeric ids before
// a query leaves the machine.
func SanitizeQuery(s string) string {
	s = emailRe.ReplaceAllString(s, "[redacted_email]")
	s = phoneRe.ReplaceAllString(s, "[redacted_phone]")
	s = longID.ReplaceAllString(s, "[redacted_id]")
	return strings.TrimSpace(s)
}

var topicWords = []string{
	"implement", "design", "explain", "difference", "time complexity", "sql", "oop", "system",
}

// Questions pulls question-like lines out of a free-text answer.
func Questions(answer string) []string {
	var out []string
	for _, ln := range strings.Split(answer, "\n") {
		ln = strings.TrimSpace(strings.Trim(strings.TrimSpace(ln), "•-*\t "))
		if len(ln) < minQuestionLen {
			continue
		}
		if len(ln) > maxQuestionLen {
			cut := ln[:maxQuestionLen]
			if i := strings.LastIndex(cut, " "); i > 0 {
				cut = cut[:i]
			}
			ln = cut + "..."
		}
		if !strings.Contains(ln, "?") && !hasTopic(strings.ToLower(ln)) {
			continue
		}
		out = append(out, ln)
		if len(out) >= MaxQuestions {
			break
		}
	}
	return out
}

func hasTopic(low string) bool {
	for _, k := range topicWords {
		if strings.Contains(low, k) {
			return true
		}
	}
	return false
}

// QuestionsQuery is the web query used to find past questions.
func QuestionsQuery(company, role string) string {
	return fmt.Sprintf(
		`%s %s interview questions (leetcode OR "interview experience" OR geeksforgeeks OR interviewbit OR glassdoor) (%d OR %d OR recent)`,
		company, role, time.Now().Year()-1, time.Now().Year(),
	)
}

// Searcher is the subset of Client used by Bank.
type Searcher interface {
	Search(ctx context.Context, query string) (Result, error)
}

// Bank serves past questions from the store and fills gaps from the web.
type Bank struct {
	DB     *sql.DB
	Search Searcher
}

// Past returns stored questions for company and role. When none are stored
// and fetch is set, it searches the web, saves what it finds and reads again.
func (b Bank) Past(ctx context.Context, company, role string, limit int, fetch bool) ([]store.Question, error) {
	if limit <= 0 {
		limit = 8
	}
	got, err := store.ListQuestions(ctx, b.DB, company, role, limit)
	if err != nil || len(got) > 0 || !fetch || b.Search == nil {
		return got, err
	}

	res, err := b.Search.Search(ctx, QuestionsQuery(company, role))
	if err != nil {
		return nil, err
	}

	var rows []store.Question
	for _, q := range Questions(res.Answer) {
		rows = append(rows, store.Question{
			Company:  company,
			Role:     role,
			Stage:    "Mixed",
			Topic:    "Mixed",
			Question: q,
			Source:   webSource,
		})
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if _, err := store.SaveQuestions(ctx, b.DB, rows); err != nil {
		return nil, err
	}
	return store.ListQuestions(ctx, b.DB, company, role, limit)
}
