package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Question is one past interview question gathered from public sources.
type Question struct {
	Company    string `json:"company"`
	Role       string `json:"role"`
	Stage      string `json:"stage"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Question   string `json:"question"`
	Source     string `json:"source"`
	AddedAt    string `json:"added_at"`
}

func questionKey(q Question) string {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return norm(q.Company) + "\x00" + norm(q.Role) + "\x00" + norm(q.Question)
}

// SaveQuestions inserts qs, skipping any company/role/question already stored.
func SaveQuestions(ctx context.Context, db *sql.DB, qs []Question) (added int, err error) {
	if len(qs) == 0 {
		return 0, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	now := formatTime(time.Now())
	for _, q := range qs {
		if strings.TrimSpace(q.Question) == "" {
			continue
		}
		if q.AddedAt == "" {
			q.AddedAt = now
		}
		res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO questions (company, role, stage, topic, difficulty, question, source, dedupe_key, added_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
			q.Company, q.Role, orDefault(q.Stage, "Mixed"), orDefault(q.Topic, "Mixed"),
			orDefault(q.Difficulty, "Unknown"), q.Question, q.Source, questionKey(q), q.AddedAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert question: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			added++
		}
	}
	return added, tx.Commit()
}

// ListQuestions matches company and role as case-insensitive substrings;
// an empty filter matches everything.
func ListQuestions(ctx context.Context, db *sql.DB, company, role string, limit int) ([]Question, error) {
	if limit <= 0 {
		limit = 8
	}
	rows, err := db.QueryContext(ctx, `
SELECT company, role, stage, topic, difficulty, question, source, added_at
FROM questions
WHERE lower(company) LIKE '%' || ? || '%' AND lower(role) LIKE '%' || ? || '%'
ORDER BY id ASC
LIMIT ?;`,
		strings.ToLower(strings.TrimSpace(company)), strings.ToLower(strings.TrimSpace(role)), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.Company, &q.Role, &q.Stage, &q.Topic, &q.Difficulty, &q.Question, &q.Source, &q.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
