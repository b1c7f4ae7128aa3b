package store

import (
	"context"
	"database/sql"
	"strings"
)

// Application is the per-company roll-up of stored signals.
type Application struct {
	Company             string `json:"company"`
	LastStage           string `json:"last_stage"`
	SignalsCount        int    `json:"signals_count"`
	InterviewsScheduled int    `json:"interviews_scheduled"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}

func ListApplications(ctx context.Context, db *sql.DB) ([]Application, error) {
	rows, err := db.QueryContext(ctx, `
SELECT company, last_stage, signals_count, interviews_scheduled, created_at, updated_at
FROM applications
ORDER BY updated_at DESC, company ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		var a Application
		if err := rows.Scan(&a.Company, &a.LastStage, &a.SignalsCount, &a.InterviewsScheduled, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func normalizeCompanyKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ToLower(s)
	return s
}
