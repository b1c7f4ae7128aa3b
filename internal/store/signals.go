package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"interview-engine/internal/domain"
)

type Signal struct {
	ID          int64  `json:"id"`
	MessageID   string `json:"message_id"`
	ThreadID    string `json:"thread_id,omitempty"`
	Subject     string `json:"subject"`
	Sender      string `json:"sender"`
	Stage       string `json:"stage"`
	Company     string `json:"company"`
	DueHint     string `json:"due_hint"`
	StartTime   string `json:"start_time"` // local ISO-8601, "" when absent
	MeetingLink string `json:"meeting_link"`
	Confidence  int    `json:"confidence"`
	EventID     string `json:"event_id"`
	EventLink   string `json:"event_link"`
	DetectedAt  string `json:"detected_at"`
}

// NewSignal flattens a positive classification for storage.
func NewSignal(e domain.Email, s domain.InterviewSignal, now time.Time) Signal {
	out := Signal{
		MessageID:   e.MessageID,
		ThreadID:    e.ThreadID,
		Subject:     e.Subject,
		Sender:      e.From,
		Stage:       string(s.Stage),
		Company:     s.Company,
		DueHint:     s.DueHint,
		MeetingLink: s.MeetingLink,
		Confidence:  s.Confidence,
		DetectedAt:  formatTime(now),
	}
	if s.StartTime != nil {
		out.StartTime = s.StartTime.Format(domain.LocalTimeLayout)
	}
	return out
}

func (s Signal) Scheduled() bool { return s.EventID != "" }

// Start parses StartTime in loc.
func (s Signal) Start(loc *time.Location) (time.Time, bool) {
	if s.StartTime == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(domain.LocalTimeLayout, s.StartTime, loc)
	return t, err == nil
}

// SaveSignal stores s once per message id and rolls it into the company's
// application row. added is false when the message was already stored.
func SaveSignal(ctx context.Context, db *sql.DB, s Signal) (added bool, err error) {
	if strings.TrimSpace(s.MessageID) == "" {
		return false, errors.New("save signal: empty message id")
	}
	if s.DetectedAt == "" {
		s.DetectedAt = formatTime(time.Now())
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	// relies on unique index on message_id
	res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO signals
  (message_id, thread_id, subject, sender, stage, company, due_hint, start_time, meeting_link, confidence, detected_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		s.MessageID, s.ThreadID, s.Subject, s.Sender, s.Stage, s.Company,
		s.DueHint, s.StartTime, s.MeetingLink, s.Confidence, s.DetectedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert signal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, tx.Commit()
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO applications (company_key, company, last_stage, signals_count, created_at, updated_at)
VALUES (?, ?, ?, 1, ?, ?)
ON CONFLICT(company_key) DO UPDATE SET
  last_stage = excluded.last_stage,
  signals_count = applications.signals_count + 1,
  updated_at = excluded.updated_at;`,
		normalizeCompanyKey(s.Company), s.Company, s.Stage, s.DetectedAt, s.DetectedAt,
	); err != nil {
		return false, fmt.Errorf("upsert application: %w", err)
	}

	return true, tx.Commit()
}

type ListSignalsOpts struct {
	Bucket  string // calendar | action | all
	Company string
	Limit   int
}

func ListSignals(ctx context.Context, db *sql.DB, opts ListSignalsOpts) ([]Signal, error) {
	if opts.Limit <= 0 || opts.Limit > 2000 {
		opts.Limit = 200
	}

	var where []string
	var args []any
	switch opts.Bucket {
	case "calendar":
		where = append(where, "start_time != ''")
	case "action":
		where = append(where, "start_time = ''")
	}
	if c := strings.TrimSpace(opts.Company); c != "" {
		where = append(where, "lower(company) = ?")
		args = append(args, strings.ToLower(c))
	}
	clause := ""
	if len(where) > 0 {
		clause = "WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`
SELECT id, message_id, thread_id, subject, sender, stage, company, due_hint,
       start_time, meeting_link, confidence, event_id, event_link, detected_at
FROM signals
%s
ORDER BY detected_at DESC, id DESC
LIMIT ?;`, clause)
	args = append(args, opts.Limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Signal
	for rows.Next() {
		var s Signal
		if err := rows.Scan(
			&s.ID, &s.MessageID, &s.ThreadID, &s.Subject, &s.Sender, &s.Stage, &s.Company, &s.DueHint,
			&s.StartTime, &s.MeetingLink, &s.Confidence, &s.EventID, &s.EventLink, &s.DetectedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// HasScheduled reports whether a calendar event was already created for messageID.
func HasScheduled(ctx context.Context, db *sql.DB, messageID string) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM signals WHERE message_id = ? AND event_id != '' LIMIT 1;`,
		messageID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkScheduled records the calendar event created for messageID.
func MarkScheduled(ctx context.Context, db *sql.DB, messageID, eventID, link string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var company, prev string
	err = tx.QueryRowContext(ctx,
		`SELECT company, event_id FROM signals WHERE message_id = ?;`, messageID,
	).Scan(&company, &prev)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("mark scheduled %s: %w", messageID, ErrNotFound)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE signals SET event_id = ?, event_link = ? WHERE message_id = ?;`,
		eventID, link, messageID,
	); err != nil {
		return err
	}

	if prev == "" {
		if _, err := tx.ExecContext(ctx, `
UPDATE applications
SET interviews_scheduled = interviews_scheduled + 1, updated_at = ?
WHERE company_key = ?;`,
			formatTime(time.Now()), normalizeCompanyKey(company),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// CleanupOld deletes signals detected more than days ago.
func CleanupOld(ctx context.Context, db *sql.DB, days int) (deleted int64, err error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM signals WHERE detected_at < datetime('now', ?);`,
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("cleanup old signals: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
