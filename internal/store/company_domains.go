package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"interview-engine/internal/lexicon"
)

// GetCompanyDomain returns the company learned for domain, or "" if missing.
func GetCompanyDomain(ctx context.Context, db *sql.DB, domain string) (string, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return "", nil
	}

	var company string
	err := db.QueryRowContext(ctx,
		`SELECT company FROM company_domains WHERE domain = ? LIMIT 1;`,
		domain,
	).Scan(&company)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(company), nil
}

func UpsertCompanyDomain(ctx context.Context, db *sql.DB, domain, company string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	company = strings.Join(strings.Fields(company), " ")

	if company == "" || domain == "" {
		return nil
	}

	_, err := db.ExecContext(ctx, `
INSERT INTO company_domains(domain, company, updated_at)
VALUES(?,?,?)
ON CONFLICT(domain) DO UPDATE SET
  company = excluded.company,
  updated_at = excluded.updated_at;
`, domain, company, formatTime(time.Now()))

	return err
}

// ListCompanyDomains returns stored mappings, longest domain first so a
// subdomain entry is tried before its parent.
func ListCompanyDomains(ctx context.Context, db *sql.DB) ([]lexicon.DomainRule, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT domain, company FROM company_domains ORDER BY length(domain) DESC, domain ASC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []lexicon.DomainRule
	for rows.Next() {
		var r lexicon.DomainRule
		if err := rows.Scan(&r.Domain, &r.Company); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
