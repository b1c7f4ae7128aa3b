package inbox

import (
	"context"

	"interview-engine/internal/domain"
)

// Fetcher pulls recent messages from one mail source.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Email, error)
}

// SnippetLen caps Email.Snippet.
const SnippetLen = 200

// Static serves a fixed set of emails. Handy for dry runs and tests.
type Static struct {
	Label  string
	Emails []domain.Email
}

func (s Static) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s Static) Fetch(ctx context.Context) ([]domain.Email, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Email, len(s.Emails))
	copy(out, s.Emails)
	return out, nil
}
