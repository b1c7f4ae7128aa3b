package inbox

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"interview-engine/internal/domain"
	"interview-engine/internal/googleauth"
)

const DefaultGmailQuery = "newer_than:14d"

// GmailFetcher reads recent messages through the Gmail API.
type GmailFetcher struct {
	svc   *gmail.Service
	Query string
	Max   int64
	Log   zerolog.Logger
}

// NewGmailFetcher authorizes with a cached token. It does not start an
// interactive consent flow.
func NewGmailFetcher(ctx context.Context, credentialsFile, tokenFile, query string, max int64, log zerolog.Logger) (*GmailFetcher, error) {
	client, err := googleauth.Client(ctx, credentialsFile, tokenFile, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("gmail auth: %w", err)
	}
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("gmail client: %w", err)
	}
	return NewGmailFetcherWithService(svc, query, max, log), nil
}

func NewGmailFetcherWithService(svc *gmail.Service, query string, max int64, log zerolog.Logger) *GmailFetcher {
	if strings.TrimSpace(query) == "" {
		query = DefaultGmailQuery
	}
	if max <= 0 {
		max = 50
	}
	return &GmailFetcher{svc: svc, Query: query, Max: max, Log: log}
}

func (g *GmailFetcher) Name() string { return "gmail" }

func (g *GmailFetcher) Fetch(ctx context.Context) ([]domain.Email, error) {
	const user = "me"

	r, err := g.svc.Users.Messages.List(user).Q(g.Query).MaxResults(g.Max).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list: %w", err)
	}

	out := make([]domain.Email, 0, len(r.Messages))
	for _, ref := range r.Messages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, err := g.svc.Users.Messages.Get(user, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			g.Log.Warn().Err(err).Str("id", ref.Id).Msg("gmail get")
			continue
		}
		out = append(out, FromGmail(m))
	}
	return out, nil
}

// FromGmail converts a full-format Gmail message.
func FromGmail(m *gmail.Message) domain.Email {
	e := domain.Email{
		MessageID: m.Id,
		ThreadID:  m.ThreadId,
		Snippet:   html.UnescapeString(m.Snippet),
		Source:    "gmail",
	}
	if m.InternalDate > 0 {
		e.Date = time.UnixMilli(m.InternalDate)
	}
	if m.Payload == nil {
		return e
	}

	for _, h := range m.Payload.Headers {
		switch strings.ToLower(h.Name) {
		case "subject":
			e.Subject = decodeRFC2047(h.Value)
		case "from":
			e.From = decodeRFC2047(h.Value)
		case "message-id":
			if id := strings.Trim(strings.TrimSpace(h.Value), "<>"); id != "" {
				e.MessageID = id
			}
		}
	}

	var plain, htmlBody string
	walkParts(m.Payload, &plain, &htmlBody)
	e.Body = BodyText(plain, htmlBody)
	if e.Snippet == "" {
		e.Snippet = clip(e.Body, SnippetLen)
	}
	return e
}

func walkParts(p *gmail.MessagePart, plain, htmlBody *string) {
	if p == nil {
		return
	}
	if p.Filename == "" && p.Body != nil && p.Body.Data != "" {
		data := decodeBase64URL(p.Body.Data)
		switch {
		case strings.HasPrefix(p.MimeType, "text/plain"):
			if len(data) > len(*plain) {
				*plain = data
			}
		case strings.HasPrefix(p.MimeType, "text/html"):
			if len(data) > len(*htmlBody) {
				*htmlBody = data
			}
		}
	}
	for _, child := range p.Parts {
		walkParts(child, plain, htmlBody)
	}
}

func decodeBase64URL(s string) string {
	if b, err := base64.URLEncoding.DecodeString(s); err == nil {
		return string(b)
	}
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return string(b)
	}
	return ""
}
