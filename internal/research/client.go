// Package research asks a web-search API about interview loops and keeps the
// answers in one normalized shape.
package research

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const DefaultEndpoint = "https://api.linkup.so/v1/search"

var ErrNoAPIKey = errors.New("research: api key not configured")

// Source is one cited page.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Result is the only shape callers see, whatever the API returned.
type Result struct {
	Query   string   `json:"query"`
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type attempt struct {
	Depth      string
	OutputType string
}

// The API intermittently fails some depth/output combinations with a 500,
// so each search walks this list until one answers.
var attempts = []attempt{
	{"standard", "sourcedAnswer"},
	{"deep", "sourcedAnswer"},
	{"standard", "searchResults"},
}

type Client struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
	Log      zerolog.Logger
	// Backoff is the pause between fallback attempts.
	Backoff time.Duration

	limiter *rate.Limiter
}

func New(endpoint, apiKey string, reqPerSec float64, timeout time.Duration, log zerolog.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if reqPerSec <= 0 {
		reqPerSec = 1
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		Endpoint: endpoint,
		APIKey:   strings.TrimSpace(apiKey),
		HTTP:     &http.Client{Timeout: timeout},
		Log:      log,
		Backoff:  200 * time.Millisecond,
		limiter:  rate.NewLimiter(rate.Limit(reqPerSec), 1),
	}
}

type searchRequest struct {
	Q          string `json:"q"`
	Depth      string `json:"depth"`
	OutputType string `json:"outputType"`
}

type searchResponse struct {
	Answer  string `json:"answer"`
	Sources []struct {
		Name    string `json:"name"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	} `json:"sources"`
	Results []struct {
		Name    string `json:"name"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// statusError is an HTTP failure from the API.
type statusError struct {
	Code int
	Body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("research api status %d: %s", e.Code, e.Body)
}

// Search sanitizes query and returns the first successful answer.
func (c *Client) Search(ctx context.Context, query string) (Result, error) {
	if c.APIKey == "" {
		return Result{}, ErrNoAPIKey
	}
	q := SanitizeQuery(query)
	if q == "" {
		return Result{}, errors.New("research: empty query")
	}

	var lastErr error
	for i, a := range attempts {
		if i > 0 && c.Backoff > 0 {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(c.Backoff):
			}
		}

		res, err := c.do(ctx, q, a)
		if err == nil {
			return res, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests {
			// bad key or bad request; another depth will not help
			break
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		c.Log.Debug().Err(err).Str("depth", a.Depth).Str("output", a.OutputType).Msg("research attempt failed")
	}
	return Result{}, fmt.Errorf("research: all attempts failed: %w", lastErr)
}

func (c *Client) do(ctx context.Context, q string, a attempt) (Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, err
		}
	}

	body, err := json.Marshal(searchRequest{Q: q, Depth: a.Depth, OutputType: a.OutputType})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, &statusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(clipBytes(raw, 300)))}
	}

	var sr searchResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return Result{}, fmt.Errorf("decode research response: %w", err)
	}
	return normalize(q, sr), nil
}

func normalize(q string, sr searchResponse) Result {
	out := Result{Query: q, Answer: strings.TrimSpace(sr.Answer), Sources: []Source{}}
	for _, s := range sr.Sources {
		out.Sources = append(out.Sources, Source{Title: s.Name, URL: s.URL, Snippet: s.Snippet})
	}
	for _, r := range sr.Results {
		out.Sources = append(out.Sources, Source{Title: r.Name, URL: r.URL, Snippet: r.Content})
	}
	// searchResults has no answer; stitch one from the snippets
	if out.Answer == "" && len(sr.Results) > 0 {
		parts := make([]string, 0, len(sr.Results))
		for _, r := range sr.Results {
			if c := strings.TrimSpace(r.Content); c != "" {
				parts = append(parts, c)
			}
		}
		out.Answer = strings.Join(parts, "\n")
	}
	return out
}

func clipBytes(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
