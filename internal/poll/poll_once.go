// Package poll runs one scan end to end: fetch, dedupe, classify, store,
// push calendar events.
package poll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"interview-engine/internal/calendar"
	"interview-engine/internal/classify"
	"interview-engine/internal/domain"
	"interview-engine/internal/events"
	"interview-engine/internal/inbox"
	"interview-engine/internal/store"
)

type Deps struct {
	DB         *sql.DB
	Classifier *classify.Classifier
	Fetchers   []inbox.Fetcher
	// Calendar is nil when pushing is disabled.
	Calendar      calendar.Pusher
	Hub           *events.Hub
	Log           zerolog.Logger
	Workers       int
	FetchTimeout  time.Duration
	EventDuration time.Duration
	RetentionDays int
	Now           func() time.Time
}

type ScanOptions struct {
	DryRun    bool
	RequestID string
}

// Detected is one positive classification in a report.
type Detected struct {
	MessageID string                 `json:"message_id"`
	Subject   string                 `json:"subject"`
	From      string                 `json:"from"`
	Signal    domain.InterviewSignal `json:"signal"`
	New       bool                   `json:"new"`
	EventLink string                 `json:"event_link,omitempty"`
}

type Report struct {
	StartedAt   time.Time         `json:"started_at"`
	FinishedAt  time.Time         `json:"finished_at"`
	DryRun      bool              `json:"dry_run"`
	Fetched     int               `json:"fetched"`
	Unique      int               `json:"unique"`
	Interviews  int               `json:"interviews"`
	Added       int               `json:"added"`
	Scheduled   int               `json:"scheduled"`
	Pruned      int64             `json:"pruned"`
	Detected    []Detected        `json:"detected"`
	FetchErrors map[string]string `json:"fetch_errors,omitempty"`
}

var ErrAllFetchersFailed = errors.New("every mail source failed")

// ScanOnce fetches from every source concurrently and processes the merged
// batch. A failing source is reported, not fatal, unless all of them fail.
func ScanOnce(ctx context.Context, d Deps, opts ScanOptions) (Report, error) {
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	rep := Report{StartedAt: now(), DryRun: opts.DryRun, Detected: []Detected{}}
	if d.Classifier == nil {
		return rep, errors.New("scan: no classifier")
	}
	d.Hub.Emit(opts.RequestID, events.TypeScanStarted, map[string]any{"dry_run": opts.DryRun})

	emails, fetchErrs := fetchAll(ctx, d)
	rep.Fetched = len(emails)
	if len(fetchErrs) > 0 {
		rep.FetchErrors = fetchErrs
	}
	if len(d.Fetchers) > 0 && len(fetchErrs) == len(d.Fetchers) {
		return finish(d, opts, rep, now), ErrAllFetchersFailed
	}

	emails = dedupe(emails)
	rep.Unique = len(emails)

	results, err := d.Classifier.EvaluateAll(ctx, emails, d.Workers)
	if err != nil {
		return finish(d, opts, rep, now), fmt.Errorf("classify: %w", err)
	}

	for _, r := range results {
		if !r.Signal.IsInterview {
			continue
		}
		rep.Interviews++
		det := Detected{MessageID: r.Email.MessageID, Subject: r.Email.Subject, From: r.Email.From, Signal: r.Signal}

		if !opts.DryRun && d.DB != nil && r.Email.MessageID == "" {
			d.Log.Warn().Str("subject", r.Email.Subject).Msg("interview email without message id not stored")
		} else if !opts.DryRun && d.DB != nil {
			added, err := store.SaveSignal(ctx, d.DB, store.NewSignal(r.Email, r.Signal, now()))
			if err != nil {
				return finish(d, opts, rep, now), err
			}
			det.New = added
			if added {
				rep.Added++
				d.Hub.Emit(opts.RequestID, events.TypeSignalDetected, det)
			}

			link, err := schedule(ctx, d, r, now())
			if err != nil {
				d.Log.Warn().Err(err).Str("message_id", r.Email.MessageID).Msg("calendar push failed")
			}
			if link != "" {
				det.EventLink = link
				rep.Scheduled++
				d.Hub.Emit(opts.RequestID, events.TypeEventScheduled, det)
			}
		}
		rep.Detected = append(rep.Detected, det)
	}

	if !opts.DryRun && d.DB != nil && d.RetentionDays > 0 {
		n, err := store.CleanupOld(ctx, d.DB, d.RetentionDays)
		if err != nil {
			d.Log.Warn().Err(err).Msg("retention cleanup")
		}
		rep.Pruned = n
	}

	return finish(d, opts, rep, now), nil
}

func finish(d Deps, opts ScanOptions, rep Report, now func() time.Time) Report {
	rep.FinishedAt = now()
	d.Hub.Emit(opts.RequestID, events.TypeScanFinished, map[string]any{
		"fetched":    rep.Fetched,
		"interviews": rep.Interviews,
		"added":      rep.Added,
		"scheduled":  rep.Scheduled,
	})
	return rep
}

// schedule pushes a calendar-ready signal once. It returns the event link
// when an event was created by this call.
func schedule(ctx context.Context, d Deps, r classify.Result, now time.Time) (string, error) {
	if d.Calendar == nil {
		return "", nil
	}
	ev, ok := calendar.EventFor(r.Signal, r.Email, d.EventDuration)
	if !ok || ev.Start.Before(now) {
		return "", nil
	}
	done, err := store.HasScheduled(ctx, d.DB, r.Email.MessageID)
	if err != nil || done {
		return "", err
	}
	created, err := d.Calendar.CreateEvent(ctx, ev)
	if err != nil {
		return "", err
	}
	if err := store.MarkScheduled(ctx, d.DB, r.Email.MessageID, created.ID, created.Link); err != nil {
		return "", err
	}
	if created.Link == "" {
		created.Link = created.ID
	}
	return created.Link, nil
}

func fetchAll(ctx context.Context, d Deps) ([]domain.Email, map[string]string) {
	timeout := d.FetchTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	var (
		mu   sync.Mutex
		all  []domain.Email
		errs = map[string]string{}
	)
	var g errgroup.Group
	for _, f := range d.Fetchers {
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			got, err := f.Fetch(fctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				d.Log.Error().Err(err).Str("source", f.Name()).Msg("fetch failed")
				errs[f.Name()] = err.Error()
				return nil
			}
			d.Log.Info().Str("source", f.Name()).Int("emails", len(got)).Dur("took", time.Since(start)).Msg("fetched")
			all = append(all, got...)
			return nil
		})
	}
	_ = g.Wait()
	return all, errs
}

// dedupe keeps the first email per message id. Emails without an id are
// kept as-is.
func dedupe(in []domain.Email) []domain.Email {
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, e := range in {
		if e.MessageID != "" {
			if _, ok := seen[e.MessageID]; ok {
				continue
			}
			seen[e.MessageID] = struct{}{}
		}
		out = append(out, e)
	}
	return out
}
