package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"interview-engine/internal/googleauth"
)

// GoogleCalendar inserts events with the Calendar v3 API.
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleCalendar authorizes with the cached token and wraps the client
// in a circuit breaker.
func NewGoogleCalendar(ctx context.Context, credentialsFile, tokenFile, calendarID string, log zerolog.Logger) (Pusher, error) {
	client, err := googleauth.Client(ctx, credentialsFile, tokenFile, gcal.CalendarEventsScope)
	if err != nil {
		return nil, fmt.Errorf("calendar auth: %w", err)
	}
	svc, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("calendar client: %w", err)
	}
	return Guard(NewGoogleCalendarWithService(svc, calendarID), "google-calendar", log), nil
}

func NewGoogleCalendarWithService(svc *gcal.Service, calendarID string) *GoogleCalendar {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID}
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, ev Event) (Created, error) {
	tz := ianaZone(ev.Start.Location())
	body := &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       &gcal.EventDateTime{DateTime: ev.Start.Format(time.RFC3339), TimeZone: tz},
		End:         &gcal.EventDateTime{DateTime: ev.End().Format(time.RFC3339), TimeZone: tz},
	}

	out, err := g.svc.Events.Insert(g.calendarID, body).Context(ctx).Do()
	if err != nil {
		return Created{}, fmt.Errorf("insert event: %w", err)
	}
	return Created{ID: out.Id, Link: out.HtmlLink}, nil
}

// ianaZone returns loc's name when the API can resolve it; the RFC3339
// offset carries the instant otherwise.
func ianaZone(loc *time.Location) string {
	name := loc.String()
	if name == "Local" {
		return ""
	}
	if _, err := time.LoadLocation(name); err != nil {
		return ""
	}
	return name
}

type guarded struct {
	next Pusher
	cb   *gobreaker.CircuitBreaker
}

// Guard trips after repeated server-side failures so a dead calendar API
// does not stall every scan. Client errors (4xx) do not count.
func Guard(next Pusher, name string, log zerolog.Logger) Pusher {
	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			ratio := float64(c.TotalFailures) / float64(c.Requests)
			return c.ConsecutiveFailures > 5 || (c.Requests >= 10 && ratio >= 0.6)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	}
	return &guarded{next: next, cb: gobreaker.NewCircuitBreaker(st)}
}

func (g *guarded) CreateEvent(ctx context.Context, ev Event) (Created, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.CreateEvent(ctx, ev)
	})
	if err != nil {
		return Created{}, err
	}
	return out.(Created), nil
}

func isClientError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429
	}
	return false
}
