package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"interview-engine/internal/scheduler"
)

var ErrBusy = errors.New("scan already running")

type Status struct {
	Running    bool    `json:"running"`
	LastRunAt  string  `json:"last_run_at,omitempty"`
	LastOkAt   string  `json:"last_ok_at,omitempty"`
	LastError  string  `json:"last_error,omitempty"`
	LastReport *Report `json:"last_report,omitempty"`
}

// Poller serializes scans and remembers how the last one went. Deps are
// rebuilt for every run so config reloads take effect on the next scan.
type Poller struct {
	build  func() (Deps, error)
	log    zerolog.Logger
	mu     sync.Mutex
	status atomic.Value // Status
}

func NewPoller(build func() (Deps, error), log zerolog.Logger) *Poller {
	p := &Poller{build: build, log: log}
	p.status.Store(Status{})
	return p
}

func (p *Poller) Status() Status {
	return p.status.Load().(Status)
}

// Run scans once. It returns ErrBusy instead of queueing behind a scan in
// progress.
func (p *Poller) Run(ctx context.Context, opts ScanOptions) (Report, error) {
	if !p.mu.TryLock() {
		return Report{}, ErrBusy
	}
	defer p.mu.Unlock()

	st := p.Status()
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	p.status.Store(st)

	rep, err := p.run(ctx, opts)

	st = p.Status()
	st.Running = false
	if !opts.DryRun || err != nil {
		st.LastReport = &rep
	}
	if err != nil {
		st.LastError = err.Error()
		p.log.Error().Err(err).Msg("scan failed")
	} else {
		st.LastError = ""
		st.LastOkAt = time.Now().Format(time.RFC3339)
		p.log.Info().Int("fetched", rep.Fetched).Int("interviews", rep.Interviews).
			Int("added", rep.Added).Int("scheduled", rep.Scheduled).Bool("dry_run", opts.DryRun).Msg("scan ok")
	}
	p.status.Store(st)
	return rep, err
}

func (p *Poller) run(ctx context.Context, opts ScanOptions) (Report, error) {
	d, err := p.build()
	if err != nil {
		return Report{}, err
	}
	return ScanOnce(ctx, d, opts)
}

// Start scans now and then every interval until ctx is done. It blocks.
func (p *Poller) Start(ctx context.Context, interval time.Duration) {
	scheduler.Every(ctx, interval, "scan", p.log, func(ctx context.Context) error {
		_, err := p.Run(ctx, ScanOptions{})
		if errors.Is(err, ErrBusy) {
			return nil
		}
		return err
	})
}
