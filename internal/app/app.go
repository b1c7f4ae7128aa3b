// Package app wires config, storage and the classifier into the pieces the
// binaries share.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"interview-engine/internal/calendar"
	"interview-engine/internal/classify"
	"interview-engine/internal/config"
	"interview-engine/internal/events"
	"interview-engine/internal/inbox"
	"interview-engine/internal/lexicon"
	"interview-engine/internal/logging"
	"interview-engine/internal/poll"
	"interview-engine/internal/research"
	"interview-engine/internal/secrets"
	"interview-engine/internal/store"
)

const (
	EnvDataDir = "INTERVIEW_DATA_DIR"
	dbFile     = "interviews.db"
	lockFile   = "engine.lock"
)

var ErrLocked = errors.New("another engine owns the data dir")

// DataDir is $INTERVIEW_DATA_DIR, or the working directory. A .env file in
// the working directory is loaded first.
func DataDir() string {
	_ = godotenv.Load()
	if d := strings.TrimSpace(os.Getenv(EnvDataDir)); d != "" {
		return d
	}
	return "."
}

// Env holds the live config and everything built from it. The classifier is
// swapped on reload; readers always see a complete one.
type Env struct {
	DataDir string
	CfgPath string
	CfgVal  *atomic.Value // config.Config
	Log     zerolog.Logger
	DB      *store.DB
	Hub     *events.Hub

	classifier atomic.Pointer[classify.Classifier]
	lock       *flock.Flock

	// Long-lived clients keep their limiter and breaker state across
	// requests and scans; they are rebuilt only when their settings change.
	mu          sync.Mutex
	research    *research.Client
	researchKey researchSettings
	cal         calendar.Pusher
	calKey      calendarSettings
	// newCalendar defaults to calendar.NewGoogleCalendar.
	newCalendar func(ctx context.Context, credentialsFile, tokenFile, calendarID string, log zerolog.Logger) (calendar.Pusher, error)
}

type researchSettings struct {
	endpoint string
	apiKey   string
	rps      float64
	timeout  time.Duration
}

type calendarSettings struct {
	credentials string
	token       string
	calendarID  string
}

// Open bootstraps dataDir: config file, logger, database and classifier.
func Open(ctx context.Context, dataDir string) (*Env, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	cfgPath, err := config.EnsureUserConfig(dataDir, "")
	if err != nil {
		return nil, fmt.Errorf("config bootstrap: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	e := &Env{
		DataDir: dataDir,
		CfgPath: cfgPath,
		CfgVal:  &atomic.Value{},
		Log:     logging.New(cfg.App.LogLevel, cfg.App.PrettyLogs),
		Hub:     events.NewHub(),
	}
	e.CfgVal.Store(cfg)

	e.DB, err = store.OpenAndMigrate(filepath.Join(dataDir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := e.Apply(ctx, cfg); err != nil {
		_ = e.DB.Close()
		return nil, err
	}
	return e, nil
}

// Lock takes the single-instance lock for the data dir without blocking.
func (e *Env) Lock() error {
	fl := flock.New(filepath.Join(e.DataDir, lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", fl.Path(), err)
	}
	if !ok {
		return ErrLocked
	}
	e.lock = fl
	return nil
}

// Close releases the database and the lock. It is safe to call twice.
func (e *Env) Close() error {
	var errs []error
	if e.DB != nil {
		errs = append(errs, e.DB.Close())
		e.DB = nil
	}
	if e.lock != nil {
		errs = append(errs, e.lock.Unlock())
		e.lock = nil
	}
	return errors.Join(errs...)
}

func (e *Env) Config() config.Config { return e.CfgVal.Load().(config.Config) }

// LoadConfig rereads the user config file.
func (e *Env) LoadConfig() (config.Config, error) { return config.Load(e.CfgPath) }

// Apply stores cfg and rebuilds the classifier from it. On error the old
// config and classifier stay in place.
func (e *Env) Apply(ctx context.Context, cfg config.Config) error {
	c, err := BuildClassifier(ctx, e.DB, e.DataDir, cfg)
	if err != nil {
		return err
	}
	e.CfgVal.Store(cfg)
	e.classifier.Store(c)
	return nil
}

func (e *Env) Classifier() *classify.Classifier { return e.classifier.Load() }

// BuildLexicon loads the lexicon and lays company mappings over it: the
// companies file first, then domains learned in the store.
func BuildLexicon(ctx context.Context, db *store.DB, dataDir string, cfg config.Config) (*lexicon.Lexicon, error) {
	lx, err := lexicon.Load(config.Resolve(dataDir, cfg.Classifier.LexiconPath))
	if err != nil {
		return nil, err
	}
	s := lx.Spec()
	if p := config.Resolve(dataDir, cfg.Classifier.CompaniesPath); p != "" {
		if err := lexicon.OverlayCompanies(&s, p); err != nil {
			return nil, err
		}
	}
	if db != nil {
		learned, err := store.ListCompanyDomains(ctx, db.Pool)
		if err != nil {
			return nil, fmt.Errorf("company domains: %w", err)
		}
		if len(learned) > 0 {
			s.CompanyDomains = append(learned, s.CompanyDomains...)
		}
	}
	return lexicon.Compile(s)
}

func BuildClassifier(ctx context.Context, db *store.DB, dataDir string, cfg config.Config) (*classify.Classifier, error) {
	lx, err := BuildLexicon(ctx, db, dataDir, cfg)
	if err != nil {
		return nil, err
	}
	return classify.New(lx, classify.Options{
		MinScore: cfg.Classifier.MinScore,
		Window:   time.Duration(cfg.Classifier.RecencyDays) * 24 * time.Hour,
		Weights:  cfg.Classifier.Weights,
	}), nil
}

// Fetchers builds the mail sources for cfg. "none" yields no fetchers.
func (e *Env) Fetchers(ctx context.Context, cfg config.Config) ([]inbox.Fetcher, error) {
	switch cfg.Email.Source {
	case "none", "":
		return nil, nil
	case "imap":
		account := secrets.IMAPKeyringAccount(cfg)
		return []inbox.Fetcher{&inbox.IMAPFetcher{
			Host:      cfg.Email.IMAP.Host,
			Port:      cfg.Email.IMAP.Port,
			Username:  cfg.Email.IMAP.Username,
			Password:  func() (string, error) { return secrets.GetIMAPPassword(account) },
			Mailbox:   cfg.Email.IMAP.Mailbox,
			SinceDays: cfg.Email.SinceDays,
			Max:       cfg.Email.MaxMessages,
			Log:       logging.Component(e.Log, "imap"),
		}}, nil
	case "gmail":
		g, err := inbox.NewGmailFetcher(ctx,
			config.Resolve(e.DataDir, cfg.Email.Gmail.CredentialsFile),
			config.Resolve(e.DataDir, cfg.Email.Gmail.TokenFile),
			cfg.Email.Gmail.Query,
			int64(cfg.Email.MaxMessages),
			logging.Component(e.Log, "gmail"),
		)
		if err != nil {
			return nil, err
		}
		return []inbox.Fetcher{g}, nil
	default:
		return nil, fmt.Errorf("unknown email source %q", cfg.Email.Source)
	}
}

// Calendar returns nil when pushing is disabled. The guarded client is
// shared across scans so breaker failures accumulate.
func (e *Env) Calendar(ctx context.Context, cfg config.Config) (calendar.Pusher, error) {
	if !cfg.Calendar.Enabled {
		return nil, nil
	}
	want := calendarSettings{
		credentials: config.Resolve(e.DataDir, cfg.Calendar.CredentialsFile),
		token:       config.Resolve(e.DataDir, cfg.Calendar.TokenFile),
		calendarID:  cfg.Calendar.CalendarID,
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cal != nil && e.calKey == want {
		return e.cal, nil
	}
	build := e.newCalendar
	if build == nil {
		build = calendar.NewGoogleCalendar
	}
	p, err := build(ctx, want.credentials, want.token, want.calendarID, logging.Component(e.Log, "calendar"))
	if err != nil {
		return nil, err
	}
	e.cal, e.calKey = p, want
	return p, nil
}

// ScanDeps snapshots the current config into poll.Deps.
func (e *Env) ScanDeps(ctx context.Context) (poll.Deps, error) {
	cfg := e.Config()
	fetchers, err := e.Fetchers(ctx, cfg)
	if err != nil {
		return poll.Deps{}, err
	}
	cal, err := e.Calendar(ctx, cfg)
	if err != nil {
		return poll.Deps{}, err
	}
	return poll.Deps{
		DB:            e.DB.Pool,
		Classifier:    e.Classifier(),
		Fetchers:      fetchers,
		Calendar:      cal,
		Hub:           e.Hub,
		Log:           logging.Component(e.Log, "scan"),
		Workers:       cfg.Classifier.Workers,
		FetchTimeout:  time.Duration(cfg.Polling.FetchTimeoutSeconds) * time.Second,
		EventDuration: time.Duration(cfg.Calendar.DurationMinutes) * time.Minute,
		RetentionDays: cfg.Store.RetentionDays,
	}, nil
}

// Poller builds deps under ctx for every run.
func (e *Env) Poller(ctx context.Context) *poll.Poller {
	return poll.NewPoller(func() (poll.Deps, error) {
		return e.ScanDeps(ctx)
	}, logging.Component(e.Log, "poller"))
}

// Research returns a question bank over one shared client, so the
// configured request rate holds across callers.
func (e *Env) Research() (research.Bank, error) {
	cfg := e.Config()
	key, err := secrets.GetLinkupAPIKey()
	if err != nil && !errors.Is(err, secrets.ErrNotFound) {
		return research.Bank{}, err
	}
	want := researchSettings{
		endpoint: cfg.Research.Endpoint,
		apiKey:   key,
		rps:      cfg.Research.RequestsPerSecond,
		timeout:  time.Duration(cfg.Research.TimeoutSeconds) * time.Second,
	}

	e.mu.Lock()
	if e.research == nil || e.researchKey != want {
		e.research = research.New(want.endpoint, want.apiKey, want.rps, want.timeout, logging.Component(e.Log, "research"))
		e.researchKey = want
	}
	c := e.research
	e.mu.Unlock()

	return research.Bank{DB: e.DB.Pool, Search: c}, nil
}
