package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"interview-engine/internal/calendar"
	"interview-engine/internal/config"
	"interview-engine/internal/inbox"
	"interview-engine/internal/lexicon"
	"interview-engine/internal/store"
)

func openEnv(t *testing.T, dir string) *Env {
	t.Helper()
	env, err := Open(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func TestOpenBootstraps(t *testing.T) {
	dir := t.TempDir()
	env := openEnv(t, dir)

	assert.FileExists(t, filepath.Join(dir, "config.yml"))
	assert.FileExists(t, filepath.Join(dir, dbFile))
	assert.NotNil(t, env.Classifier())
	assert.Equal(t, "none", env.Config().Email.Source)
}

func TestDataDirFromEnv(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/interviews")
	assert.Equal(t, "/tmp/interviews", DataDir())

	t.Setenv(EnvDataDir, "  ")
	assert.Equal(t, ".", DataDir())
}

func TestLockIsExclusive(t *testing.T) {
	dir := t.TempDir()
	a := openEnv(t, dir)
	b := openEnv(t, dir)

	require.NoError(t, a.Lock())
	assert.ErrorIs(t, b.Lock(), ErrLocked)

	require.NoError(t, a.Close())
	assert.NoError(t, b.Lock())
}

func TestBuildLexiconOverlays(t *testing.T) {
	dir := t.TempDir()
	env := openEnv(t, dir)

	companies := "known_companies: [Zephyrwave]\ncompany_domains:\n  - {domain: zephyr.dev, company: Zephyrwave}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "companies.yml"), []byte(companies), 0o644))
	require.NoError(t, store.UpsertCompanyDomain(context.Background(), env.DB.Pool, "acme-talent.io", "Acme"))

	lx, err := BuildLexicon(context.Background(), env.DB, dir, env.Config())
	require.NoError(t, err)
	s := lx.Spec()

	require.GreaterOrEqual(t, len(s.CompanyDomains), 2)
	assert.Equal(t, lexicon.DomainRule{Domain: "acme-talent.io", Company: "Acme"}, s.CompanyDomains[0])
	assert.Equal(t, lexicon.DomainRule{Domain: "zephyr.dev", Company: "Zephyrwave"}, s.CompanyDomains[1])
	assert.Equal(t, "Zephyrwave", s.KnownCompanies[0])
}

func TestApplyKeepsOldOnError(t *testing.T) {
	dir := t.TempDir()
	env := openEnv(t, dir)
	before := env.Classifier()

	bad := env.Config()
	bad.Classifier.LexiconPath = "missing.yml"
	assert.Error(t, env.Apply(context.Background(), bad))
	assert.Same(t, before, env.Classifier())
	assert.Empty(t, env.Config().Classifier.LexiconPath)

	good := env.Config()
	good.Classifier.MinScore = 5
	require.NoError(t, env.Apply(context.Background(), good))
	assert.Equal(t, 5, env.Classifier().MinScore())
	assert.Equal(t, 5, env.Config().Classifier.MinScore)
}

func TestFetchers(t *testing.T) {
	env := openEnv(t, t.TempDir())
	ctx := context.Background()

	cfg := env.Config()
	got, err := env.Fetchers(ctx, cfg)
	require.NoError(t, err)
	assert.Empty(t, got)

	cfg.Email.Source = "imap"
	cfg.Email.IMAP.Username = "me@example.com"
	got, err = env.Fetchers(ctx, cfg)
	require.NoError(t, err)
	require.Len(t, got, 1)
	im, ok := got[0].(*inbox.IMAPFetcher)
	require.True(t, ok)
	assert.Equal(t, "imap.gmail.com", im.Host)
	assert.Equal(t, 993, im.Port)

	cfg.Email.Source = "gmail"
	_, err = env.Fetchers(ctx, cfg)
	assert.Error(t, err, "no credentials file")

	cfg.Email.Source = "pop3"
	_, err = env.Fetchers(ctx, cfg)
	assert.Error(t, err)
}

func TestScanDepsFromConfig(t *testing.T) {
	env := openEnv(t, t.TempDir())
	cfg := env.Config()
	cfg.Calendar.DurationMinutes = 45
	require.NoError(t, env.Apply(context.Background(), cfg))

	d, err := env.ScanDeps(context.Background())
	require.NoError(t, err)
	assert.Nil(t, d.Calendar)
	assert.Empty(t, d.Fetchers)
	assert.Same(t, env.Classifier(), d.Classifier)
	assert.Equal(t, 45.0, d.EventDuration.Minutes())
	assert.Equal(t, config.Default().Store.RetentionDays, d.RetentionDays)
}

func TestResearchSharesLimiter(t *testing.T) {
	keyring.MockInit()
	t.Setenv("LINKUP_API_KEY", "k-1")

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"answer":"What is a goroutine leak?"}`))
	}))
	defer srv.Close()

	env := openEnv(t, t.TempDir())
	cfg := env.Config()
	cfg.Research.Endpoint = srv.URL
	cfg.Research.RequestsPerSecond = 4
	require.NoError(t, env.Apply(context.Background(), cfg))

	first, err := env.Research()
	require.NoError(t, err)
	second, err := env.Research()
	require.NoError(t, err)
	assert.Same(t, first.Search, second.Search)

	ctx := context.Background()
	_, err = first.Search.Search(ctx, "Acme interview questions")
	require.NoError(t, err)

	start := time.Now()
	_, err = second.Search.Search(ctx, "Acme interview questions")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond, "second search waits for the shared limiter")
	assert.Equal(t, int32(2), hits.Load())

	cfg.Research.RequestsPerSecond = 8
	require.NoError(t, env.Apply(context.Background(), cfg))
	third, err := env.Research()
	require.NoError(t, err)
	assert.NotSame(t, first.Search, third.Search, "new settings build a new client")
}

type stubPusher struct{ id string }

func (stubPusher) CreateEvent(context.Context, calendar.Event) (calendar.Created, error) {
	return calendar.Created{}, nil
}

func TestCalendarIsReusedAcrossScans(t *testing.T) {
	env := openEnv(t, t.TempDir())
	builds := 0
	env.newCalendar = func(_ context.Context, _, _, calendarID string, _ zerolog.Logger) (calendar.Pusher, error) {
		builds++
		return &stubPusher{id: calendarID}, nil
	}

	cfg := env.Config()
	cfg.Calendar.Enabled = true
	require.NoError(t, env.Apply(context.Background(), cfg))

	a, err := env.ScanDeps(context.Background())
	require.NoError(t, err)
	b, err := env.ScanDeps(context.Background())
	require.NoError(t, err)
	assert.Same(t, a.Calendar, b.Calendar)
	assert.Equal(t, 1, builds)

	cfg.Calendar.CalendarID = "work"
	require.NoError(t, env.Apply(context.Background(), cfg))
	c, err := env.ScanDeps(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, a.Calendar, c.Calendar)
	assert.Equal(t, "work", c.Calendar.(*stubPusher).id)
	assert.Equal(t, 2, builds)
}
