package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/rs/zerolog"

	"interview-engine/internal/classify"
	"interview-engine/internal/config"
	"interview-engine/internal/events"
	"interview-engine/internal/poll"
	"interview-engine/internal/research"
)

type Deps struct {
	DB  *sql.DB
	Hub *events.Hub
	Log zerolog.Logger

	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	// OnConfig runs after a saved config has been reloaded.
	OnConfig func(config.Config)

	// Classifier returns the current classifier; it changes on reload.
	Classifier func() *classify.Classifier
	// ReloadClassifier picks up company domains saved through the API.
	ReloadClassifier func(ctx context.Context) error
	Poller           *poll.Poller

	// Research is optional; /questions is not mounted without it.
	Research func() (research.Bank, error)
}
