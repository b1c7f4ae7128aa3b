package httpapi

import (
	"net/http"
	"time"
)

// NewMux returns the raw mux; Handler wraps it with the middleware stack.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	hh := HealthHandler{Started: time.Now()}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// Signals
	sh := SignalsHandler{DB: d.DB}
	mux.HandleFunc("/signals", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.List,
	}))
	mux.HandleFunc("/applications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Applications,
	}))
	mux.HandleFunc("/export", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Export,
	}))

	if d.Classifier != nil {
		clh := ClassifyHandler{Classifier: d.Classifier}
		mux.HandleFunc("/classify", methodMux(map[string]http.HandlerFunc{
			http.MethodPost: clh.Classify,
		}))
	}

	coh := CompaniesHandler{DB: d.DB, Hub: d.Hub, Reload: d.ReloadClassifier}
	mux.HandleFunc("/companies/domains", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  coh.List,
		http.MethodPost: coh.Upsert,
	}))

	// Scans
	if d.Poller != nil {
		sch := ScanHandler{Poller: d.Poller}
		mux.HandleFunc("/scan/status", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: sch.Status,
		}))
		mux.HandleFunc("/scan/run", methodMux(map[string]http.HandlerFunc{
			http.MethodPost: sch.Run,
		}))
	}

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		OnConfig:    d.OnConfig,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sec := SecretsHandler{CfgVal: d.CfgVal}
	mux.HandleFunc("/api/secrets/imap", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sec.SetIMAPPassword,
	}))

	if d.Research != nil {
		qh := QuestionsHandler{Bank: d.Research}
		mux.HandleFunc("/questions", methodMux(map[string]http.HandlerFunc{
			http.MethodGet: qh.List,
		}))
	}

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	dbh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: dbh.Checkpoint,
	}))

	return mux
}

// Handler is NewMux behind request ids, panic recovery, access logs and CORS.
func Handler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, Recover(d.Log), AccessLog(d.Log), Cors)
}
