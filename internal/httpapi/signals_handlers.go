package httpapi

import (
	"database/sql"
	"net/http"
	"strings"

	"interview-engine/internal/export"
	"interview-engine/internal/store"
)

type SignalsHandler struct {
	DB *sql.DB
}

// List serves GET /signals?bucket=calendar|action|all&company=&limit=
func (h SignalsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	bucket := strings.ToLower(strings.TrimSpace(q.Get("bucket")))
	switch bucket {
	case "", "all", "calendar", "action":
	default:
		WriteError(w, r, http.StatusBadRequest, "bad_bucket", "bucket must be calendar, action or all")
		return
	}

	sigs, err := store.ListSignals(r.Context(), h.DB, store.ListSignalsOpts{
		Bucket:  bucket,
		Company: q.Get("company"),
		Limit:   queryInt(r, "limit", 200),
	})
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if sigs == nil {
		sigs = []store.Signal{}
	}
	WriteJSON(w, http.StatusOK, sigs)
}

func (h SignalsHandler) Applications(w http.ResponseWriter, r *http.Request) {
	apps, err := store.ListApplications(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if apps == nil {
		apps = []store.Application{}
	}
	WriteJSON(w, http.StatusOK, apps)
}

// Export serves GET /export?format=csv|xlsx. CSV carries applications only.
func (h SignalsHandler) Export(w http.ResponseWriter, r *http.Request) {
	apps, err := store.ListApplications(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="applications.csv"`)
		_ = export.WriteCSV(w, apps)
	case "xlsx":
		sigs, err := store.ListSignals(r.Context(), h.DB, store.ListSignalsOpts{Limit: 2000})
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="interviews.xlsx"`)
		_ = export.WriteXLSX(w, apps, sigs)
	default:
		WriteError(w, r, http.StatusBadRequest, "bad_format", "format must be csv or xlsx")
	}
}
