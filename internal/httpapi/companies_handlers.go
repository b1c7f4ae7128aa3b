package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"

	"interview-engine/internal/events"
	"interview-engine/internal/lexicon"
	"interview-engine/internal/store"
)

type CompaniesHandler struct {
	DB  *sql.DB
	Hub *events.Hub
	// Reload rebuilds the classifier so new mappings apply to the next email.
	Reload func(ctx context.Context) error
}

func (h CompaniesHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := store.ListCompanyDomains(r.Context(), h.DB)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if rules == nil {
		rules = []lexicon.DomainRule{}
	}
	WriteJSON(w, http.StatusOK, rules)
}

// Upsert takes {"domain":"acme.io","company":"Acme"}.
func (h CompaniesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var in lexicon.DomainRule
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&in); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if strings.TrimSpace(in.Domain) == "" || strings.TrimSpace(in.Company) == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_fields", "domain and company are required")
		return
	}

	if err := store.UpsertCompanyDomain(r.Context(), h.DB, in.Domain, in.Company); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "db_error", err.Error())
		return
	}
	if h.Reload != nil {
		if err := h.Reload(r.Context()); err != nil {
			WriteError(w, r, http.StatusInternalServerError, "reload_failed", err.Error())
			return
		}
	}
	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeCompanies, in)
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true})
}
