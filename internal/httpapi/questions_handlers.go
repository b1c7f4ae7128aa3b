package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"interview-engine/internal/research"
	"interview-engine/internal/store"
)

type QuestionsHandler struct {
	Bank func() (research.Bank, error)
}

// List serves GET /questions?company=&role=&limit=&fetch=1
func (h QuestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	company := strings.TrimSpace(q.Get("company"))
	if company == "" {
		WriteError(w, r, http.StatusBadRequest, "missing_company", "company is required")
		return
	}

	bank, err := h.Bank()
	if err != nil {
		WriteError(w, r, http.StatusServiceUnavailable, "research_unavailable", err.Error())
		return
	}

	got, err := bank.Past(r.Context(), company, q.Get("role"), queryInt(r, "limit", 8), queryBool(r, "fetch"))
	switch {
	case errors.Is(err, research.ErrNoAPIKey):
		WriteError(w, r, http.StatusServiceUnavailable, "no_api_key", err.Error())
		return
	case err != nil:
		WriteError(w, r, http.StatusBadGateway, "research_failed", err.Error())
		return
	}
	if got == nil {
		got = []store.Question{}
	}
	WriteJSON(w, http.StatusOK, got)
}
