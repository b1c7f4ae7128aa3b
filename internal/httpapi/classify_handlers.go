package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"interview-engine/internal/classify"
	"interview-engine/internal/domain"
)

const maxClassifyBody = 2 << 20

type ClassifyHandler struct {
	Classifier func() *classify.Classifier
}

// Classify takes an Email as JSON and returns the full trace. An optional
// ?now=RFC3339 pins the clock for year inference and the recency guard.
func (h ClassifyHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var e domain.Email
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClassifyBody))
	if err := dec.Decode(&e); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	now := time.Now()
	if s := r.URL.Query().Get("now"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_now", "now must be RFC3339")
			return
		}
		now = t
	}

	WriteJSON(w, http.StatusOK, h.Classifier().Trace(e, now))
}
