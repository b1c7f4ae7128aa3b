package httpapi

import (
	"database/sql"
	"net"
	"net/http"

	"interview-engine/internal/store"
)

type DBHandler struct {
	DB *sql.DB
}

// Checkpoint is loopback-only; a desktop shell calls it before copying the
// database file.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip := net.ParseIP(host); host != "localhost" && (ip == nil || !ip.IsLoopback()) {
		WriteError(w, r, http.StatusForbidden, "forbidden", "loopback only")
		return
	}

	if err := store.Checkpoint(r.Context(), h.DB); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "checkpoint_failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
