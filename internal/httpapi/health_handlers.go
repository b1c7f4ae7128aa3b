package httpapi

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	Started time.Time
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true}
	if !h.Started.IsZero() {
		out["uptime_seconds"] = int(time.Since(h.Started).Seconds())
	}
	WriteJSON(w, http.StatusOK, out)
}
