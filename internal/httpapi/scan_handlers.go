package httpapi

import (
	"context"
	"errors"
	"net/http"

	"interview-engine/internal/poll"
)

type ScanHandler struct {
	Poller *poll.Poller
}

func (h ScanHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Poller.Status())
}

// Run starts a scan. ?dry_run=1 skips storage and calendar pushes; ?wait=1
// blocks and returns the report.
func (h ScanHandler) Run(w http.ResponseWriter, r *http.Request) {
	opts := poll.ScanOptions{
		DryRun:    queryBool(r, "dry_run"),
		RequestID: RequestIDFrom(r.Context()),
	}

	if queryBool(r, "wait") {
		rep, err := h.Poller.Run(r.Context(), opts)
		switch {
		case errors.Is(err, poll.ErrBusy):
			WriteError(w, r, http.StatusConflict, "busy", err.Error())
		case err != nil:
			WriteError(w, r, http.StatusBadGateway, "scan_failed", err.Error())
		default:
			WriteJSON(w, http.StatusOK, rep)
		}
		return
	}

	if h.Poller.Status().Running {
		WriteError(w, r, http.StatusConflict, "busy", poll.ErrBusy.Error())
		return
	}
	go func() {
		// outlives the request; the poller logs the outcome
		_, _ = h.Poller.Run(context.Background(), opts)
	}()
	WriteJSON(w, http.StatusAccepted, map[string]any{"ok": true, "request_id": opts.RequestID})
}
