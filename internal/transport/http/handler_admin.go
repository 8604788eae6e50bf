package httptransport

import (
	"context"
	"net/http"

	appconversation "agronomo-ia/internal/app/conversation"
)

// Pinger is the attempt store as seen by the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminHandlers struct {
	store      Pinger
	svc        *appconversation.Service
	configured func() bool
}

// NewAdminHandlers builds the health and summary handlers. st is nil when
// the attempt store is disabled.
func NewAdminHandlers(st Pinger, svc *appconversation.Service, configured func() bool) *AdminHandlers {
	if configured == nil {
		configured = func() bool { return false }
	}
	return &AdminHandlers{store: st, svc: svc, configured: configured}
}

func (h *AdminHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"ok": true, "tavus_configured": h.configured(), "store": "disabled"}
		if h.store == nil {
			writeJSON(w, http.StatusOK, body)
			return
		}
		if err := h.store.Ping(r.Context()); err != nil {
			body["ok"] = false
			body["store"] = "down"
			writeJSON(w, http.StatusServiceUnavailable, body)
			return
		}
		body["store"] = "up"
		writeJSON(w, http.StatusOK, body)
	}
}

func (h *AdminHandlers) Summary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := h.svc.Summary(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"outcomes": counts})
	}
}
