package httptransport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	appconversation "agronomo-ia/internal/app/conversation"
	"agronomo-ia/internal/store"
	"agronomo-ia/internal/tavus"

	"github.com/go-chi/chi/v5"
)

const maxCreateBodyBytes = 4096

type ConversationHandlers struct {
	svc *appconversation.Service
}

func NewConversationHandlers(svc *appconversation.Service) *ConversationHandlers {
	return &ConversationHandlers{svc: svc}
}

// Create accepts an optional body of overrides. An empty body uses the
// configured replica, persona and language.
func (h *ConversationHandlers) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts tavus.ConversationOptions
		if r.Body != nil {
			dec := json.NewDecoder(io.LimitReader(r.Body, maxCreateBodyBytes))
			dec.DisallowUnknownFields()
			if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
				WriteHTTPError(w, http.StatusBadRequest, "invalid_json")
				return
			}
		}
		conv, err := h.svc.Create(r.Context(), appconversation.SourceAPI, opts)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, conv)
	}
}

func (h *ConversationHandlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := ParsePagination(r)
		items, err := h.svc.History(r.Context(), limit, offset)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
	}
}

func (h *ConversationHandlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := h.svc.Attempt(r.Context(), chi.URLParam(r, "attempt_id"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// statusForError maps service and client errors to an HTTP status and code.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, appconversation.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, appconversation.ErrHistoryDisabled):
		return http.StatusNotImplemented, "history_disabled"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	}
	switch tavus.KindOf(err) {
	case tavus.KindConfiguration:
		return http.StatusServiceUnavailable, "not_configured"
	case tavus.KindTransport:
		return http.StatusBadGateway, "upstream_unreachable"
	case tavus.KindAPI:
		if s := tavus.HTTPStatusOf(err); s >= 400 && s < 500 {
			return s, "upstream_rejected"
		}
		return http.StatusBadGateway, "upstream_rejected"
	case tavus.KindParse:
		return http.StatusBadGateway, "upstream_bad_response"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status, code := statusForError(err)
	if status == http.StatusInternalServerError {
		WriteHTTPError(w, status, code)
		return
	}
	WriteHTTPErrorMessage(w, status, code, err.Error())
}
