package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alextreichler/webstudio/internal/analytics"
	"github.com/alextreichler/webstudio/internal/notify"
	"github.com/alextreichler/webstudio/internal/store"
)

const maxJSONBody = 64 << 10

// APIHandler serves the JSON endpoints used by the page scripts.
type APIHandler struct {
	Inbox    *Inbox
	Tracker  *analytics.Tracker
	Identity *analytics.CookieIdentity
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid body")
		return false
	}
	return true
}

func (h *APIHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var f contactForm
	if !decodeJSON(w, r, &f) {
		return
	}
	f.normalize()
	if errs := f.validate(); len(errs) > 0 {
		respondJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": errs})
		return
	}

	req, err := h.Inbox.submitContact(r.Context(), f)
	if err != nil {
		slog.Error("Failed to save contact request", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to save request")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"status": "success", "id": req.ID})
}

func (h *APIHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if !validEmail(body.Email) {
		respondError(w, http.StatusBadRequest, "invalid email")
		return
	}

	outcome, err := h.Inbox.subscribe(r.Context(), body.Email)
	if err != nil {
		slog.Error("Failed to subscribe", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": string(outcome)})
}

func (h *APIHandler) ContactInfo(w http.ResponseWriter, r *http.Request) {
	c, err := h.Inbox.Store.GetContact(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, "contact info not set")
		return
	}
	if err != nil {
		slog.Error("Failed to get contact info", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load contact info")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// Event records a custom analytics event sent by the page script.
func (h *APIHandler) Event(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name  string `json:"event_name"`
		Label string `json:"event_label"`
		Type  string `json:"event_type"`
		Path  string `json:"page_path"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || body.Path == "" {
		respondError(w, http.StatusBadRequest, "event_name and page_path are required")
		return
	}

	id := h.Identity.Resolve(w, r)
	h.Tracker.TrackEvent(r.Context(), id, body.Path, body.Name, body.Label, body.Type)
	w.WriteHeader(http.StatusNoContent)
}

// Duration is the unload beacon: it sets the time spent on page_path, or on
// the latest page of the session when page_path is missing.
func (h *APIHandler) Duration(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Duration int    `json:"duration"`
		Path     string `json:"page_path"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Duration < 0 {
		respondError(w, http.StatusBadRequest, "duration must not be negative")
		return
	}

	c, err := r.Cookie(analytics.SessionCookie)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.Tracker.UpdateSessionDuration(r.Context(), c.Value, body.Path, body.Duration)
	w.WriteHeader(http.StatusNoContent)
}

// SendEmail relays a notification to the site owner.
func (h *APIHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var n notify.Notification
	if !decodeJSON(w, r, &n) {
		return
	}
	if !n.Type.Valid() {
		respondError(w, http.StatusBadRequest, "unknown notification type")
		return
	}
	if h.Inbox.Notifier == nil {
		respondError(w, http.StatusServiceUnavailable, "e-mail relay is not configured")
		return
	}

	err := h.Inbox.Notifier.Send(r.Context(), n)
	var apiErr *notify.Error
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]string{"status": "sent"})
	case errors.Is(err, notify.ErrNotConfigured):
		respondError(w, http.StatusServiceUnavailable, "e-mail relay is not configured")
	case errors.As(err, &apiErr):
		slog.Error("E-mail API rejected notification", "status", apiErr.Status, "error", err)
		respondError(w, http.StatusBadGateway, "failed to send e-mail")
	default:
		slog.Error("Failed to send notification", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to send e-mail")
	}
}
