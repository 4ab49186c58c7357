package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alextreichler/webstudio/internal/models"
	"github.com/alextreichler/webstudio/internal/pagination"
	"github.com/alextreichler/webstudio/internal/store"
)

const analyticsTopPages = 10

// ListRequests shows contact requests, newest first, filtered by ?status=.
func (h *AdminHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	status := models.RequestStatus(r.URL.Query().Get("status"))
	if !status.Valid() {
		status = ""
	}

	requests, err := h.Store.ListContactRequests(r.Context(), status)
	if err != nil {
		slog.Error("Failed to list contact requests", "error", err)
		http.Error(w, "Error fetching requests", http.StatusInternalServerError)
		return
	}
	pager := pagination.New(requests, h.PageSize)
	pager.GoToPage(parsePositiveInt(r.URL.Query().Get("page"), 1))

	data := h.adminData(w, r, "requests")
	data["Requests"] = pager.CurrentData()
	data["Pager"] = pager
	data["Statuses"] = models.RequestStatuses
	data["FilterParam"] = "status"
	data["FilterValue"] = string(status)
	render(w, h.Templates, "admin_requests.html", data)
}

func (h *AdminHandler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/requests", "error", "Invalid ID.")
		return
	}
	status := models.RequestStatus(r.FormValue("status"))
	if !status.Valid() {
		h.redirectWithFlash(w, r, "/admin/requests", "error", "Invalid status.")
		return
	}

	err := h.Store.UpdateContactRequestStatus(r.Context(), id, status)
	if errors.Is(err, store.ErrNotFound) {
		h.redirectWithFlash(w, r, "/admin/requests", "error", "Request not found.")
		return
	}
	if err != nil {
		slog.Error("Failed to update request status", "id", id, "error", err)
		h.redirectWithFlash(w, r, "/admin/requests", "error", "Error updating request.")
		return
	}
	h.redirectWithFlash(w, r, "/admin/requests", "success", "Request status updated.")
}

func (h *AdminHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r.FormValue("id"))
	if !ok {
		h.redirectWithFlash(w, r, "/admin/requests", "error", "Invalid ID.")
		return
	}
	if err := h.Store.DeleteContactRequest(r.Context(), id); err != nil {
		slog.Error("Failed to delete request", "id", id, "error", err)
		h.redirectWithFlash(w, r, "/admin/requests", "error", "Error deleting request.")
		return
	}
	h.redirectWithFlash(w, r, "/admin/requests", "success", "Request deleted.")
}

func (h *AdminHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subscribers, err := h.Store.ListSubscribers(r.Context())
	if err != nil {
		slog.Error("Failed to list subscribers", "error", err)
		http.Error(w, "Error fetching subscribers", http.StatusInternalServerError)
		return
	}
	data := h.adminData(w, r, "subscribers")
	data["Subscribers"] = subscribers
	render(w, h.Templates, "admin_subscribers.html", data)
}

func (h *AdminHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Store.GetAnalyticsSummary(r.Context(), analyticsTopPages)
	if err != nil {
		slog.Error("Failed to load analytics", "error", err)
		http.Error(w, "Error fetching analytics", http.StatusInternalServerError)
		return
	}
	data := h.adminData(w, r, "analytics")
	data["Summary"] = summary
	render(w, h.Templates, "admin_analytics.html", data)
}
