package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alextreichler/webstudio/internal/models"
	"github.com/alextreichler/webstudio/internal/store"
)

func (h *AdminHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	contact, err := h.Store.GetContact(r.Context())
	if errors.Is(err, store.ErrNotFound) {
		contact, err = &models.Contact{}, nil
	}
	if err != nil {
		slog.Error("Failed to get contact", "error", err)
		http.Error(w, "Error fetching contact info", http.StatusInternalServerError)
		return
	}
	data := h.adminData(w, r, "contact")
	data["Contact"] = contact
	render(w, h.Templates, "admin_contact.html", data)
}

func (h *AdminHandler) SaveContact(w http.ResponseWriter, r *http.Request) {
	c := &models.Contact{
		Phone:         strings.TrimSpace(r.FormValue("phone")),
		Email:         strings.TrimSpace(r.FormValue("email")),
		Address:       strings.TrimSpace(r.FormValue("address")),
		WhatsAppLink:  strings.TrimSpace(r.FormValue("whatsapp_link")),
		TelegramLink:  strings.TrimSpace(r.FormValue("telegram_link")),
		FacebookLink:  optional(r.FormValue("facebook_link")),
		InstagramLink: optional(r.FormValue("instagram_link")),
	}
	if c.Phone == "" || !validEmail(c.Email) {
		h.redirectWithFlash(w, r, "/admin/contact", "error", "Phone and a valid email are required.")
		return
	}

	if err := h.Store.SaveContact(r.Context(), c); err != nil {
		slog.Error("Failed to save contact", "error", err)
		h.redirectWithFlash(w, r, "/admin/contact", "error", "Error saving contact info.")
		return
	}
	h.redirectWithFlash(w, r, "/admin/contact", "success", "Contact info saved.")
}
