package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/sessions"

	"github.com/alextreichler/webstudio/internal/i18n"
	"github.com/alextreichler/webstudio/internal/metrics"
	"github.com/alextreichler/webstudio/internal/models"
	"github.com/alextreichler/webstudio/internal/notify"
	"github.com/alextreichler/webstudio/internal/store"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)
)

const minMessageLen = 10

// Notifier delivers owner notifications. *notify.Relay satisfies it.
type Notifier interface {
	Send(ctx context.Context, n notify.Notification) error
}

type contactForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ProjectType string `json:"project_type"`
	Message     string `json:"message"`
}

func (f *contactForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.ProjectType = strings.TrimSpace(f.ProjectType)
	f.Message = strings.TrimSpace(f.Message)
}

// validate returns field errors; an empty map means the form is valid.
func (f contactForm) validate() map[string]string {
	errs := make(map[string]string)
	if utf8.RuneCountInString(f.Name) < 2 {
		errs["name"] = "Name is required."
	}
	if !emailPattern.MatchString(f.Email) {
		errs["email"] = "A valid email is required."
	}
	if !phonePattern.MatchString(f.Phone) {
		errs["phone"] = "A valid phone number is required."
	}
	if !models.InquiryType(f.ProjectType).Valid() {
		errs["project_type"] = "Invalid project type selected."
	}
	if utf8.RuneCountInString(f.Message) < minMessageLen {
		errs["message"] = "Message must be at least 10 characters."
	}
	return errs
}

func validEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// Inbox stores contact requests and newsletter signups and tells the owner.
type Inbox struct {
	Store    *store.Store
	Notifier Notifier
}

func (in *Inbox) submitContact(ctx context.Context, f contactForm) (*models.ContactRequest, error) {
	req := &models.ContactRequest{
		Name:        f.Name,
		Email:       f.Email,
		Phone:       f.Phone,
		ProjectType: models.InquiryType(f.ProjectType),
		Message:     f.Message,
	}
	if err := in.Store.CreateContactRequest(ctx, req); err != nil {
		return nil, err
	}
	metrics.ContactRequests.Inc()

	in.notify(ctx, notify.Notification{
		Type: notify.KindContact,
		Payload: map[string]string{
			"name":         req.Name,
			"email":        req.Email,
			"phone":        req.Phone,
			"project_type": string(req.ProjectType),
			"message":      req.Message,
		},
	})
	return req, nil
}

func (in *Inbox) subscribe(ctx context.Context, email string) (models.SubscribeOutcome, error) {
	outcome, err := in.Store.Subscribe(ctx, email)
	if err != nil {
		metrics.NewsletterSignups.WithLabelValues("failed").Inc()
		return "", err
	}
	metrics.NewsletterSignups.WithLabelValues(string(outcome)).Inc()
	if outcome == models.Subscribed {
		in.notify(ctx, notify.Notification{
			Type:    notify.KindNewsletter,
			Payload: map[string]string{"email": strings.ToLower(strings.TrimSpace(email))},
		})
	}
	return outcome, nil
}

// notify is best effort: the submission has already been stored.
func (in *Inbox) notify(ctx context.Context, n notify.Notification) {
	if in.Notifier == nil {
		return
	}
	if err := in.Notifier.Send(ctx, n); err != nil {
		if errors.Is(err, notify.ErrNotConfigured) {
			slog.Debug("Notification skipped, relay not configured", "type", n.Type)
			return
		}
		slog.Error("Failed to send notification", "type", n.Type, "error", err)
	}
}

// ContactHandler handles the public contact and newsletter forms.
type ContactHandler struct {
	Inbox        *Inbox
	SessionStore *sessions.CookieStore
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, publicSessionName)
	defer func() {
		session.Save(r, w)
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
	}()
	loc := LocaleFrom(r.Context())

	f := contactForm{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Phone:       r.FormValue("phone"),
		ProjectType: r.FormValue("project_type"),
		Message:     r.FormValue("message"),
	}
	f.normalize()
	if errs := f.validate(); len(errs) > 0 {
		for _, msg := range errs {
			session.AddFlash(FlashMessage{Type: "error", Message: msg})
		}
		return
	}

	if _, err := h.Inbox.submitContact(r.Context(), f); err != nil {
		slog.Error("Failed to save contact request", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: i18n.T(loc, "contact.failed")})
		return
	}
	session.AddFlash(FlashMessage{Type: "success", Message: i18n.T(loc, "contact.sent")})
}

func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, publicSessionName)
	defer func() {
		session.Save(r, w)
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
	}()
	loc := LocaleFrom(r.Context())

	email := r.FormValue("email")
	if !validEmail(email) {
		session.AddFlash(FlashMessage{Type: "error", Message: i18n.T(loc, "newsletter.invalid")})
		return
	}

	outcome, err := h.Inbox.subscribe(r.Context(), email)
	switch {
	case err != nil:
		slog.Error("Failed to subscribe", "error", err)
		session.AddFlash(FlashMessage{Type: "error", Message: i18n.T(loc, "newsletter.failed")})
	case outcome == models.AlreadySubscribed:
		session.AddFlash(FlashMessage{Type: "info", Message: i18n.T(loc, "newsletter.already")})
	default:
		session.AddFlash(FlashMessage{Type: "success", Message: i18n.T(loc, "newsletter.success")})
	}
}

// backTo returns the same-site page the form was posted from, else "/".
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
