package handlers

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/alextreichler/webstudio/internal/store"
	"github.com/alextreichler/webstudio/internal/translate"
)

// Translator fills the translation blocks of a record.
type Translator interface {
	Translate(ctx context.Context, fields []translate.Field) (translate.Result, error)
}

// Uploader stores an image on the CDN and returns its URL.
type Uploader interface {
	Enabled() bool
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type AdminHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
	Templates    *TemplateCache
	Translator   Translator
	Uploader     Uploader
	PageSize     int
}

// adminData is the base template data of every admin page. Reading the
// flashes consumes them, so the session is saved here.
func (h *AdminHandler) adminData(w http.ResponseWriter, r *http.Request, section string) map[string]any {
	session, _ := h.SessionStore.Get(r, adminSessionName)
	data := map[string]any{
		"Section":   section,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
		"Username":  session.Values["username"],
	}
	session.Save(r, w)
	return data
}

// redirectWithFlash stores one flash message and redirects.
func (h *AdminHandler) redirectWithFlash(w http.ResponseWriter, r *http.Request, to, kind, msg string) {
	session, _ := h.SessionStore.Get(r, adminSessionName)
	session.AddFlash(FlashMessage{Type: kind, Message: msg})
	session.Save(r, w)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (h *AdminHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	render(w, h.Templates, "admin_login.html", h.adminData(w, r, "login"))
}

func (h *AdminHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	ok, err := h.authenticate(r.Context(), username, password)
	if err != nil {
		slog.Error("Login failed", "error", err)
		h.redirectWithFlash(w, r, "/admin/login", "error", "Internal Server Error")
		return
	}
	if !ok {
		h.redirectWithFlash(w, r, "/admin/login", "error", "Invalid username or password")
		return
	}

	session, _ := h.SessionStore.Get(r, adminSessionName)
	session.Values["authenticated"] = true
	session.Values["username"] = username
	session.Options.Path = "/"
	session.AddFlash(FlashMessage{Type: "success", Message: "Welcome, " + username + "!"})
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	slog.Info("Login successful", "username", username)
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// authenticate reports whether the credentials match. An unknown user and a
// wrong password look the same to the caller.
func (h *AdminHandler) authenticate(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}
	user, err := h.Store.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}

	ok, legacy := verifyPassword(user.PasswordHash, password)
	if !ok {
		return false, nil
	}
	if legacy {
		slog.Warn("Admin password uses a weak unsalted SHA-256 hash, upgrading to bcrypt", "username", username)
		if hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost); err == nil {
			if err := h.Store.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
				slog.Error("Failed to upgrade password hash", "username", username, "error", err)
			}
		}
	}
	return true, nil
}

// verifyPassword checks bcrypt hashes and legacy hex SHA-256 digests. legacy
// is true when the stored hash is the weak kind.
func verifyPassword(stored, password string) (ok bool, legacy bool) {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil, false
	}
	want, err := hex.DecodeString(stored)
	if err != nil || len(want) != sha256.Size {
		return false, false
	}
	got := sha256.Sum256([]byte(password))
	return subtle.ConstantTimeCompare(got[:], want) == 1, true
}

func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, adminSessionName)
	session.Values["authenticated"] = false
	delete(session.Values, "username")
	session.AddFlash(FlashMessage{Type: "success", Message: "Logged out successfully!"})
	session.Save(r, w)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}

// AuthMiddleware ensures the user is logged in
func (h *AdminHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, _ := h.SessionStore.Get(r, adminSessionName)
		if auth, ok := session.Values["authenticated"].(bool); !ok || !auth {
			slog.Info("AuthMiddleware: User not authenticated, redirecting to login", "path", r.URL.Path)
			session.AddFlash(FlashMessage{Type: "error", Message: "You must be logged in to access this page."})
			session.Save(r, w)
			http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats(r.Context())
	if err != nil {
		slog.Error("Failed to fetch dashboard stats", "error", err)
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}

	data := h.adminData(w, r, "dashboard")
	data["Stats"] = stats
	render(w, h.Templates, "admin_dashboard.html", data)
}
