package analytics

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	VisitorCookie = "vid"
	SessionCookie = "sid"

	visitorMaxAge = 365 * 24 * time.Hour
)

// Identity correlates analytics rows without user accounts.
type Identity struct {
	VisitorID string
	SessionID string
}

// CookieIdentity hands out the visitor id (durable cookie) and session id
// (browser-session cookie) for a request, minting them on first sight.
// One instance is built at start-up and shared by the handlers.
type CookieIdentity struct {
	Secure bool
	Domain string
}

func NewCookieIdentity(secure bool, domain string) *CookieIdentity {
	return &CookieIdentity{Secure: secure, Domain: domain}
}

// VisitorID returns the persistent visitor id, setting the cookie when absent.
func (c *CookieIdentity) VisitorID(w http.ResponseWriter, r *http.Request) string {
	return c.get(w, r, VisitorCookie, visitorMaxAge)
}

// SessionID returns the session id. Its cookie has no expiry, so the browser
// drops it when the session ends.
func (c *CookieIdentity) SessionID(w http.ResponseWriter, r *http.Request) string {
	return c.get(w, r, SessionCookie, 0)
}

func (c *CookieIdentity) Resolve(w http.ResponseWriter, r *http.Request) Identity {
	return Identity{
		VisitorID: c.VisitorID(w, r),
		SessionID: c.SessionID(w, r),
	}
}

func (c *CookieIdentity) get(w http.ResponseWriter, r *http.Request, name string, maxAge time.Duration) string {
	if cookie, err := r.Cookie(name); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     name,
		Value:    id,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
	}
	http.SetCookie(w, cookie)
	// Later lookups in the same request must see the new id.
	r.AddCookie(&http.Cookie{Name: name, Value: id})
	return id
}
