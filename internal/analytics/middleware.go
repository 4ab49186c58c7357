package analytics

import (
	"context"
	"net/http"
	"strings"
)

// untracked prefixes serve assets or machine endpoints rather than pages.
var untracked = []string{"/static/", "/api/", "/metrics", "/robots.txt", "/sitemap.xml", "/favicon"}

func trackable(r *http.Request) bool {
	if r.Method != http.MethodGet || IsExcluded(r.URL.Path) {
		return false
	}
	for _, p := range untracked {
		if strings.HasPrefix(r.URL.Path, p) {
			return false
		}
	}
	return true
}

// Middleware records a page view for every public GET page. Identity cookies
// are set before the handler writes. Page views are queued in request order
// and written by a single background worker.
func (t *Tracker) Middleware(identity *CookieIdentity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !trackable(r) {
				next.ServeHTTP(w, r)
				return
			}
			id := identity.Resolve(w, r)
			t.enqueue(navigation{
				ctx:       context.WithoutCancel(r.Context()),
				id:        id,
				path:      r.URL.Path,
				referrer:  r.Referer(),
				userAgent: r.UserAgent(),
			})

			next.ServeHTTP(w, r)
		})
	}
}
