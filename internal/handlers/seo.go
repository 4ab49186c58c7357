package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alextreichler/webstudio/internal/sitemap"
	"github.com/alextreichler/webstudio/internal/store"
)

type SEOHandler struct {
	Store   *store.Store
	SiteURL string
}

func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(sitemap.Robots(h.SiteURL)))
}

func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Store.ListArticles(r.Context())
	if err != nil {
		slog.Error("Failed to list articles for sitemap", "error", err)
		http.Error(w, "Error building sitemap", http.StatusInternalServerError)
		return
	}

	stamps := make([]sitemap.ArticleStamp, 0, len(articles))
	for _, a := range articles {
		created := a.CreatedAt
		stamps = append(stamps, sitemap.ArticleStamp{ID: a.ID, CreatedAt: &created, UpdatedAt: a.UpdatedAt})
	}

	out, err := sitemap.Build(h.SiteURL, sitemap.StaticRoutes, stamps, time.Now())
	if err != nil {
		slog.Error("Failed to build sitemap", "error", err)
		http.Error(w, "Error building sitemap", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}
