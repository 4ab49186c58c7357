package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/webstudio/internal/i18n"
	"github.com/alextreichler/webstudio/internal/models"
	"github.com/alextreichler/webstudio/internal/pagination"
	"github.com/alextreichler/webstudio/internal/store"
)

var (
	siteLocales = []i18n.Locale{i18n.RU, i18n.RO, i18n.EN}
	services    = []models.InquiryType{
		models.InquiryLanding, models.InquiryBusiness, models.InquiryShop,
		models.InquirySupport, models.InquirySEO, models.InquiryAds,
	}
)

const homeLatest = 3

// SiteHandler serves the public pages.
type SiteHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
	PageSize     int

	articles lastGood[models.Article]
	projects lastGood[models.Project]
	contact  lastGood[models.Contact]
}

func (h *SiteHandler) listArticles(ctx context.Context) ([]models.Article, error) {
	return h.articles.load(ctx, "articles", h.Store.ListArticles)
}

func (h *SiteHandler) listProjects(ctx context.Context) ([]models.Project, error) {
	return h.projects.load(ctx, "projects", h.Store.ListProjects)
}

// activeContact returns nil when no contact block was ever saved.
func (h *SiteHandler) activeContact(ctx context.Context) *models.Contact {
	items, err := h.contact.load(ctx, "contact", func(ctx context.Context) ([]models.Contact, error) {
		c, err := h.Store.GetContact(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return []models.Contact{}, nil
		}
		if err != nil {
			return nil, err
		}
		return []models.Contact{*c}, nil
	})
	if err != nil {
		slog.Error("Failed to load contact block", "error", err)
		return nil
	}
	if len(items) == 0 {
		return nil
	}
	return &items[0]
}

// pageData fills what every public page shows: locale switcher, footer
// contact block, flashes and the CSRF field.
func (h *SiteHandler) pageData(w http.ResponseWriter, r *http.Request, titleKey string) map[string]any {
	loc := LocaleFrom(r.Context())
	session, _ := h.SessionStore.Get(r, publicSessionName)
	data := map[string]any{
		"Lang":      loc,
		"Locales":   siteLocales,
		"Path":      r.URL.Path,
		"Title":     i18n.T(loc, titleKey),
		"Contact":   h.activeContact(r.Context()),
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w) // Save session to clear flashes
	return data
}

func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	loc := LocaleFrom(r.Context())
	articles, err := h.listArticles(r.Context())
	if err != nil {
		slog.Error("Failed to list articles", "error", err)
		articles = nil
	}
	projects, err := h.listProjects(r.Context())
	if err != nil {
		slog.Error("Failed to list projects", "error", err)
		projects = nil
	}

	data := h.pageData(w, r, "nav.home")
	data["Articles"] = models.LocalizeAll(firstN(articles, homeLatest), loc)
	data["Projects"] = models.LocalizeAll(firstN(projects, homeLatest), loc)
	data["Services"] = services
	render(w, h.Templates, "home.html", data)
}

func (h *SiteHandler) Services(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r, "nav.services")
	data["Services"] = services
	render(w, h.Templates, "services.html", data)
}

// Portfolio lists projects in priority order, optionally filtered by ?type=.
func (h *SiteHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	projects, err := h.listProjects(r.Context())
	if err != nil {
		slog.Error("Failed to list projects", "error", err)
		http.Error(w, "Error fetching projects", http.StatusInternalServerError)
		return
	}

	loc := LocaleFrom(r.Context())
	filter := models.ProjectType(r.URL.Query().Get("type"))
	if filter.Valid() {
		projects = pagination.FilterBy(projects, func(p models.Project) bool { return p.Type == filter })
	} else {
		filter = ""
	}

	pager := pagination.New(models.LocalizeAll(projects, loc), h.PageSize)
	pager.GoToPage(parsePositiveInt(r.URL.Query().Get("page"), 1))

	data := h.pageData(w, r, "nav.portfolio")
	data["Projects"] = pager.CurrentData()
	data["Pager"] = pager
	data["Types"] = models.ProjectTypes
	data["FilterParam"] = "type"
	data["FilterValue"] = string(filter)
	render(w, h.Templates, "portfolio.html", data)
}

// Blog lists articles newest first, optionally filtered by ?category=.
func (h *SiteHandler) Blog(w http.ResponseWriter, r *http.Request) {
	articles, err := h.listArticles(r.Context())
	if err != nil {
		slog.Error("Failed to list articles", "error", err)
		http.Error(w, "Error fetching articles", http.StatusInternalServerError)
		return
	}

	loc := LocaleFrom(r.Context())
	filter := models.CategoryKey(r.URL.Query().Get("category"))
	if filter.Valid() {
		articles = pagination.FilterBy(articles, func(a models.Article) bool { return a.CategoryKey == filter })
	} else {
		filter = ""
	}

	pager := pagination.New(models.LocalizeAll(articles, loc), h.PageSize)
	pager.GoToPage(parsePositiveInt(r.URL.Query().Get("page"), 1))

	data := h.pageData(w, r, "nav.blog")
	data["Articles"] = pager.CurrentData()
	data["Pager"] = pager
	data["Categories"] = models.CategoryKeys
	data["FilterParam"] = "category"
	data["FilterValue"] = string(filter)
	render(w, h.Templates, "blog.html", data)
}

func (h *SiteHandler) Article(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	article, err := h.Store.GetArticle(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("Failed to get article", "id", id, "error", err)
		http.Error(w, "Error fetching article", http.StatusInternalServerError)
		return
	}

	localized := article.Localized(LocaleFrom(r.Context()))
	data := h.pageData(w, r, "nav.blog")
	data["Title"] = localized.Title
	data["Article"] = localized
	render(w, h.Templates, "article.html", data)
}

func (h *SiteHandler) Contact(w http.ResponseWriter, r *http.Request) {
	data := h.pageData(w, r, "nav.contact")
	data["Services"] = services
	render(w, h.Templates, "contact.html", data)
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
