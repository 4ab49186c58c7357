package handlers

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alextreichler/webstudio/internal/analytics"
)

// Routes bundles everything the router mounts.
type Routes struct {
	Site    *SiteHandler
	Contact *ContactHandler
	API     *APIHandler
	Admin   *AdminHandler
	SEO     *SEOHandler

	Tracker  *analytics.Tracker
	Identity *analytics.CookieIdentity

	// CSRF protects every form route. Nil disables it.
	CSRF         func(http.Handler) http.Handler
	CORSOrigins  []string
	CookieSecure bool
	Static       fs.FS
}

func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware)

	formLimiter := NewRateLimiter(3, time.Minute)
	loginLimiter := NewRateLimiter(5, time.Minute)

	r.Get("/robots.txt", rt.SEO.Robots)
	r.Get("/sitemap.xml", rt.SEO.Sitemap)
	if rt.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(rt.Static))))
	}

	r.Route("/api", func(r chi.Router) {
		origins := rt.CORSOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/contact-info", rt.API.ContactInfo)
		r.With(formLimiter.Limit).Post("/contact", rt.API.Contact)
		r.With(formLimiter.Limit).Post("/newsletter", rt.API.Newsletter)
		r.With(formLimiter.Limit).Post("/send-email", rt.API.SendEmail)
		r.Post("/analytics/event", rt.API.Event)
		r.Post("/analytics/duration", rt.API.Duration)
	})

	r.Group(func(r chi.Router) {
		// Bodies are capped before the CSRF layer parses them.
		r.Use(middleware.RequestSize(maxRequestBody))
		if rt.CSRF != nil {
			r.Use(rt.CSRF)
		}
		r.Use(LocaleMiddleware(rt.CookieSecure))

		r.Group(func(r chi.Router) {
			r.Use(rt.Tracker.Middleware(rt.Identity))
			r.Get("/", rt.Site.Home)
			r.Get("/services", rt.Site.Services)
			r.Get("/portfolio", rt.Site.Portfolio)
			r.Get("/blog", rt.Site.Blog)
			r.Get("/blog/{id}", rt.Site.Article)
			r.Get("/contact", rt.Site.Contact)
		})
		r.With(formLimiter.Limit).Post("/contact", rt.Contact.Submit)
		r.With(formLimiter.Limit).Post("/newsletter", rt.Contact.Subscribe)

		r.Get("/admin/login", rt.Admin.LoginGet)
		r.With(loginLimiter.Limit).Post("/admin/login", rt.Admin.LoginPost)
		r.Post("/admin/logout", rt.Admin.Logout)

		r.Group(func(r chi.Router) {
			r.Use(rt.Admin.AuthMiddleware)
			r.Handle("/metrics", promhttp.Handler())

			r.Route("/admin", func(r chi.Router) {
				r.Get("/", rt.Admin.Dashboard)

				r.Get("/articles", rt.Admin.ListArticles)
				r.Get("/articles/new", rt.Admin.NewArticleForm)
				r.Get("/articles/edit", rt.Admin.EditArticleForm)
				r.Post("/articles", rt.Admin.CreateArticle)
				r.Post("/articles/update", rt.Admin.UpdateArticle)
				r.Post("/articles/delete", rt.Admin.DeleteArticle)

				r.Get("/projects", rt.Admin.ListProjects)
				r.Get("/projects/new", rt.Admin.NewProjectForm)
				r.Get("/projects/edit", rt.Admin.EditProjectForm)
				r.Post("/projects", rt.Admin.CreateProject)
				r.Post("/projects/update", rt.Admin.UpdateProject)
				r.Post("/projects/delete", rt.Admin.DeleteProject)
				r.Post("/projects/move", rt.Admin.MoveProject)

				r.Get("/requests", rt.Admin.ListRequests)
				r.Post("/requests/status", rt.Admin.UpdateRequestStatus)
				r.Post("/requests/delete", rt.Admin.DeleteRequest)

				r.Get("/subscribers", rt.Admin.ListSubscribers)
				r.Get("/analytics", rt.Admin.Analytics)
				r.Get("/contact", rt.Admin.ContactForm)
				r.Post("/contact", rt.Admin.SaveContact)
			})
		})
	})

	return r
}
