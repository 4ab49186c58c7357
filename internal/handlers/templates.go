package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/alextreichler/webstudio/internal/i18n"
)

// TemplateCache holds parsed templates
type TemplateCache struct {
	cache map[string]*template.Template
	mu    sync.RWMutex
	funcs template.FuncMap
}

func NewTemplateCache() *TemplateCache {
	return &TemplateCache{
		cache: make(map[string]*template.Template),
		funcs: make(template.FuncMap),
	}
}

// Load parses every templates/*.html page of fsys together with the shared
// templates/partials/*.html.
func (tc *TemplateCache) Load(fsys fs.FS) error {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.funcs["prevPage"] = func(currentPage int) int {
		return currentPage - 1
	}
	tc.funcs["nextPage"] = func(currentPage int) int {
		return currentPage + 1
	}
	tc.funcs["t"] = func(loc i18n.Locale, key string) string {
		return i18n.T(loc, key)
	}
	tc.funcs["deref"] = func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	tc.funcs["join"] = strings.Join
	tc.funcs["lines"] = func(s string) []string {
		return strings.Split(strings.TrimSpace(s), "\n")
	}

	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return err
	}
	pages, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no templates found")
	}

	for _, page := range pages {
		name := path.Base(page)
		files := append([]string{page}, partials...)
		tmpl, err := template.New(name).Funcs(tc.funcs).ParseFS(fsys, files...)
		if err != nil {
			slog.Error("Failed to parse template", "file", page, "error", err)
			return err
		}
		tc.cache[name] = tmpl
		slog.Debug("Cached template", "name", name)
	}
	return nil
}

func (tc *TemplateCache) Get(name string) *template.Template {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.cache[name]
}
