package models

import (
	"strings"

	"github.com/alextreichler/webstudio/internal/i18n"
)

// Localized returns the article as displayed in loc. Each translatable field
// falls back to its base value on its own when the translation is blank.
func (a Article) Localized(loc i18n.Locale) Article {
	tr, ok := a.Translations.Get(loc)
	if !ok {
		return a
	}
	a.Title = pick(a.Title, tr.Title)
	a.Excerpt = pick(a.Excerpt, tr.Excerpt)
	a.Content = pick(a.Content, tr.Content)
	a.Category = pick(a.Category, tr.Category)
	return a
}

// Localized returns the project as displayed in loc. The title is a proper
// name and stays in the authoring language.
func (p Project) Localized(loc i18n.Locale) Project {
	tr, ok := p.Translations.Get(loc)
	if !ok {
		return p
	}
	p.Category = pick(p.Category, tr.Category)
	p.Problem = pick(p.Problem, tr.Problem)
	p.Solution = pick(p.Solution, tr.Solution)
	p.Result = pick(p.Result, tr.Result)
	return p
}

// pick returns override unless it is blank. Whitespace-only overrides count
// as blank, so a stray space in a translation never hides the base text.
func pick(base, override string) string {
	if strings.TrimSpace(override) == "" {
		return base
	}
	return override
}

// LocalizeAll projects every record in items.
func LocalizeAll[T interface{ Localized(i18n.Locale) T }](items []T, loc i18n.Locale) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = item.Localized(loc)
	}
	return out
}
