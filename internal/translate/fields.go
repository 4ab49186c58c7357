package translate

import (
	"github.com/alextreichler/webstudio/internal/i18n"
	"github.com/alextreichler/webstudio/internal/models"
)

// ArticleFields lists the translatable fields of a blog article.
func ArticleFields(a models.Article) []Field {
	return []Field{
		{Name: "title", Text: a.Title, Context: "blog article title"},
		{Name: "excerpt", Text: a.Excerpt, Context: "blog article excerpt"},
		{Name: "content", Text: a.Content, Context: "blog article body"},
		{Name: "category", Text: a.Category, Context: "blog article category"},
	}
}

// ProjectFields lists the translatable fields of a portfolio project. The
// title is a proper name and is not sent.
func ProjectFields(p models.Project) []Field {
	return []Field{
		{Name: "category", Text: p.Category, Context: "portfolio project category"},
		{Name: "problem", Text: p.Problem, Context: "portfolio project problem description"},
		{Name: "solution", Text: p.Solution, Context: "portfolio project solution description"},
		{Name: "result", Text: p.Result, Context: "portfolio project result description"},
	}
}

// Article converts the result into an article translation block.
func (r Result) Article() models.Translations[models.ArticleTranslation] {
	out := make(models.Translations[models.ArticleTranslation], len(r))
	for _, loc := range i18n.Targets {
		f, ok := r[loc]
		if !ok {
			continue
		}
		out[loc] = models.ArticleTranslation{
			Title:    f["title"],
			Excerpt:  f["excerpt"],
			Content:  f["content"],
			Category: f["category"],
		}
	}
	return out
}

// Project converts the result into a project translation block carrying the
// untranslated title.
func (r Result) Project(title string) models.Translations[models.ProjectTranslation] {
	out := make(models.Translations[models.ProjectTranslation], len(r))
	for _, loc := range i18n.Targets {
		f, ok := r[loc]
		if !ok {
			continue
		}
		out[loc] = models.ProjectTranslation{
			Title:    title,
			Category: f["category"],
			Problem:  f["problem"],
			Solution: f["solution"],
			Result:   f["result"],
		}
	}
	return out
}
