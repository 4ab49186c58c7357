package translate

import (
	"context"
	"fmt"

	"github.com/alextreichler/webstudio/internal/models"
)

// ContentStore is what Backfill reads and rewrites. *store.Store satisfies it.
type ContentStore interface {
	ListArticles(ctx context.Context) ([]models.Article, error)
	UpdateArticle(ctx context.Context, a *models.Article) error
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, p *models.Project) error
}

// BackfillSummary counts the records Backfill touched.
type BackfillSummary struct {
	Articles int
	Projects int
	Failed   int
}

// Backfill translates every article and project whose translation block is
// missing a target locale. A record is only written when all of its fields
// translated; failures are logged and counted, and the run continues.
func (s *Service) Backfill(ctx context.Context, dst ContentStore) (BackfillSummary, error) {
	var sum BackfillSummary

	articles, err := dst.ListArticles(ctx)
	if err != nil {
		return sum, fmt.Errorf("list articles: %w", err)
	}
	for i := range articles {
		a := &articles[i]
		if a.Translations.Complete() {
			continue
		}
		res, err := s.Translate(ctx, ArticleFields(*a))
		if err == nil {
			a.Translations = res.Article()
			err = dst.UpdateArticle(ctx, a)
		}
		if err != nil {
			s.logger.Error("Failed to backfill article translations", "id", a.ID, "error", err)
			sum.Failed++
			continue
		}
		sum.Articles++
	}

	projects, err := dst.ListProjects(ctx)
	if err != nil {
		return sum, fmt.Errorf("list projects: %w", err)
	}
	for i := range projects {
		p := &projects[i]
		if p.Translations.Complete() {
			continue
		}
		res, err := s.Translate(ctx, ProjectFields(*p))
		if err == nil {
			p.Translations = res.Project(p.Title)
			err = dst.UpdateProject(ctx, p)
		}
		if err != nil {
			s.logger.Error("Failed to backfill project translations", "id", p.ID, "error", err)
			sum.Failed++
			continue
		}
		sum.Projects++
	}
	return sum, ctx.Err()
}
