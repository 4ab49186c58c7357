package store

import (
	"context"
	"database/sql"

	"github.com/alextreichler/webstudio/internal/models"
)

type DashboardStats struct {
	TotalArticles    int
	TotalProjects    int
	TotalSubscribers int
	RequestsByStatus map[models.RequestStatus]int
	Analytics        *AnalyticsSummary
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{
		RequestsByStatus: make(map[models.RequestStatus]int),
	}

	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM blog_articles", &stats.TotalArticles},
		{"SELECT COUNT(*) FROM portfolio_projects", &stats.TotalProjects},
		{"SELECT COUNT(*) FROM newsletter_subscribers", &stats.TotalSubscribers},
	}
	for _, c := range counts {
		if err := s.DB.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil && err != sql.ErrNoRows {
			return nil, err
		}
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM contact_requests GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status models.RequestStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.RequestsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats.Analytics, err = s.GetAnalyticsSummary(ctx, 5)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
