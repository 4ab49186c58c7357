package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alextreichler/webstudio/internal/models"
)

func (s *Store) InsertSession(ctx context.Context, sess models.AnalyticsSession) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO analytics_sessions (session_id, visitor_id, page_path, referrer, user_agent) VALUES (?, ?, ?, ?, ?)`,
		sess.SessionID, sess.VisitorID, sess.PagePath, nullString(sess.Referrer), sess.UserAgent)
	if err != nil {
		return fmt.Errorf("insert analytics session: %w", err)
	}
	return nil
}

func (s *Store) InsertEvent(ctx context.Context, ev models.AnalyticsEvent) error {
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO analytics_events (session_id, event_type, event_name, event_label, page_path) VALUES (?, ?, ?, ?, ?)`,
		ev.SessionID, ev.EventType, ev.EventName, nullString(ev.EventLabel), ev.PagePath)
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

// UpdateLatestSessionDuration sets the duration of the newest row for
// sessionID on pagePath. An empty pagePath matches any page. It reports false
// when no row matches.
func (s *Store) UpdateLatestSessionDuration(ctx context.Context, sessionID, pagePath string, seconds int) (bool, error) {
	query := `SELECT id FROM analytics_sessions WHERE session_id = ?`
	args := []any{sessionID}
	if pagePath != "" {
		query += ` AND page_path = ?`
		args = append(args, pagePath)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT 1`

	var id int64
	err := s.DB.QueryRowContext(ctx, query, args...).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("find analytics session: %w", err)
	}
	if _, err := s.DB.ExecContext(ctx, `UPDATE analytics_sessions SET duration = ? WHERE id = ?`, seconds, id); err != nil {
		return false, fmt.Errorf("update analytics session: %w", err)
	}
	return true, nil
}

// ListSessions returns the rows recorded for sessionID, oldest first.
func (s *Store) ListSessions(ctx context.Context, sessionID string) ([]models.AnalyticsSession, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, session_id, visitor_id, page_path, referrer, user_agent, duration, created_at
		FROM analytics_sessions WHERE session_id = ? ORDER BY created_at ASC, id ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list analytics sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.AnalyticsSession{}
	for rows.Next() {
		var (
			sess     models.AnalyticsSession
			referrer sql.NullString
		)
		if err := rows.Scan(&sess.ID, &sess.SessionID, &sess.VisitorID, &sess.PagePath, &referrer, &sess.UserAgent, &sess.Duration, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sess.Referrer = stringPtr(referrer)
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

type PageCount struct {
	Path  string
	Views int
}

type AnalyticsSummary struct {
	PageViews       int
	Sessions        int
	Visitors        int
	Events          int
	AverageDuration float64
	TopPages        []PageCount
}

func (s *Store) GetAnalyticsSummary(ctx context.Context, topN int) (*AnalyticsSummary, error) {
	sum := &AnalyticsSummary{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT session_id), COUNT(DISTINCT visitor_id), COALESCE(AVG(NULLIF(duration, 0)), 0.0)
		FROM analytics_sessions`).Scan(&sum.PageViews, &sum.Sessions, &sum.Visitors, &sum.AverageDuration)
	if err != nil {
		return nil, fmt.Errorf("analytics totals: %w", err)
	}
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM analytics_events`).Scan(&sum.Events); err != nil {
		return nil, fmt.Errorf("analytics events: %w", err)
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT page_path, COUNT(*) AS views FROM analytics_sessions
		GROUP BY page_path ORDER BY views DESC, page_path ASC LIMIT ?`, topN)
	if err != nil {
		return nil, fmt.Errorf("analytics top pages: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc PageCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			return nil, err
		}
		sum.TopPages = append(sum.TopPages, pc)
	}
	return sum, rows.Err()
}
