package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/alextreichler/webstudio/internal/models"
)

// Subscribe adds email to the newsletter list. Subscribing twice is not an
// error; the second call reports AlreadySubscribed and leaves one row.
func (s *Store) Subscribe(ctx context.Context, email string) (models.SubscribeOutcome, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := s.DB.ExecContext(ctx, `INSERT INTO newsletter_subscribers (email) VALUES (?) ON CONFLICT(email) DO NOTHING`, email)
	if err != nil {
		return "", fmt.Errorf("subscribe: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return models.AlreadySubscribed, nil
	}
	return models.Subscribed, nil
}

func (s *Store) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, email, created_at FROM newsletter_subscribers ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	subscribers := []models.Subscriber{}
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subscribers = append(subscribers, sub)
	}
	return subscribers, rows.Err()
}
