package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alextreichler/webstudio/internal/models"
)

// GetContact returns the active contact block: the most recently saved row.
func (s *Store) GetContact(ctx context.Context) (*models.Contact, error) {
	query := `
		SELECT id, phone, email, address, whatsapp_link, telegram_link, facebook_link, instagram_link, updated_at
		FROM contact ORDER BY id DESC LIMIT 1
	`
	var (
		c                   models.Contact
		facebook, instagram sql.NullString
	)
	err := s.DB.QueryRowContext(ctx, query).Scan(&c.ID, &c.Phone, &c.Email, &c.Address, &c.WhatsAppLink, &c.TelegramLink, &facebook, &instagram, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	c.FacebookLink = stringPtr(facebook)
	c.InstagramLink = stringPtr(instagram)
	return &c, nil
}

// SaveContact updates the active row, or inserts the first one.
func (s *Store) SaveContact(ctx context.Context, c *models.Contact) error {
	current, err := s.GetContact(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if current == nil {
		query := `
			INSERT INTO contact (phone, email, address, whatsapp_link, telegram_link, facebook_link, instagram_link)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id, updated_at
		`
		err = s.DB.QueryRowContext(ctx, query, c.Phone, c.Email, c.Address, c.WhatsAppLink, c.TelegramLink,
			nullString(c.FacebookLink), nullString(c.InstagramLink)).Scan(&c.ID, &c.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert contact: %w", err)
		}
		return nil
	}

	query := `
		UPDATE contact
		SET phone = ?, email = ?, address = ?, whatsapp_link = ?, telegram_link = ?, facebook_link = ?, instagram_link = ?,
			updated_at = strftime('%Y-%m-%d %H:%M:%f', 'now')
		WHERE id = ?
		RETURNING updated_at
	`
	err = s.DB.QueryRowContext(ctx, query, c.Phone, c.Email, c.Address, c.WhatsAppLink, c.TelegramLink,
		nullString(c.FacebookLink), nullString(c.InstagramLink), current.ID).Scan(&c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	c.ID = current.ID
	return nil
}
