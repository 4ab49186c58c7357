package store

import (
	"context"
	"fmt"

	"github.com/alextreichler/webstudio/internal/models"
)

// CreateContactRequest stores a contact form submission with status "new".
func (s *Store) CreateContactRequest(ctx context.Context, req *models.ContactRequest) error {
	req.Status = models.StatusNew
	query := `
		INSERT INTO contact_requests (name, email, phone, project_type, message, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, created_at
	`
	err := s.DB.QueryRowContext(ctx, query, req.Name, req.Email, req.Phone, req.ProjectType, req.Message, req.Status).
		Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create contact request: %w", err)
	}
	return nil
}

// ListContactRequests returns requests newest first. An empty status lists all.
func (s *Store) ListContactRequests(ctx context.Context, status models.RequestStatus) ([]models.ContactRequest, error) {
	query := `SELECT id, name, email, phone, project_type, message, status, created_at FROM contact_requests`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contact requests: %w", err)
	}
	defer rows.Close()

	requests := []models.ContactRequest{}
	for rows.Next() {
		var r models.ContactRequest
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.ProjectType, &r.Message, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) UpdateContactRequestStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	res, err := s.DB.ExecContext(ctx, `UPDATE contact_requests SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update contact request: %w", err)
	}
	return expectRow(res)
}

func (s *Store) DeleteContactRequest(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM contact_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete contact request: %w", err)
	}
	return expectRow(res)
}
