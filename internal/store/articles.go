package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alextreichler/webstudio/internal/models"
)

const articleColumns = `id, title, excerpt, content, image, category, category_key, read_time, date, translations, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (models.Article, error) {
	var (
		a            models.Article
		translations sql.NullString
		updatedAt    sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.Title, &a.Excerpt, &a.Content, &a.Image, &a.Category, &a.CategoryKey, &a.ReadTime, &a.Date, &translations, &a.CreatedAt, &updatedAt); err != nil {
		return a, err
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		a.UpdatedAt = &t
	}
	if err := decodeJSON(translations, &a.Translations); err != nil {
		return a, &DecodeError{Table: "blog_articles", Column: "translations", ID: a.ID, Err: err}
	}
	return a, nil
}

// ListArticles returns every article, newest first.
func (s *Store) ListArticles(ctx context.Context) ([]models.Article, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+articleColumns+` FROM blog_articles ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (s *Store) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM blog_articles WHERE id = ?`, id)
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// CreateArticle inserts a and fills in its id and creation time.
func (s *Store) CreateArticle(ctx context.Context, a *models.Article) error {
	translations, err := encodeJSON(a.Translations)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO blog_articles (title, excerpt, content, image, category, category_key, read_time, date, translations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at
	`
	err = s.DB.QueryRowContext(ctx, query, a.Title, a.Excerpt, a.Content, a.Image, a.Category, a.CategoryKey, a.ReadTime, a.Date, translations).
		Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

// UpdateArticle overwrites every editable column of the article with a.ID.
func (s *Store) UpdateArticle(ctx context.Context, a *models.Article) error {
	translations, err := encodeJSON(a.Translations)
	if err != nil {
		return err
	}
	query := `
		UPDATE blog_articles
		SET title = ?, excerpt = ?, content = ?, image = ?, category = ?, category_key = ?, read_time = ?, date = ?, translations = ?,
			updated_at = strftime('%Y-%m-%d %H:%M:%f', 'now')
		WHERE id = ?
	`
	res, err := s.DB.ExecContext(ctx, query, a.Title, a.Excerpt, a.Content, a.Image, a.Category, a.CategoryKey, a.ReadTime, a.Date, translations, a.ID)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	return expectRow(res)
}

func (s *Store) DeleteArticle(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM blog_articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// encodeJSON stores nil maps and slices as NULL.
func encodeJSON[T any](v T) (sql.NullString, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	if string(b) == "null" {
		return sql.NullString{}, nil
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func decodeJSON(raw sql.NullString, dst any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw.String), dst)
}
