package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alextreichler/webstudio/internal/models"
)

const projectColumns = `id, priority, type, title, category, image, images, problem, solution, result, website, technologies, client, date, translations, created_at`

// Direction moves a project one slot in the display order.
type Direction int

const (
	Up Direction = iota
	Down
)

func scanProject(row rowScanner) (models.Project, error) {
	var (
		p                                  models.Project
		images, technologies, translations sql.NullString
		website, client, date              sql.NullString
	)
	err := row.Scan(&p.ID, &p.Priority, &p.Type, &p.Title, &p.Category, &p.Image, &images,
		&p.Problem, &p.Solution, &p.Result, &website, &technologies, &client, &date, &translations, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	p.Website = stringPtr(website)
	p.Client = stringPtr(client)
	p.Date = stringPtr(date)

	if err := decodeJSON(images, &p.Images); err != nil {
		return p, &DecodeError{Table: "portfolio_projects", Column: "images", ID: p.ID, Err: err}
	}
	if err := decodeJSON(technologies, &p.Technologies); err != nil {
		return p, &DecodeError{Table: "portfolio_projects", Column: "technologies", ID: p.ID, Err: err}
	}
	if err := decodeJSON(translations, &p.Translations); err != nil {
		return p, &DecodeError{Table: "portfolio_projects", Column: "translations", ID: p.ID, Err: err}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p, nil
}

// ListProjects returns projects in display order: ascending priority.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+projectColumns+` FROM portfolio_projects ORDER BY priority ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(s.DB.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM portfolio_projects WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

type projectJSON struct {
	images, technologies, translations sql.NullString
}

func encodeProject(p *models.Project) (projectJSON, error) {
	var out projectJSON
	var err error
	images := p.Images
	if images == nil {
		images = []string{}
	}
	if out.images, err = encodeJSON(images); err != nil {
		return out, err
	}
	if out.technologies, err = encodeJSON(p.Technologies); err != nil {
		return out, err
	}
	if out.translations, err = encodeJSON(p.Translations); err != nil {
		return out, err
	}
	return out, nil
}

// CreateProject appends p at the end of the display order.
func (s *Store) CreateProject(ctx context.Context, p *models.Project) error {
	enc, err := encodeProject(p)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO portfolio_projects (priority, type, title, category, image, images, problem, solution, result, website, technologies, client, date, translations)
		VALUES ((SELECT COALESCE(MAX(priority), 0) + 1 FROM portfolio_projects), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, priority, created_at
	`
	err = s.DB.QueryRowContext(ctx, query, p.Type, p.Title, p.Category, p.Image, enc.images, p.Problem, p.Solution, p.Result,
		nullString(p.Website), enc.technologies, nullString(p.Client), nullString(p.Date), enc.translations).
		Scan(&p.ID, &p.Priority, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create project: %w", err)
	}
	return nil
}

// UpdateProject overwrites the editable columns. Priority is only changed by MoveProject.
func (s *Store) UpdateProject(ctx context.Context, p *models.Project) error {
	enc, err := encodeProject(p)
	if err != nil {
		return err
	}
	query := `
		UPDATE portfolio_projects
		SET type = ?, title = ?, category = ?, image = ?, images = ?, problem = ?, solution = ?, result = ?,
			website = ?, technologies = ?, client = ?, date = ?, translations = ?
		WHERE id = ?
	`
	res, err := s.DB.ExecContext(ctx, query, p.Type, p.Title, p.Category, p.Image, enc.images, p.Problem, p.Solution, p.Result,
		nullString(p.Website), enc.technologies, nullString(p.Client), nullString(p.Date), enc.translations, p.ID)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	return expectRow(res)
}

func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM portfolio_projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return expectRow(res)
}

// MoveProject swaps the priority of project id with its neighbour in the
// display order. It reports false when the project is already at that end.
// Two admins reordering at once get last-write-wins; there is no conflict
// detection.
func (s *Store) MoveProject(ctx context.Context, id int64, dir Direction) (bool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var priority int
	err = tx.QueryRowContext(ctx, `SELECT priority FROM portfolio_projects WHERE id = ?`, id).Scan(&priority)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}

	neighbourQuery := `
		SELECT id, priority FROM portfolio_projects
		WHERE (priority < ? OR (priority = ? AND id < ?)) AND id != ?
		ORDER BY priority DESC, id DESC LIMIT 1
	`
	if dir == Down {
		neighbourQuery = `
			SELECT id, priority FROM portfolio_projects
			WHERE (priority > ? OR (priority = ? AND id > ?)) AND id != ?
			ORDER BY priority ASC, id ASC LIMIT 1
		`
	}

	var otherID int64
	var otherPriority int
	err = tx.QueryRowContext(ctx, neighbourQuery, priority, priority, id, id).Scan(&otherID, &otherPriority)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE portfolio_projects SET priority = ? WHERE id = ?`, otherPriority, id); err != nil {
		return false, fmt.Errorf("swap priority: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE portfolio_projects SET priority = ? WHERE id = ?`, priority, otherID); err != nil {
		return false, fmt.Errorf("swap priority: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
