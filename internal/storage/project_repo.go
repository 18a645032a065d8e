package storage

import (
	"context"
	"fmt"

	"gapscout/internal/models"
)

type ProjectRepo struct {
	db *DB
}

func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) CreateProject(ctx context.Context, p models.Project) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO projects (project_id, user_id, title, description)
VALUES ($1, $2, $3, NULLIF($4,''))`,
		p.ProjectID, p.UserID, p.Title, p.Description)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetProject(ctx context.Context, projectID string) (models.Project, error) {
	var p models.Project
	err := r.db.Pool.QueryRow(ctx, `
SELECT project_id::text, user_id::text, title, COALESCE(description,''), created_at, updated_at
FROM projects
WHERE project_id=$1`, projectID).
		Scan(&p.ProjectID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepo) ListProjectsByUser(ctx context.Context, userID string) ([]models.Project, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT project_id::text, user_id::text, title, COALESCE(description,''), created_at, updated_at
FROM projects
WHERE user_id=$1
ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]models.Project, 0)
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ProjectID, &p.UserID, &p.Title, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return out, nil
}

// DeleteProject removes a project and its dependent rows. Child tables are
// cleared explicitly so the delete does not depend on cascade rules.
func (r *ProjectRepo) DeleteProject(ctx context.Context, projectID string) error {
	for _, q := range []string{
		`DELETE FROM comments WHERE project_id=$1`,
		`DELETE FROM analyses WHERE project_id=$1`,
		`DELETE FROM documents WHERE project_id=$1`,
		`DELETE FROM generation_calls WHERE project_id=$1`,
		`DELETE FROM projects WHERE project_id=$1`,
	} {
		if _, err := r.db.Pool.Exec(ctx, q, projectID); err != nil {
			return fmt.Errorf("delete project: %w", err)
		}
	}
	return nil
}

func (r *ProjectRepo) TouchProject(ctx context.Context, projectID string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE projects SET updated_at=NOW() WHERE project_id=$1`, projectID)
	if err != nil {
		return fmt.Errorf("touch project: %w", err)
	}
	return nil
}
