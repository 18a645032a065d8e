package storage

import (
	"context"
	"fmt"

	"gapscout/internal/models"
)

type DocumentRepo struct {
	db *DB
}

func NewDocumentRepo(db *DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) UpsertDocument(ctx context.Context, d models.Document) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO documents (document_id, project_id, title, file_path, original_file_name, summary, status, fail_reason)
VALUES ($1, $2, $3, $4, $5, NULLIF($6,''), $7, NULLIF($8,''))
ON CONFLICT (document_id)
DO UPDATE SET
  title = EXCLUDED.title,
  file_path = EXCLUDED.file_path,
  summary = COALESCE(EXCLUDED.summary, documents.summary),
  status = EXCLUDED.status,
  fail_reason = EXCLUDED.fail_reason,
  updated_at = NOW()`,
		d.DocumentID, d.ProjectID, d.Title, d.FilePath, d.OriginalFileName, d.Summary, d.Status, d.FailReason)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) UpdateDocumentStatus(ctx context.Context, documentID, status, failReason string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE documents SET status=$2, fail_reason=NULLIF($3,''), updated_at=NOW() WHERE document_id=$1`,
		documentID, status, failReason)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

func (r *DocumentRepo) UpdateDocumentSummary(ctx context.Context, documentID, summary string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE documents SET summary=NULLIF($2,''), updated_at=NOW() WHERE document_id=$1`, documentID, summary)
	if err != nil {
		return fmt.Errorf("update document summary: %w", err)
	}
	return nil
}

func (r *DocumentRepo) ListDocumentsByProject(ctx context.Context, projectID string) ([]models.Document, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT document_id::text, project_id::text, title, file_path, original_file_name,
       COALESCE(summary,''), status, COALESCE(fail_reason,''), created_at, updated_at
FROM documents
WHERE project_id=$1
ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.DocumentID, &d.ProjectID, &d.Title, &d.FilePath, &d.OriginalFileName,
			&d.Summary, &d.Status, &d.FailReason, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepo) ListReadyDocuments(ctx context.Context, projectID string) ([]models.Document, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT document_id::text, project_id::text, title, file_path, original_file_name,
       COALESCE(summary,''), status, COALESCE(fail_reason,''), created_at, updated_at
FROM documents
WHERE project_id=$1 AND status='ready'
ORDER BY created_at ASC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list ready documents: %w", err)
	}
	defer rows.Close()
	out := make([]models.Document, 0)
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.DocumentID, &d.ProjectID, &d.Title, &d.FilePath, &d.OriginalFileName,
			&d.Summary, &d.Status, &d.FailReason, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ready document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
