package storage

import (
	"context"
	"fmt"
)

// GenerationRecord is one audited call to a generation or embedding provider.
type GenerationRecord struct {
	CallID       string
	Operation    string
	ProjectID    string
	DocumentID   string
	ProviderName string
	Model        string
	Status       string
	ErrorType    string
}

type GenerationAuditRepo struct {
	db *DB
}

func NewGenerationAuditRepo(db *DB) *GenerationAuditRepo {
	return &GenerationAuditRepo{db: db}
}

func (r *GenerationAuditRepo) Insert(ctx context.Context, rec GenerationRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO generation_calls(call_id, operation, project_id, document_id, provider_name, model, status, error_type)
VALUES (COALESCE(NULLIF($1,'')::uuid, gen_random_uuid()), $2, NULLIF($3,'')::uuid, NULLIF($4,''), $5, $6, $7, NULLIF($8,''))`,
		rec.CallID, rec.Operation, rec.ProjectID, rec.DocumentID, rec.ProviderName, rec.Model, rec.Status, rec.ErrorType)
	if err != nil {
		return fmt.Errorf("insert generation call: %w", err)
	}
	return nil
}
