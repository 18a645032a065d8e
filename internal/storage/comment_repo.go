package storage

import (
	"context"
	"fmt"

	"gapscout/internal/models"
)

type CommentRepo struct {
	db *DB
}

func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) InsertComment(ctx context.Context, c models.Comment) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO comments (comment_id, analysis_id, project_id, user_id, target_type, target_id, content)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.CommentID, c.AnalysisID, c.ProjectID, c.UserID, c.TargetType, c.TargetID, c.Content)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepo) ListCommentsByAnalysis(ctx context.Context, analysisID string) ([]models.Comment, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT comment_id::text, analysis_id::text, project_id::text, user_id::text,
       target_type, target_id, content, created_at
FROM comments
WHERE analysis_id=$1
ORDER BY created_at ASC`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	out := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.CommentID, &c.AnalysisID, &c.ProjectID, &c.UserID,
			&c.TargetType, &c.TargetID, &c.Content, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}
	return out, nil
}

// GroupByTarget buckets comments under "targetType:targetId" keys, the shape
// the analysis detail endpoint serves.
func GroupByTarget(comments []models.Comment) map[string][]models.Comment {
	grouped := make(map[string][]models.Comment)
	for _, c := range comments {
		key := c.TargetType + ":" + c.TargetID
		grouped[key] = append(grouped[key], c)
	}
	return grouped
}
