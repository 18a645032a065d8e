package storage

import (
	"context"
	"fmt"

	"gapscout/internal/models"
)

type AnalysisRepo struct {
	db *DB
}

func NewAnalysisRepo(db *DB) *AnalysisRepo {
	return &AnalysisRepo{db: db}
}

// InsertAnalysis persists one completed pipeline run. Each stage artifact is
// a pre-serialized JSON blob stored in its own jsonb column.
func (r *AnalysisRepo) InsertAnalysis(ctx context.Context, a models.Analysis) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO analyses (analysis_id, project_id, project_profile, scouted_papers, gaps, directions, criticized_directions)
VALUES ($1, $2, $3::jsonb, $4::jsonb, $5::jsonb, $6::jsonb, $7::jsonb)`,
		a.AnalysisID, a.ProjectID, a.ProjectProfile, a.ScoutedPapers, a.Gaps, a.Directions, a.CriticizedDirections)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepo) GetAnalysis(ctx context.Context, analysisID string) (models.Analysis, error) {
	var a models.Analysis
	err := r.db.Pool.QueryRow(ctx, `
SELECT analysis_id::text, project_id::text, project_profile::text, scouted_papers::text,
       gaps::text, directions::text, criticized_directions::text, created_at
FROM analyses
WHERE analysis_id=$1`, analysisID).
		Scan(&a.AnalysisID, &a.ProjectID, &a.ProjectProfile, &a.ScoutedPapers,
			&a.Gaps, &a.Directions, &a.CriticizedDirections, &a.CreatedAt)
	if err != nil {
		return models.Analysis{}, fmt.Errorf("get analysis: %w", err)
	}
	return a, nil
}

// AnalysisPreview is the listing shape: run identity plus the research area
// pulled out of the stored profile, without shipping whole artifacts.
type AnalysisPreview struct {
	AnalysisID   string `json:"analysis_id"`
	ProjectID    string `json:"project_id"`
	ResearchArea string `json:"research_area"`
	CreatedAt    string `json:"created_at"`
}

func (r *AnalysisRepo) ListAnalysesByProject(ctx context.Context, projectID string) ([]AnalysisPreview, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT analysis_id::text, project_id::text,
       COALESCE(project_profile->>'researchArea',''), created_at::text
FROM analyses
WHERE project_id=$1
ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	out := make([]AnalysisPreview, 0)
	for rows.Next() {
		var p AnalysisPreview
		if err := rows.Scan(&p.AnalysisID, &p.ProjectID, &p.ResearchArea, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis preview: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return out, nil
}
