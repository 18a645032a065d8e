package activities

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"gapscout/internal/agents"
	"gapscout/internal/config"
	"gapscout/internal/extract"
	"gapscout/internal/index"
	"gapscout/internal/models"
	"gapscout/internal/providers"
	"gapscout/internal/storage"
	"gapscout/internal/util"
)

// degradedSummary stands in when no generation credentials are configured;
// ingestion proceeds so retrieval still works.
const degradedSummary = "Summary unavailable: no generation credentials configured."

type Activities struct {
	cfg          config.Config
	projectRepo  *storage.ProjectRepo
	documentRepo *storage.DocumentRepo
	analysisRepo *storage.AnalysisRepo
	auditRepo    *storage.GenerationAuditRepo
	index        *index.Store
	providers    *providers.Manager
}

func New(cfg config.Config, db *storage.DB, store *index.Store) (*Activities, error) {
	pm, err := providers.NewManager(cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		store = index.NewStore(providers.IndexEmbedder{
			Provider:  pm.Embedder(),
			Dimension: cfg.EmbedDim,
			Operation: "embed_document",
		}, index.Options{
			ChunkSize:  cfg.ChunkSize,
			Overlap:    cfg.ChunkOverlap,
			TextRetain: cfg.ChunkTextRetain,
		})
	}
	return &Activities{
		cfg:          cfg,
		projectRepo:  storage.NewProjectRepo(db),
		documentRepo: storage.NewDocumentRepo(db),
		analysisRepo: storage.NewAnalysisRepo(db),
		auditRepo:    storage.NewGenerationAuditRepo(db),
		index:        store,
		providers:    pm,
	}, nil
}

// Index exposes the semantic store so the worker can share it across
// components.
func (a *Activities) Index() *index.Store {
	return a.index
}

func (a *Activities) ExtractDocumentTextActivity(ctx context.Context, in ExtractDocumentTextInput) (ExtractDocumentTextOutput, error) {
	_ = ctx
	text, err := extract.Text(in.FilePath)
	if err != nil {
		return ExtractDocumentTextOutput{}, err
	}
	return ExtractDocumentTextOutput{Text: text}, nil
}

func (a *Activities) SummarizeDocumentActivity(ctx context.Context, in SummarizeDocumentInput) (SummarizeDocumentOutput, error) {
	summary, err := agents.SummarizeDocument(ctx, a.providers.LLM(), in.Title, in.Text, a.cfg.SummaryInputLimit)
	if err != nil {
		if errors.Is(err, providers.ErrMissingCredential) {
			return SummarizeDocumentOutput{Summary: degradedSummary, Degraded: true}, nil
		}
		return SummarizeDocumentOutput{}, err
	}
	ref := a.providers.LLMRef()
	return SummarizeDocumentOutput{Summary: summary, ProviderName: ref.Name}, nil
}

func (a *Activities) IndexDocumentActivity(ctx context.Context, in IndexDocumentInput) (IndexDocumentOutput, error) {
	err := a.index.Upsert(ctx, in.ProjectID, []index.UpsertDoc{{
		ID:   in.DocumentID,
		Text: in.Text,
		Metadata: map[string]string{
			"document_id": in.DocumentID,
			"title":       in.Title,
		},
	}})
	if err != nil {
		return IndexDocumentOutput{}, err
	}
	return IndexDocumentOutput{ChunkCount: a.index.Count(in.ProjectID)}, nil
}

func (a *Activities) ClearProjectIndexActivity(ctx context.Context, in ClearProjectIndexInput) error {
	_ = ctx
	a.index.Clear(in.ProjectID)
	return nil
}

func (a *Activities) ListReadyDocumentsActivity(ctx context.Context, in ListReadyDocumentsInput) (ListReadyDocumentsOutput, error) {
	docs, err := a.documentRepo.ListReadyDocuments(ctx, in.ProjectID)
	if err != nil {
		return ListReadyDocumentsOutput{}, err
	}
	out := ListReadyDocumentsOutput{Documents: make([]ReadyDocument, 0, len(docs))}
	for _, d := range docs {
		out.Documents = append(out.Documents, ReadyDocument{
			DocumentID: d.DocumentID,
			Title:      d.Title,
			FilePath:   d.FilePath,
		})
	}
	return out, nil
}

func (a *Activities) UpdateDocumentStatusActivity(ctx context.Context, in UpdateDocumentStatusInput) error {
	return a.documentRepo.UpdateDocumentStatus(ctx, in.DocumentID, in.Status, in.FailReason)
}

func (a *Activities) UpdateDocumentSummaryActivity(ctx context.Context, in UpdateDocumentSummaryInput) error {
	return a.documentRepo.UpdateDocumentSummary(ctx, in.DocumentID, in.Summary)
}

func (a *Activities) ProfileProjectActivity(ctx context.Context, in ProfileProjectInput) (ProfileProjectOutput, error) {
	project, err := a.projectRepo.GetProject(ctx, in.ProjectID)
	if err != nil {
		return ProfileProjectOutput{}, err
	}
	docs, err := a.documentRepo.ListReadyDocuments(ctx, in.ProjectID)
	if err != nil {
		return ProfileProjectOutput{}, err
	}
	summaries := make([]agents.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, agents.DocumentSummary{Title: d.Title, Summary: d.Summary})
	}

	profile, err := agents.Profile(ctx, a.providers.LLM(), a.index, agents.ProfileInput{
		ProjectID:   in.ProjectID,
		Title:       project.Title,
		Description: project.Description,
		Documents:   summaries,
		TopK:        a.cfg.RetrievalTopK,
	})
	if err != nil {
		return ProfileProjectOutput{}, err
	}
	ref := a.providers.LLMRef()
	return ProfileProjectOutput{Profile: profile, ProviderName: ref.Name}, nil
}

func (a *Activities) ScoutPapersActivity(ctx context.Context, in ScoutPapersInput) (ScoutPapersOutput, error) {
	numPapers := in.NumPapers
	if numPapers <= 0 {
		numPapers = a.cfg.ScoutPaperCount
	}
	papers, err := agents.ScoutPapers(ctx, a.providers.LLM(), in.Profile, numPapers)
	if err != nil {
		return ScoutPapersOutput{}, err
	}
	ref := a.providers.LLMRef()
	return ScoutPapersOutput{Papers: papers, ProviderName: ref.Name}, nil
}

func (a *Activities) FindGapsActivity(ctx context.Context, in FindGapsInput) (FindGapsOutput, error) {
	gaps, err := agents.FindGaps(ctx, a.providers.LLM(), in.Profile, in.Papers)
	if err != nil {
		return FindGapsOutput{}, err
	}
	ref := a.providers.LLMRef()
	return FindGapsOutput{Gaps: gaps, ProviderName: ref.Name}, nil
}

func (a *Activities) GenerateDirectionsActivity(ctx context.Context, in GenerateDirectionsInput) (GenerateDirectionsOutput, error) {
	directions, err := agents.GenerateDirections(ctx, a.providers.LLM(), in.Gaps)
	if err != nil {
		return GenerateDirectionsOutput{}, err
	}
	ref := a.providers.LLMRef()
	return GenerateDirectionsOutput{Directions: directions, ProviderName: ref.Name}, nil
}

func (a *Activities) CritiqueDirectionsActivity(ctx context.Context, in CritiqueDirectionsInput) (CritiqueDirectionsOutput, error) {
	criticized, err := agents.CritiqueDirections(ctx, a.providers.LLM(), in.Directions)
	if err != nil {
		return CritiqueDirectionsOutput{}, err
	}
	ref := a.providers.LLMRef()
	return CritiqueDirectionsOutput{Criticized: criticized, ProviderName: ref.Name}, nil
}

func (a *Activities) PersistAnalysisActivity(ctx context.Context, in PersistAnalysisInput) error {
	analysis, err := analysisRecord(in.AnalysisID, in.ProjectID, in.Result)
	if err != nil {
		return err
	}
	return a.analysisRepo.InsertAnalysis(ctx, analysis)
}

func (a *Activities) WriteAnalysisArtifactsActivity(ctx context.Context, in WriteAnalysisArtifactsInput) (WriteAnalysisArtifactsOutput, error) {
	_ = ctx
	base := filepath.Join(a.cfg.DataOutRoot, in.ProjectID, "analyses", in.AnalysisID)
	if err := util.EnsureDir(base); err != nil {
		return WriteAnalysisArtifactsOutput{}, err
	}
	if err := util.WriteJSONAtomic(filepath.Join(base, "analysis.json"), in.Result); err != nil {
		return WriteAnalysisArtifactsOutput{}, err
	}
	return WriteAnalysisArtifactsOutput{Path: base}, nil
}

func (a *Activities) LogGenerationCallActivity(ctx context.Context, in LogGenerationCallInput) error {
	return a.auditRepo.Insert(ctx, storage.GenerationRecord{
		CallID:       in.CallID,
		Operation:    in.Operation,
		ProjectID:    in.ProjectID,
		DocumentID:   in.DocumentID,
		ProviderName: in.ProviderName,
		Model:        in.Model,
		Status:       in.Status,
		ErrorType:    in.ErrorType,
	})
}

func analysisRecord(analysisID, projectID string, result agents.AnalysisResult) (models.Analysis, error) {
	marshal := func(v any, what string) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("marshal %s: %w", what, err)
		}
		return string(b), nil
	}
	profile, err := marshal(result.ProjectProfile, "project profile")
	if err != nil {
		return models.Analysis{}, err
	}
	papers, err := marshal(result.ScoutedPapers, "scouted papers")
	if err != nil {
		return models.Analysis{}, err
	}
	gaps, err := marshal(result.Gaps, "gaps")
	if err != nil {
		return models.Analysis{}, err
	}
	directions, err := marshal(result.Directions, "directions")
	if err != nil {
		return models.Analysis{}, err
	}
	criticized, err := marshal(result.CriticizedDirections, "criticized directions")
	if err != nil {
		return models.Analysis{}, err
	}
	return models.Analysis{
		AnalysisID:           analysisID,
		ProjectID:            projectID,
		ProjectProfile:       profile,
		ScoutedPapers:        papers,
		Gaps:                 gaps,
		Directions:           directions,
		CriticizedDirections: criticized,
	}, nil
}
