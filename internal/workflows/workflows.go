package workflows

import (
	"fmt"
	"strings"
	"time"

	"gapscout/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetAnalysisProgress = "GetAnalysisProgress"
	QueryGetIngestProgress   = "GetIngestProgress"
)

// AnalysisWorkflow runs the five-stage pipeline in order. Stages do not
// retry; any stage failure aborts the run with the stage's identity in the
// failure reason.
func AnalysisWorkflow(ctx workflow.Context, input AnalysisInput) (AnalysisOutput, error) {
	progress := AnalysisProgress{
		AnalysisID: input.AnalysisID,
		ProjectID:  input.ProjectID,
		Status:     "running",
		Stages:     map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetAnalysisProgress, func() (AnalysisProgress, error) {
		return progress, nil
	}); err != nil {
		return AnalysisOutput{}, err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	out := AnalysisOutput{AnalysisID: input.AnalysisID, ProjectID: input.ProjectID}

	fail := func(stage string, err error) (AnalysisOutput, error) {
		progress.Status = "failed"
		progress.Stages[stage] = "failed"
		progress.FailReason = fmt.Sprintf("%s: %v", stage, err)
		logger.Error("analysis stage failed", "stage", stage, "error", err)
		if isTerminalStageError(err) {
			out.Status = "failed"
			out.FailReason = progress.FailReason
			return out, nil
		}
		return AnalysisOutput{}, fmt.Errorf("%s: %w", stage, err)
	}

	progress.CurrentStage = "profiler"
	progress.Stages[progress.CurrentStage] = "running"
	logger.Info("analysis stage starting", "stage", "profiler", "project_id", input.ProjectID)
	var profileOut activities.ProfileProjectOutput
	if err := workflow.ExecuteActivity(ctx, "ProfileProjectActivity", activities.ProfileProjectInput{
		ProjectID: input.ProjectID,
	}).Get(ctx, &profileOut); err != nil {
		return fail("profiler", err)
	}
	progress.Stages["profiler"] = "done"
	out.Result.ProjectProfile = profileOut.Profile
	logStageCall(ctx, input, "profile_project", profileOut.ProviderName, profileOut.Model)

	progress.CurrentStage = "literature_scout"
	progress.Stages[progress.CurrentStage] = "running"
	var scoutOut activities.ScoutPapersOutput
	if err := workflow.ExecuteActivity(ctx, "ScoutPapersActivity", activities.ScoutPapersInput{
		ProjectID: input.ProjectID,
		Profile:   profileOut.Profile,
		NumPapers: input.NumPapers,
	}).Get(ctx, &scoutOut); err != nil {
		return fail("literature_scout", err)
	}
	progress.Stages["literature_scout"] = "done"
	out.Result.ScoutedPapers = scoutOut.Papers
	logStageCall(ctx, input, "scout_papers", scoutOut.ProviderName, scoutOut.Model)

	progress.CurrentStage = "gap_finder"
	progress.Stages[progress.CurrentStage] = "running"
	var gapsOut activities.FindGapsOutput
	if err := workflow.ExecuteActivity(ctx, "FindGapsActivity", activities.FindGapsInput{
		ProjectID: input.ProjectID,
		Profile:   profileOut.Profile,
		Papers:    scoutOut.Papers,
	}).Get(ctx, &gapsOut); err != nil {
		return fail("gap_finder", err)
	}
	progress.Stages["gap_finder"] = "done"
	out.Result.Gaps = gapsOut.Gaps
	logStageCall(ctx, input, "find_gaps", gapsOut.ProviderName, gapsOut.Model)

	progress.CurrentStage = "direction_generator"
	progress.Stages[progress.CurrentStage] = "running"
	var directionsOut activities.GenerateDirectionsOutput
	if err := workflow.ExecuteActivity(ctx, "GenerateDirectionsActivity", activities.GenerateDirectionsInput{
		ProjectID: input.ProjectID,
		Gaps:      gapsOut.Gaps,
	}).Get(ctx, &directionsOut); err != nil {
		return fail("direction_generator", err)
	}
	progress.Stages["direction_generator"] = "done"
	out.Result.Directions = directionsOut.Directions
	logStageCall(ctx, input, "generate_directions", directionsOut.ProviderName, directionsOut.Model)

	progress.CurrentStage = "critic"
	progress.Stages[progress.CurrentStage] = "running"
	var critiqueOut activities.CritiqueDirectionsOutput
	if err := workflow.ExecuteActivity(ctx, "CritiqueDirectionsActivity", activities.CritiqueDirectionsInput{
		ProjectID:  input.ProjectID,
		Directions: directionsOut.Directions,
	}).Get(ctx, &critiqueOut); err != nil {
		return fail("critic", err)
	}
	progress.Stages["critic"] = "done"
	out.Result.CriticizedDirections = critiqueOut.Criticized
	logStageCall(ctx, input, "critique_directions", critiqueOut.ProviderName, critiqueOut.Model)

	progress.CurrentStage = "persist"
	progress.Stages[progress.CurrentStage] = "running"
	if err := workflow.ExecuteActivity(ctx, "PersistAnalysisActivity", activities.PersistAnalysisInput{
		AnalysisID: input.AnalysisID,
		ProjectID:  input.ProjectID,
		Result:     out.Result,
	}).Get(ctx, nil); err != nil {
		return AnalysisOutput{}, fmt.Errorf("persist: %w", err)
	}
	_ = workflow.ExecuteActivity(ctx, "WriteAnalysisArtifactsActivity", activities.WriteAnalysisArtifactsInput{
		AnalysisID: input.AnalysisID,
		ProjectID:  input.ProjectID,
		Result:     out.Result,
	}).Get(ctx, nil)
	progress.Stages["persist"] = "done"

	progress.CurrentStage = "done"
	progress.Status = "completed"
	out.Status = "completed"
	logger.Info("analysis completed", "analysis_id", input.AnalysisID, "project_id", input.ProjectID)
	return out, nil
}

// DocumentIngestWorkflow extracts, summarizes, and indexes one uploaded
// document. It is started fire-and-forget; progress is observable through the
// workflow query and the stored document status.
func DocumentIngestWorkflow(ctx workflow.Context, input DocumentIngestInput) (string, error) {
	progress := DocumentIngestProgress{
		DocumentID: input.DocumentID,
		ProjectID:  input.ProjectID,
		Status:     "processing",
		Steps:      map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetIngestProgress, func() (DocumentIngestProgress, error) {
		return progress, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	failDocument := func(step, reason string) (string, error) {
		progress.Status = "failed"
		progress.FailReason = reason
		progress.Steps[step] = "failed"
		logger.Error("document ingest failed", "document_id", input.DocumentID, "step", step, "reason", reason)
		_ = workflow.ExecuteActivity(ctx, "UpdateDocumentStatusActivity", activities.UpdateDocumentStatusInput{
			DocumentID: input.DocumentID,
			Status:     "failed",
			FailReason: reason,
		}).Get(ctx, nil)
		return "failed", nil
	}

	progress.CurrentStep = "extract_text"
	progress.Steps[progress.CurrentStep] = "processing"
	var extractOut activities.ExtractDocumentTextOutput
	if err := workflow.ExecuteActivity(ctx, "ExtractDocumentTextActivity", activities.ExtractDocumentTextInput{
		FilePath: input.FilePath,
	}).Get(ctx, &extractOut); err != nil {
		if isUnsupportedFileTypeError(err) {
			return failDocument("extract_text", "unsupported file type")
		}
		if isEmptyDocumentError(err) {
			return failDocument("extract_text", "no extractable text found in document")
		}
		return "", err
	}
	progress.Steps["extract_text"] = "done"

	progress.CurrentStep = "summarize"
	progress.Steps[progress.CurrentStep] = "processing"
	var summaryOut activities.SummarizeDocumentOutput
	if err := workflow.ExecuteActivity(ctx, "SummarizeDocumentActivity", activities.SummarizeDocumentInput{
		ProjectID:  input.ProjectID,
		DocumentID: input.DocumentID,
		Title:      input.Title,
		Text:       extractOut.Text,
	}).Get(ctx, &summaryOut); err != nil {
		return failDocument("summarize", fmt.Sprintf("summarization failed: %v", err))
	}
	_ = workflow.ExecuteActivity(ctx, "UpdateDocumentSummaryActivity", activities.UpdateDocumentSummaryInput{
		DocumentID: input.DocumentID,
		Summary:    summaryOut.Summary,
	}).Get(ctx, nil)
	if !summaryOut.Degraded {
		_ = workflow.ExecuteActivity(ctx, "LogGenerationCallActivity", activities.LogGenerationCallInput{
			Operation:    "summarize_document",
			ProjectID:    input.ProjectID,
			DocumentID:   input.DocumentID,
			ProviderName: summaryOut.ProviderName,
			Model:        summaryOut.Model,
			Status:       "ok",
		}).Get(ctx, nil)
	}
	progress.Steps["summarize"] = "done"

	progress.CurrentStep = "index"
	progress.Steps[progress.CurrentStep] = "processing"
	if err := workflow.ExecuteActivity(ctx, "IndexDocumentActivity", activities.IndexDocumentInput{
		ProjectID:  input.ProjectID,
		DocumentID: input.DocumentID,
		Title:      input.Title,
		Text:       extractOut.Text,
	}).Get(ctx, nil); err != nil {
		return failDocument("index", fmt.Sprintf("indexing failed: %v", err))
	}
	progress.Steps["index"] = "done"

	progress.CurrentStep = "mark_ready"
	if err := workflow.ExecuteActivity(ctx, "UpdateDocumentStatusActivity", activities.UpdateDocumentStatusInput{
		DocumentID: input.DocumentID,
		Status:     "ready",
	}).Get(ctx, nil); err != nil {
		return "", err
	}
	progress.CurrentStep = "done"
	progress.Status = "ready"
	return "ready", nil
}

// ReindexProjectWorkflow rebuilds a project's semantic index from its ready
// documents. The index append-only semantics mean re-upload without a clear
// would double-count a document; this is the supported reset path.
func ReindexProjectWorkflow(ctx workflow.Context, input ReindexProjectInput) (ReindexProjectOutput, error) {
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    2,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)
	logger := workflow.GetLogger(ctx)

	var docs activities.ListReadyDocumentsOutput
	if err := workflow.ExecuteActivity(ctx, "ListReadyDocumentsActivity", activities.ListReadyDocumentsInput{
		ProjectID: input.ProjectID,
	}).Get(ctx, &docs); err != nil {
		return ReindexProjectOutput{}, err
	}
	if err := workflow.ExecuteActivity(ctx, "ClearProjectIndexActivity", activities.ClearProjectIndexInput{
		ProjectID: input.ProjectID,
	}).Get(ctx, nil); err != nil {
		return ReindexProjectOutput{}, err
	}

	out := ReindexProjectOutput{ProjectID: input.ProjectID, Total: len(docs.Documents)}
	for _, doc := range docs.Documents {
		var extractOut activities.ExtractDocumentTextOutput
		if err := workflow.ExecuteActivity(ctx, "ExtractDocumentTextActivity", activities.ExtractDocumentTextInput{
			FilePath: doc.FilePath,
		}).Get(ctx, &extractOut); err != nil {
			logger.Error("reindex extract failed", "document_id", doc.DocumentID, "error", err)
			out.Failed++
			continue
		}
		if err := workflow.ExecuteActivity(ctx, "IndexDocumentActivity", activities.IndexDocumentInput{
			ProjectID:  input.ProjectID,
			DocumentID: doc.DocumentID,
			Title:      doc.Title,
			Text:       extractOut.Text,
		}).Get(ctx, nil); err != nil {
			logger.Error("reindex index failed", "document_id", doc.DocumentID, "error", err)
			out.Failed++
			continue
		}
		out.Indexed++
	}
	return out, nil
}

// isTerminalStageError reports failures that are properties of the project or
// the model response rather than the infrastructure. They fail the run
// gracefully instead of surfacing a workflow error.
func isTerminalStageError(err error) bool {
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "has no documents") ||
		strings.Contains(e, "generation contract violation") ||
		strings.Contains(e, "missing credential")
}

func isUnsupportedFileTypeError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unsupported file type")
}

func isEmptyDocumentError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "no extractable text")
}

func logStageCall(ctx workflow.Context, input AnalysisInput, operation, providerName, model string) {
	_ = workflow.ExecuteActivity(ctx, "LogGenerationCallActivity", activities.LogGenerationCallInput{
		Operation:    operation,
		ProjectID:    input.ProjectID,
		ProviderName: providerName,
		Model:        model,
		Status:       "ok",
	}).Get(ctx, nil)
}
