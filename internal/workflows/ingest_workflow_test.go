package workflows

import (
	"context"
	"errors"
	"testing"

	"gapscout/internal/activities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"
)

func registerIngestActivities(env *testsuite.TestWorkflowEnvironment) {
	registerActivityName(env, "ExtractDocumentTextActivity", func(context.Context, activities.ExtractDocumentTextInput) (activities.ExtractDocumentTextOutput, error) {
		return activities.ExtractDocumentTextOutput{}, nil
	})
	registerActivityName(env, "SummarizeDocumentActivity", func(context.Context, activities.SummarizeDocumentInput) (activities.SummarizeDocumentOutput, error) {
		return activities.SummarizeDocumentOutput{}, nil
	})
	registerActivityName(env, "IndexDocumentActivity", func(context.Context, activities.IndexDocumentInput) (activities.IndexDocumentOutput, error) {
		return activities.IndexDocumentOutput{}, nil
	})
	registerActivityName(env, "UpdateDocumentStatusActivity", func(context.Context, activities.UpdateDocumentStatusInput) error { return nil })
	registerActivityName(env, "UpdateDocumentSummaryActivity", func(context.Context, activities.UpdateDocumentSummaryInput) error { return nil })
	registerActivityName(env, "LogGenerationCallActivity", func(context.Context, activities.LogGenerationCallInput) error { return nil })
}

func TestDocumentIngestWorkflowSuccess(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentIngestWorkflow)
	registerIngestActivities(env)

	var statuses []string
	env.OnActivity("ExtractDocumentTextActivity", mock.Anything, activities.ExtractDocumentTextInput{FilePath: "/tmp/doc.pdf"}).
		Return(activities.ExtractDocumentTextOutput{Text: "extracted body text"}, nil)
	env.OnActivity("SummarizeDocumentActivity", mock.Anything, mock.Anything).
		Return(activities.SummarizeDocumentOutput{Summary: "a summary", ProviderName: "mock"}, nil)
	env.OnActivity("UpdateDocumentSummaryActivity", mock.Anything, activities.UpdateDocumentSummaryInput{DocumentID: "d1", Summary: "a summary"}).
		Return(nil)
	env.OnActivity("IndexDocumentActivity", mock.Anything, mock.Anything).
		Return(activities.IndexDocumentOutput{ChunkCount: 1}, nil)
	env.OnActivity("UpdateDocumentStatusActivity", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, in activities.UpdateDocumentStatusInput) error {
			statuses = append(statuses, in.Status)
			return nil
		})
	env.OnActivity("LogGenerationCallActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(DocumentIngestWorkflow, DocumentIngestInput{
		ProjectID:  "p1",
		DocumentID: "d1",
		Title:      "doc.pdf",
		FilePath:   "/tmp/doc.pdf",
	})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "ready", out)
	require.Equal(t, []string{"ready"}, statuses)
}

func TestDocumentIngestWorkflowUnsupportedTypeFailsGracefully(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentIngestWorkflow)
	registerIngestActivities(env)

	var failReason string
	env.OnActivity("ExtractDocumentTextActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractDocumentTextOutput{}, errors.New(`unsupported file type: "docx"`))
	env.OnActivity("UpdateDocumentStatusActivity", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, in activities.UpdateDocumentStatusInput) error {
			failReason = in.FailReason
			return nil
		})

	env.ExecuteWorkflow(DocumentIngestWorkflow, DocumentIngestInput{ProjectID: "p1", DocumentID: "d1", FilePath: "/tmp/doc.docx"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
	require.Contains(t, failReason, "unsupported file type")
}

func TestDocumentIngestWorkflowEmptyDocumentFailsGracefully(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentIngestWorkflow)
	registerIngestActivities(env)

	env.OnActivity("ExtractDocumentTextActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractDocumentTextOutput{}, errors.New("no extractable text found in document"))
	env.OnActivity("UpdateDocumentStatusActivity", mock.Anything, mock.Anything).Return(nil)

	env.ExecuteWorkflow(DocumentIngestWorkflow, DocumentIngestInput{ProjectID: "p1", DocumentID: "d1", FilePath: "/tmp/blank.txt"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "failed", out)
}

func TestDocumentIngestWorkflowDegradedSummaryStillIndexes(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentIngestWorkflow)
	registerIngestActivities(env)

	indexed := false
	logged := false
	env.OnActivity("ExtractDocumentTextActivity", mock.Anything, mock.Anything).
		Return(activities.ExtractDocumentTextOutput{Text: "body"}, nil)
	env.OnActivity("SummarizeDocumentActivity", mock.Anything, mock.Anything).
		Return(activities.SummarizeDocumentOutput{Summary: "Summary unavailable: no generation credentials configured.", Degraded: true}, nil)
	env.OnActivity("UpdateDocumentSummaryActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("IndexDocumentActivity", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, in activities.IndexDocumentInput) (activities.IndexDocumentOutput, error) {
			indexed = true
			return activities.IndexDocumentOutput{ChunkCount: 1}, nil
		})
	env.OnActivity("UpdateDocumentStatusActivity", mock.Anything, mock.Anything).Return(nil)
	env.OnActivity("LogGenerationCallActivity", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, in activities.LogGenerationCallInput) error {
			logged = true
			return nil
		})

	env.ExecuteWorkflow(DocumentIngestWorkflow, DocumentIngestInput{ProjectID: "p1", DocumentID: "d1", FilePath: "/tmp/doc.txt"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())

	var out string
	require.NoError(t, env.GetWorkflowResult(&out))
	require.Equal(t, "ready", out)
	require.True(t, indexed)
	require.False(t, logged, "degraded summaries are not audited as provider calls")
}
