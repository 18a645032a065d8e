package agents

import (
	"context"
	"fmt"

	"gapscout/internal/index"
	"gapscout/internal/providers"
)

// Retriever is the slice of the semantic index the profiler needs.
type Retriever interface {
	Query(ctx context.Context, projectID, query string, topK int) ([]index.Result, error)
	Count(projectID string) int
}

// profileTopics drive the retrieval pass: one query per facet of a project
// profile, top hits merged into the prompt as excerpts.
var profileTopics = []string{
	"research objectives and goals",
	"methodology and experimental approach",
	"key findings and results",
	"limitations and constraints",
	"open questions and future work",
}

type ProfileInput struct {
	ProjectID   string
	Title       string
	Description string
	Documents   []DocumentSummary
	TopK        int
	MaxExcerpts int
}

// Profile builds a structured project profile from the project's documents.
// It retrieves excerpts per topic from the index, deduplicates them, and asks
// the generation capability for the profile JSON.
func Profile(ctx context.Context, llm providers.LLMProvider, retriever Retriever, in ProfileInput) (ProjectProfile, error) {
	if len(in.Documents) == 0 {
		return ProjectProfile{}, fmt.Errorf("project %s: %w", in.ProjectID, ErrNoDocuments)
	}
	topK := in.TopK
	if topK <= 0 {
		topK = 2
	}
	maxExcerpts := in.MaxExcerpts
	if maxExcerpts <= 0 {
		maxExcerpts = 5
	}

	seen := map[string]bool{}
	excerpts := make([]string, 0, maxExcerpts)
	for _, topic := range profileTopics {
		if len(excerpts) >= maxExcerpts {
			break
		}
		hits, err := retriever.Query(ctx, in.ProjectID, topic, topK)
		if err != nil {
			return ProjectProfile{}, fmt.Errorf("retrieve %q: %w", topic, err)
		}
		for _, hit := range hits {
			if seen[hit.Text] || len(excerpts) >= maxExcerpts {
				continue
			}
			seen[hit.Text] = true
			excerpts = append(excerpts, hit.Text)
		}
	}

	resp, _, err := llm.Generate(ctx, providers.GenerateRequest{
		Operation:   "profile_project",
		System:      profileSystemPrompt,
		Prompt:      buildProfilePrompt(in.Title, in.Description, in.Documents, excerpts),
		Temperature: 0.3,
		ForceJSON:   true,
	})
	if err != nil {
		return ProjectProfile{}, fmt.Errorf("profile project: %w", err)
	}

	var profile ProjectProfile
	if err := DecodeStageJSON(resp.Text, &profile); err != nil {
		return ProjectProfile{}, err
	}
	profile.normalize()
	return profile, nil
}
