package agents

import (
	"context"
	"fmt"

	"gapscout/internal/providers"
)

type scoutEnvelope struct {
	ScoutedPapers []ScoutedPaper `json:"scoutedPapers"`
}

// ScoutPapers generates a set of literature references relevant to the
// project profile.
func ScoutPapers(ctx context.Context, llm providers.LLMProvider, profile ProjectProfile, numPapers int) ([]ScoutedPaper, error) {
	if numPapers <= 0 {
		numPapers = 5
	}
	resp, _, err := llm.Generate(ctx, providers.GenerateRequest{
		Operation:   "scout_papers",
		System:      scoutSystemPrompt,
		Prompt:      buildScoutPrompt(profile, numPapers),
		Temperature: 0.5,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("scout papers: %w", err)
	}

	var env scoutEnvelope
	if err := DecodeStageJSON(resp.Text, &env); err != nil {
		return nil, err
	}
	if len(env.ScoutedPapers) == 0 {
		return nil, fmt.Errorf("%w: scout returned no papers", ErrContractViolation)
	}
	return env.ScoutedPapers, nil
}
