package agents

import (
	"context"
	"fmt"

	"gapscout/internal/providers"
)

type gapEnvelope struct {
	Gaps []Gap `json:"gaps"`
}

// FindGaps compares the project profile against the scouted literature and
// returns the identified research gaps.
func FindGaps(ctx context.Context, llm providers.LLMProvider, profile ProjectProfile, papers []ScoutedPaper) ([]Gap, error) {
	resp, _, err := llm.Generate(ctx, providers.GenerateRequest{
		Operation:   "find_gaps",
		System:      gapSystemPrompt,
		Prompt:      buildGapPrompt(profile, papers),
		Temperature: 0.4,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("find gaps: %w", err)
	}

	var env gapEnvelope
	if err := DecodeStageJSON(resp.Text, &env); err != nil {
		return nil, err
	}
	if len(env.Gaps) == 0 {
		return nil, fmt.Errorf("%w: gap finder returned no gaps", ErrContractViolation)
	}
	for i := range env.Gaps {
		env.Gaps[i].normalize()
	}
	return env.Gaps, nil
}
