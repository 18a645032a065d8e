package agents

import (
	"context"
	"fmt"

	"gapscout/internal/providers"
)

type directionsEnvelope struct {
	Directions []ProposedDirection `json:"directions"`
}

// GenerateDirections proposes research directions addressing the given gaps.
func GenerateDirections(ctx context.Context, llm providers.LLMProvider, gaps []Gap) ([]ProposedDirection, error) {
	resp, _, err := llm.Generate(ctx, providers.GenerateRequest{
		Operation:   "generate_directions",
		System:      directionSystemPrompt,
		Prompt:      buildDirectionsPrompt(gaps),
		Temperature: 0.5,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("generate directions: %w", err)
	}

	var env directionsEnvelope
	if err := DecodeStageJSON(resp.Text, &env); err != nil {
		return nil, err
	}
	if len(env.Directions) == 0 {
		return nil, fmt.Errorf("%w: no directions proposed", ErrContractViolation)
	}
	for i := range env.Directions {
		env.Directions[i].normalize()
	}
	return env.Directions, nil
}
