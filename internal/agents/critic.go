package agents

import (
	"context"
	"fmt"

	"gapscout/internal/providers"
)

// critique holds only the fields the critic is allowed to produce. The
// direction fields themselves are copied from the input so a sloppy model
// cannot rewrite them.
type critique struct {
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	Risks                 []string `json:"risks"`
	SuggestedImprovements []string `json:"suggestedImprovements"`
	PIComment             string   `json:"piComment"`
}

type critiqueEnvelope struct {
	Critiques []critique `json:"critiques"`
}

// CritiqueDirections reviews each proposed direction and returns it annotated
// with the critic's assessment. The response must contain exactly one critique
// per input direction, in input order.
func CritiqueDirections(ctx context.Context, llm providers.LLMProvider, directions []ProposedDirection) ([]CriticizedDirection, error) {
	resp, _, err := llm.Generate(ctx, providers.GenerateRequest{
		Operation:   "critique_directions",
		System:      criticSystemPrompt,
		Prompt:      buildCritiquePrompt(directions),
		Temperature: 0.4,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("critique directions: %w", err)
	}

	var env critiqueEnvelope
	if err := DecodeStageJSON(resp.Text, &env); err != nil {
		return nil, err
	}
	if len(env.Critiques) != len(directions) {
		return nil, fmt.Errorf("%w: %d critiques for %d directions",
			ErrContractViolation, len(env.Critiques), len(directions))
	}

	out := make([]CriticizedDirection, len(directions))
	for i, c := range env.Critiques {
		out[i] = CriticizedDirection{
			ProposedDirection:     directions[i],
			Strengths:             ensureStrings(c.Strengths),
			Weaknesses:            ensureStrings(c.Weaknesses),
			Risks:                 ensureStrings(c.Risks),
			SuggestedImprovements: ensureStrings(c.SuggestedImprovements),
			PIComment:             c.PIComment,
		}
	}
	return out, nil
}
