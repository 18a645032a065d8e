package agents

import (
	"context"
	"fmt"
	"strings"

	"gapscout/internal/providers"
	"gapscout/internal/util"
)

const summarizeSystemPrompt = "You are a research document summarizer. Produce a concise 2-4 sentence summary of the document, covering its purpose, approach, and main results."

// SummarizeDocument produces a short plain-text summary of extracted document
// text. Input is truncated before prompting so oversized documents stay within
// model limits.
func SummarizeDocument(ctx context.Context, llm providers.LLMProvider, title, text string, inputLimit int) (string, error) {
	if inputLimit <= 0 {
		inputLimit = 8000
	}
	resp, _, err := llm.Generate(ctx, providers.GenerateRequest{
		Operation:   "summarize_document",
		System:      summarizeSystemPrompt,
		Prompt:      fmt.Sprintf("Document: %s\n\n%s\n\nSummarize this document.", title, util.TruncateRunes(text, inputLimit)),
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("summarize %q: %w", title, err)
	}
	summary := strings.TrimSpace(resp.Text)
	if summary == "" {
		return "", fmt.Errorf("summarize %q: empty response", title)
	}
	return summary, nil
}
