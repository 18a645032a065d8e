package providers

import "context"

type ProviderInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	Key   string `json:"key"`
}

// GenerateRequest asks a provider for text. When ForceJSON is set the
// provider must request a well-formed JSON object response from the model;
// the pipeline stages rely on it.
type GenerateRequest struct {
	Operation   string  `json:"operation"`
	System      string  `json:"system"`
	Prompt      string  `json:"prompt"`
	Temperature float32 `json:"temperature"`
	ForceJSON   bool    `json:"force_json"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type EmbedRequest struct {
	Operation string   `json:"operation"`
	Inputs    []string `json:"inputs"`
	Dimension int      `json:"dimension"`
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}

type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error)
}

// IndexEmbedder adapts an EmbeddingProvider to the semantic index's
// minimal batch-embed interface.
type IndexEmbedder struct {
	Provider  EmbeddingProvider
	Dimension int
	Operation string
}

func (e IndexEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, _, err := e.Provider.Embed(ctx, EmbedRequest{
		Operation: e.Operation,
		Inputs:    texts,
		Dimension: e.Dimension,
	})
	return vectors, err
}
