package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// MockProvider returns deterministic embeddings and schema-valid stage
// responses so the pipeline runs end to end without credentials.
type MockProvider struct {
	dim int
}

func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 1536
	}
	return &MockProvider{dim: dim}
}

func (m *MockProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	_ = ctx
	dim := req.Dimension
	if dim <= 0 {
		dim = m.dim
	}
	vectors := make([][]float32, 0, len(req.Inputs))
	for _, input := range req.Inputs {
		vectors = append(vectors, deterministicVector(input, dim))
	}
	return vectors, ProviderInfo{Name: "mock", Model: fmt.Sprintf("mock-embed-%d", dim), Key: "mock"}, nil
}

func (m *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	_ = ctx
	info := ProviderInfo{Name: "mock", Model: "mock-llm-v1", Key: "mock"}
	op := strings.ToLower(req.Operation)
	switch {
	case strings.Contains(op, "summar"):
		return GenerateResponse{Text: "Deterministic mock summary of the document. It restates the main finding in two sentences."}, info, nil
	case strings.Contains(op, "profile"):
		return GenerateResponse{Text: mockJSON(map[string]any{
			"researchArea":     "mock research area",
			"goals":            []string{"goal one", "goal two"},
			"methods":          []string{"method one"},
			"keyFindings":      []string{"finding one"},
			"knownLimitations": []string{"limitation one"},
			"openQuestions":    []string{"question one"},
		})}, info, nil
	case strings.Contains(op, "scout"):
		papers := make([]map[string]any, 0, 5)
		for i := 1; i <= 5; i++ {
			papers = append(papers, map[string]any{
				"title":           fmt.Sprintf("Mock Paper %d", i),
				"summary":         "A deterministic summary of prior work.",
				"relevanceReason": "Shares methods with the project.",
				"limitations":     "Synthetic, not a real publication.",
			})
		}
		return GenerateResponse{Text: mockJSON(map[string]any{"scoutedPapers": papers})}, info, nil
	case strings.Contains(op, "gap"):
		gaps := make([]map[string]any, 0, 3)
		for i := 1; i <= 3; i++ {
			gaps = append(gaps, map[string]any{
				"description":     fmt.Sprintf("Mock gap %d", i),
				"whyItMatters":    "Unexplored territory.",
				"whatSeemsMissing": "A controlled comparison.",
				"supportingRefs":  []string{"Mock Paper 1"},
			})
		}
		return GenerateResponse{Text: mockJSON(map[string]any{"gaps": gaps})}, info, nil
	case strings.Contains(op, "direction"):
		n := countLabeledBlocks(req.Prompt, "Gap")
		if n == 0 {
			n = 1
		}
		directions := make([]map[string]any, 0, n)
		for i := 1; i <= n; i++ {
			directions = append(directions, map[string]any{
				"title":               fmt.Sprintf("Mock direction %d", i),
				"hypothesis":          "Doing X will improve Y.",
				"proposedExperiments": []string{"experiment one", "experiment two"},
				"requiredData":        []string{"dataset one"},
				"feasibility":         "medium",
				"impact":              "high",
			})
		}
		return GenerateResponse{Text: mockJSON(map[string]any{"directions": directions})}, info, nil
	case strings.Contains(op, "critique"):
		n := countLabeledBlocks(req.Prompt, "Direction")
		if n == 0 {
			n = 1
		}
		critiques := make([]map[string]any, 0, n)
		for i := 1; i <= n; i++ {
			critiques = append(critiques, map[string]any{
				"strengths":             []string{"clear hypothesis"},
				"weaknesses":            []string{"small sample"},
				"risks":                 []string{"data availability"},
				"suggestedImprovements": []string{"add a baseline"},
				"piComment":             "Promising but needs a pilot study.",
			})
		}
		return GenerateResponse{Text: mockJSON(map[string]any{"critiques": critiques})}, info, nil
	default:
		return GenerateResponse{Text: "Mock response."}, info, nil
	}
}

func mockJSON(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

var labeledBlockRe = regexp.MustCompile(`(?m)^(\w+) \d+:`)

// countLabeledBlocks counts case-labeled blocks ("Gap 1:", "Direction 2:")
// in a stage prompt so the mock can match output to input cardinality.
func countLabeledBlocks(prompt, label string) int {
	n := 0
	for _, m := range labeledBlockRe.FindAllStringSubmatch(prompt, -1) {
		if m[1] == label {
			n++
		}
	}
	return n
}

func deterministicVector(input string, dim int) []float32 {
	vec := make([]float32, dim)
	seed := []byte(input)
	if len(seed) == 0 {
		seed = []byte("empty")
	}
	for i := 0; i < dim; i++ {
		h := sha256.Sum256(append(seed, byte(i%251)))
		u := binary.BigEndian.Uint32(h[:4])
		v := float32(u%2000)/1000.0 - 1.0
		vec[i] = v
	}
	return normalize(vec)
}

func normalize(v []float32) []float32 {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
	return v
}
