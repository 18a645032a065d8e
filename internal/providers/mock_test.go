package providers

import (
	"context"
	"encoding/json"
	"testing"
)

func TestMockEmbedIsDeterministic(t *testing.T) {
	m := NewMockProvider(8)
	a, _, err := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"hello"}, Dimension: 8})
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := m.Embed(context.Background(), EmbedRequest{Inputs: []string{"hello"}, Dimension: 8})
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 1 || len(a[0]) != 8 {
		t.Fatalf("unexpected vector shape: %d x %d", len(a), len(a[0]))
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatal("mock embedding not deterministic")
		}
	}
}

func TestMockGenerateReturnsValidStageJSON(t *testing.T) {
	m := NewMockProvider(8)
	ops := []string{"profile_project", "scout_papers", "find_gaps", "generate_directions", "critique_directions"}
	for _, op := range ops {
		resp, _, err := m.Generate(context.Background(), GenerateRequest{Operation: op, Prompt: "Gap 1: x\nDirection 1: y", ForceJSON: true})
		if err != nil {
			t.Fatalf("%s: %v", op, err)
		}
		var v map[string]any
		if err := json.Unmarshal([]byte(resp.Text), &v); err != nil {
			t.Fatalf("%s: mock response is not JSON: %v", op, err)
		}
	}
}

func TestCountLabeledBlocks(t *testing.T) {
	prompt := "Gap 1: a\nwhy: b\n---\nGap 2: c\n---\nDirection 1: d\n"
	if n := countLabeledBlocks(prompt, "Gap"); n != 2 {
		t.Fatalf("expected 2 gap blocks, got %d", n)
	}
	if n := countLabeledBlocks(prompt, "Direction"); n != 1 {
		t.Fatalf("expected 1 direction block, got %d", n)
	}
}
