package agents

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeStageJSONStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"researchArea\":\"nlp\"}\n```"
	var p ProjectProfile
	if err := DecodeStageJSON(raw, &p); err != nil {
		t.Fatal(err)
	}
	if p.ResearchArea != "nlp" {
		t.Fatalf("got %q", p.ResearchArea)
	}
}

func TestDecodeStageJSONRejectsNonJSON(t *testing.T) {
	var p ProjectProfile
	err := DecodeStageJSON("the model rambled instead of emitting JSON", &p)
	if !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestDecodeStageJSONRejectsEmpty(t *testing.T) {
	var p ProjectProfile
	if err := DecodeStageJSON("   ", &p); !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestLevelRejectsUnknownValue(t *testing.T) {
	var d ProposedDirection
	err := json.Unmarshal([]byte(`{"title":"t","feasibility":"maybe","impact":"high"}`), &d)
	if !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected contract violation for bad level, got %v", err)
	}
}

func TestLevelNormalizesCase(t *testing.T) {
	var d ProposedDirection
	if err := json.Unmarshal([]byte(`{"feasibility":" High ","impact":"LOW"}`), &d); err != nil {
		t.Fatal(err)
	}
	if d.Feasibility != LevelHigh || d.Impact != LevelLow {
		t.Fatalf("got %s / %s", d.Feasibility, d.Impact)
	}
}
