package agents

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gapscout/internal/index"
	"gapscout/internal/providers"
)

// scriptedLLM returns a fixed response per operation and records calls.
type scriptedLLM struct {
	responses map[string]string
	calls     []string
}

func (s *scriptedLLM) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	s.calls = append(s.calls, req.Operation)
	text, ok := s.responses[req.Operation]
	if !ok {
		return providers.GenerateResponse{}, providers.ProviderInfo{}, fmt.Errorf("no scripted response for %s", req.Operation)
	}
	return providers.GenerateResponse{Text: text}, providers.ProviderInfo{Name: "scripted"}, nil
}

type fixedRetriever struct {
	hits []index.Result
	n    int
}

func (r *fixedRetriever) Query(ctx context.Context, projectID, query string, topK int) ([]index.Result, error) {
	if topK > len(r.hits) {
		topK = len(r.hits)
	}
	return r.hits[:topK], nil
}

func (r *fixedRetriever) Count(projectID string) int { return r.n }

func TestProfileRequiresDocuments(t *testing.T) {
	llm := &scriptedLLM{}
	_, err := Profile(context.Background(), llm, &fixedRetriever{}, ProfileInput{ProjectID: "p1"})
	if !errors.Is(err, ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
	if len(llm.calls) != 0 {
		t.Fatal("no generation call expected for empty project")
	}
}

func TestProfileDeduplicatesExcerpts(t *testing.T) {
	llm := &scriptedLLM{responses: map[string]string{
		"profile_project": `{"researchArea":"robotics","goals":["g"],"methods":["m"],"keyFindings":["k"],"knownLimitations":["l"],"openQuestions":["q"]}`,
	}}
	// Every topic query returns the same excerpt; only one copy may reach the prompt.
	ret := &fixedRetriever{hits: []index.Result{{Text: "same excerpt", Score: 0.9}}, n: 1}
	profile, err := Profile(context.Background(), llm, ret, ProfileInput{
		ProjectID: "p1",
		Title:     "Robot Arm Control",
		Documents: []DocumentSummary{{Title: "doc.pdf", Summary: "about arms"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if profile.ResearchArea != "robotics" {
		t.Fatalf("got %q", profile.ResearchArea)
	}
	if len(llm.calls) != 1 {
		t.Fatalf("expected a single generation call, got %d", len(llm.calls))
	}
}

func TestScoutRejectsEmptyPaperList(t *testing.T) {
	llm := &scriptedLLM{responses: map[string]string{"scout_papers": `{"scoutedPapers":[]}`}}
	_, err := ScoutPapers(context.Background(), llm, ProjectProfile{ResearchArea: "x"}, 5)
	if !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

func TestCriticPreservesDirectionFields(t *testing.T) {
	directions := []ProposedDirection{
		{
			Title:               "Direction A",
			Hypothesis:          "H-A",
			ProposedExperiments: []string{"e1", "e2"},
			RequiredData:        []string{"d1"},
			Feasibility:         LevelMedium,
			Impact:              LevelHigh,
		},
		{
			Title:       "Direction B",
			Hypothesis:  "H-B",
			Feasibility: LevelLow,
			Impact:      LevelMedium,
		},
	}
	// The scripted critic tries to rename the first direction; the copied
	// input fields must win.
	llm := &scriptedLLM{responses: map[string]string{
		"critique_directions": `{"critiques":[
			{"title":"Hijacked","strengths":["s1"],"weaknesses":["w1"],"risks":["r1"],"suggestedImprovements":["i1"],"piComment":"fine"},
			{"strengths":[],"weaknesses":null,"risks":["r2"],"suggestedImprovements":["i2"],"piComment":"ok"}
		]}`,
	}}
	out, err := CritiqueDirections(context.Background(), llm, directions)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 criticized directions, got %d", len(out))
	}
	if out[0].Title != "Direction A" || out[0].Hypothesis != "H-A" {
		t.Fatalf("direction fields not preserved: %+v", out[0].ProposedDirection)
	}
	if out[0].Feasibility != LevelMedium || out[0].Impact != LevelHigh {
		t.Fatal("level fields not preserved")
	}
	if out[0].PIComment != "fine" {
		t.Fatalf("critique fields not taken from response: %q", out[0].PIComment)
	}
	if out[1].Weaknesses == nil || out[1].Strengths == nil {
		t.Fatal("critique slices must be empty, not nil")
	}
}

func TestCriticRejectsCardinalityMismatch(t *testing.T) {
	llm := &scriptedLLM{responses: map[string]string{
		"critique_directions": `{"critiques":[{"piComment":"only one"}]}`,
	}}
	_, err := CritiqueDirections(context.Background(), llm, []ProposedDirection{{Title: "a"}, {Title: "b"}})
	if !errors.Is(err, ErrContractViolation) {
		t.Fatalf("expected contract violation, got %v", err)
	}
}

// The mock provider keys its direction and critique counts off the labeled
// blocks in the prompt, so the whole chain should line up end to end.
func TestStageChainWithMockProvider(t *testing.T) {
	ctx := context.Background()
	llm := providers.NewMockProvider(8)
	profile := ProjectProfile{ResearchArea: "mock", Goals: []string{"g"}}

	papers, err := ScoutPapers(ctx, llm, profile, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(papers) != 5 {
		t.Fatalf("expected 5 papers, got %d", len(papers))
	}

	gaps, err := FindGaps(ctx, llm, profile, papers)
	if err != nil {
		t.Fatal(err)
	}
	if len(gaps) < 3 || len(gaps) > 5 {
		t.Fatalf("expected 3-5 gaps, got %d", len(gaps))
	}

	directions, err := GenerateDirections(ctx, llm, gaps)
	if err != nil {
		t.Fatal(err)
	}
	if len(directions) != len(gaps) {
		t.Fatalf("mock yields one direction per gap: %d vs %d", len(directions), len(gaps))
	}

	criticized, err := CritiqueDirections(ctx, llm, directions)
	if err != nil {
		t.Fatal(err)
	}
	if len(criticized) != len(directions) {
		t.Fatalf("expected %d criticized directions, got %d", len(directions), len(criticized))
	}
	for i := range criticized {
		if criticized[i].Title != directions[i].Title {
			t.Fatalf("direction %d title changed by critic", i)
		}
	}
}
