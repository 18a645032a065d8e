package agents

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoDocuments reports a profiling attempt on a project without any
	// uploaded documents.
	ErrNoDocuments = errors.New("project has no documents")
	// ErrContractViolation reports a generation response that did not parse
	// as JSON or did not match the stage's output shape.
	ErrContractViolation = errors.New("generation contract violation")
)

// Level is the closed rating set for feasibility and impact. Any other value
// coming back from the generation capability fails decoding.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

func (l *Level) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: level must be a string", ErrContractViolation)
	}
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelHigh:
		*l = LevelHigh
	case LevelMedium:
		*l = LevelMedium
	case LevelLow:
		*l = LevelLow
	default:
		return fmt.Errorf("%w: invalid level %q", ErrContractViolation, s)
	}
	return nil
}

type ProjectProfile struct {
	ResearchArea     string   `json:"researchArea"`
	Goals            []string `json:"goals"`
	Methods          []string `json:"methods"`
	KeyFindings      []string `json:"keyFindings"`
	KnownLimitations []string `json:"knownLimitations"`
	OpenQuestions    []string `json:"openQuestions"`
}

type ScoutedPaper struct {
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	RelevanceReason string `json:"relevanceReason"`
	Limitations     string `json:"limitations"`
}

type Gap struct {
	Description      string   `json:"description"`
	WhyItMatters     string   `json:"whyItMatters"`
	WhatSeemsMissing string   `json:"whatSeemsMissing"`
	SupportingRefs   []string `json:"supportingRefs"`
}

type ProposedDirection struct {
	Title               string   `json:"title"`
	Hypothesis          string   `json:"hypothesis"`
	ProposedExperiments []string `json:"proposedExperiments"`
	RequiredData        []string `json:"requiredData"`
	Feasibility         Level    `json:"feasibility"`
	Impact              Level    `json:"impact"`
}

type CriticizedDirection struct {
	ProposedDirection
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	Risks                 []string `json:"risks"`
	SuggestedImprovements []string `json:"suggestedImprovements"`
	PIComment             string   `json:"piComment"`
}

// AnalysisResult is the pipeline's single return value.
type AnalysisResult struct {
	ProjectProfile       ProjectProfile        `json:"projectProfile"`
	ScoutedPapers        []ScoutedPaper        `json:"scoutedPapers"`
	Gaps                 []Gap                 `json:"gaps"`
	Directions           []ProposedDirection   `json:"directions"`
	CriticizedDirections []CriticizedDirection `json:"criticizedDirections"`
}

// ensureStrings keeps sequence fields empty-not-nil after a successful parse.
func ensureStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (p *ProjectProfile) normalize() {
	p.Goals = ensureStrings(p.Goals)
	p.Methods = ensureStrings(p.Methods)
	p.KeyFindings = ensureStrings(p.KeyFindings)
	p.KnownLimitations = ensureStrings(p.KnownLimitations)
	p.OpenQuestions = ensureStrings(p.OpenQuestions)
}

func (g *Gap) normalize() {
	g.SupportingRefs = ensureStrings(g.SupportingRefs)
}

func (d *ProposedDirection) normalize() {
	d.ProposedExperiments = ensureStrings(d.ProposedExperiments)
	d.RequiredData = ensureStrings(d.RequiredData)
}
