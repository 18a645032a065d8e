package agents

import (
	"fmt"
	"strings"
)

// blockDelimiter separates case-labeled blocks inside stage prompts.
const blockDelimiter = "\n---\n"

const (
	profileSystemPrompt = "You are a research analysis assistant. Analyze the provided research project documents and generate a structured project profile. Be specific and extract concrete information from the documents."

	scoutSystemPrompt = "You are a literature review assistant. Based on the research project profile, generate a list of relevant research papers that would be found in a literature search. These should be realistic, relevant papers that address similar topics, methods, or questions."

	gapSystemPrompt = "You are a research gap analysis expert. Compare the project work with the relevant literature to identify specific research gaps, missing approaches, or underexplored areas. Be specific and actionable."

	directionSystemPrompt = "You are a research strategy advisor. Based on identified research gaps, propose concrete, actionable research directions with specific hypotheses and experimental approaches."

	criticSystemPrompt = "You are a Principal Investigator (PI) reviewing research proposals. Provide critical, constructive feedback from the perspective of an experienced researcher who evaluates proposals for funding, feasibility, and scientific rigor. Be thorough but fair."
)

type DocumentSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

func buildProfilePrompt(title, description string, docs []DocumentSummary, excerpts []string) string {
	var b strings.Builder
	b.WriteString("Project Title: " + title + "\n")
	desc := description
	if strings.TrimSpace(desc) == "" {
		desc = "No description"
	}
	b.WriteString("Project Description: " + desc + "\n\n")
	b.WriteString("Document Summaries:\n")
	for _, d := range docs {
		summary := d.Summary
		if strings.TrimSpace(summary) == "" {
			summary = "No summary available"
		}
		b.WriteString("- " + d.Title + ": " + summary + "\n")
	}
	b.WriteString("\nRelevant Document Excerpts:\n")
	b.WriteString(strings.Join(excerpts, "\n\n---\n\n"))
	b.WriteString(`

Generate a structured project profile with the following fields:
- researchArea: A concise description of the research domain/area
- goals: Array of 3-5 specific research goals
- methods: Array of methods, techniques, or approaches used
- keyFindings: Array of 3-5 key findings or results
- knownLimitations: Array of limitations mentioned or apparent
- openQuestions: Array of open questions or areas for future investigation

Return ONLY a valid JSON object with this structure:
{"researchArea":"...","goals":["..."],"methods":["..."],"keyFindings":["..."],"knownLimitations":["..."],"openQuestions":["..."]}`)
	return b.String()
}

func buildScoutPrompt(profile ProjectProfile, numPapers int) string {
	var b strings.Builder
	b.WriteString("Research Area: " + profile.ResearchArea + "\n")
	b.WriteString("Goals: " + strings.Join(profile.Goals, ", ") + "\n")
	b.WriteString("Methods: " + strings.Join(profile.Methods, ", ") + "\n")
	b.WriteString("Key Findings: " + strings.Join(profile.KeyFindings, ", ") + "\n")
	fmt.Fprintf(&b, `
Generate %d relevant research papers. For each paper, provide:
- title: A realistic research paper title
- summary: A 2-3 sentence summary of the paper's main contributions
- relevanceReason: Why this paper is relevant to the project
- limitations: What limitations or gaps this paper has

Return ONLY a valid JSON object with this structure:
{"scoutedPapers":[{"title":"...","summary":"...","relevanceReason":"...","limitations":"..."}]}`, numPapers)
	return b.String()
}

func buildGapPrompt(profile ProjectProfile, papers []ScoutedPaper) string {
	blocks := make([]string, 0, len(papers))
	for i, p := range papers {
		blocks = append(blocks, fmt.Sprintf("Paper %d: %s\nSummary: %s\nRelevance: %s\nLimitations: %s",
			i+1, p.Title, p.Summary, p.RelevanceReason, p.Limitations))
	}

	var b strings.Builder
	b.WriteString("Project Profile:\n")
	b.WriteString("Research Area: " + profile.ResearchArea + "\n")
	b.WriteString("Goals:\n- " + strings.Join(profile.Goals, "\n- ") + "\n")
	b.WriteString("Methods:\n- " + strings.Join(profile.Methods, "\n- ") + "\n")
	b.WriteString("Key Findings:\n- " + strings.Join(profile.KeyFindings, "\n- ") + "\n")
	b.WriteString("Known Limitations:\n- " + strings.Join(profile.KnownLimitations, "\n- ") + "\n")
	b.WriteString("Open Questions:\n- " + strings.Join(profile.OpenQuestions, "\n- ") + "\n\n")
	b.WriteString("Relevant Literature:\n")
	b.WriteString(strings.Join(blocks, blockDelimiter))
	b.WriteString(`

Identify 3-5 specific research gaps by comparing what the project has done versus what exists in the literature. For each gap, provide:
- description: A clear description of the gap
- whyItMatters: Why addressing this gap is important
- whatSeemsMissing: What specific elements, methods, or knowledge are missing
- supportingRefs: Array of references (paper titles or project findings) that support this gap identification

Return ONLY a valid JSON object with this structure:
{"gaps":[{"description":"...","whyItMatters":"...","whatSeemsMissing":"...","supportingRefs":["..."]}]}`)
	return b.String()
}

func buildDirectionsPrompt(gaps []Gap) string {
	blocks := make([]string, 0, len(gaps))
	for i, g := range gaps {
		blocks = append(blocks, fmt.Sprintf("Gap %d: %s\nWhy it matters: %s\nWhat's missing: %s\nSupporting refs: %s",
			i+1, g.Description, g.WhyItMatters, g.WhatSeemsMissing, strings.Join(g.SupportingRefs, ", ")))
	}

	return strings.Join(blocks, blockDelimiter) + `

For each gap, propose 1-2 concrete research directions. For each direction, provide:
- title: A clear, descriptive title
- hypothesis: A testable hypothesis
- proposedExperiments: Array of 2-4 specific experiments or studies
- requiredData: Array of data or resources needed
- feasibility: "high", "medium", or "low"
- impact: "high", "medium", or "low"

Return ONLY a valid JSON object with this structure:
{"directions":[{"title":"...","hypothesis":"...","proposedExperiments":["..."],"requiredData":["..."],"feasibility":"high|medium|low","impact":"high|medium|low"}]}`
}

func buildCritiquePrompt(directions []ProposedDirection) string {
	blocks := make([]string, 0, len(directions))
	for i, d := range directions {
		blocks = append(blocks, fmt.Sprintf("Direction %d: %s\nHypothesis: %s\nProposed Experiments:\n- %s\nRequired Data: %s\nFeasibility: %s\nImpact: %s",
			i+1, d.Title, d.Hypothesis, strings.Join(d.ProposedExperiments, "\n- "),
			strings.Join(d.RequiredData, ", "), d.Feasibility, d.Impact))
	}

	return strings.Join(blocks, blockDelimiter) + `

Review each proposed research direction from a PI perspective, in the order given. For each direction, provide:
- strengths: Array of 2-3 strengths
- weaknesses: Array of 2-3 weaknesses or concerns
- risks: Array of potential risks or challenges
- suggestedImprovements: Array of specific suggestions to improve the direction
- piComment: A 2-3 sentence overall comment from the PI perspective

Return ONLY a valid JSON object with one critique entry per direction, in input order:
{"critiques":[{"strengths":["..."],"weaknesses":["..."],"risks":["..."],"suggestedImprovements":["..."],"piComment":"..."}]}`
}
