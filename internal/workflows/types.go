package workflows

import "gapscout/internal/agents"

type AnalysisInput struct {
	AnalysisID string `json:"analysis_id"`
	ProjectID  string `json:"project_id"`
	NumPapers  int    `json:"num_papers,omitempty"`
}

type AnalysisOutput struct {
	AnalysisID string                `json:"analysis_id"`
	ProjectID  string                `json:"project_id"`
	Status     string                `json:"status"`
	FailReason string                `json:"fail_reason,omitempty"`
	Result     agents.AnalysisResult `json:"result"`
}

type AnalysisProgress struct {
	AnalysisID   string            `json:"analysis_id"`
	ProjectID    string            `json:"project_id"`
	CurrentStage string            `json:"current_stage"`
	Status       string            `json:"status"`
	FailReason   string            `json:"fail_reason,omitempty"`
	Stages       map[string]string `json:"stages"`
}

type DocumentIngestInput struct {
	ProjectID  string `json:"project_id"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	FilePath   string `json:"file_path"`
}

type ReindexProjectInput struct {
	ProjectID string `json:"project_id"`
}

type ReindexProjectOutput struct {
	ProjectID string `json:"project_id"`
	Total     int    `json:"total"`
	Indexed   int    `json:"indexed"`
	Failed    int    `json:"failed"`
}

type DocumentIngestProgress struct {
	DocumentID  string            `json:"document_id"`
	ProjectID   string            `json:"project_id"`
	CurrentStep string            `json:"current_step"`
	Status      string            `json:"status"`
	FailReason  string            `json:"fail_reason,omitempty"`
	Steps       map[string]string `json:"steps"`
}
