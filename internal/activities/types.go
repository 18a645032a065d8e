package activities

import "gapscout/internal/agents"

type ExtractDocumentTextInput struct {
	FilePath string `json:"file_path"`
}

type ExtractDocumentTextOutput struct {
	Text string `json:"text"`
}

type SummarizeDocumentInput struct {
	ProjectID  string `json:"project_id"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Text       string `json:"text"`
}

type SummarizeDocumentOutput struct {
	Summary      string `json:"summary"`
	Degraded     bool   `json:"degraded"`
	ProviderName string `json:"provider_name"`
	Model        string `json:"model"`
}

type IndexDocumentInput struct {
	ProjectID  string `json:"project_id"`
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Text       string `json:"text"`
}

type IndexDocumentOutput struct {
	ChunkCount int `json:"chunk_count"`
}

type ClearProjectIndexInput struct {
	ProjectID string `json:"project_id"`
}

type ListReadyDocumentsInput struct {
	ProjectID string `json:"project_id"`
}

type ReadyDocument struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	FilePath   string `json:"file_path"`
}

type ListReadyDocumentsOutput struct {
	Documents []ReadyDocument `json:"documents"`
}

type UpdateDocumentStatusInput struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	FailReason string `json:"fail_reason"`
}

type UpdateDocumentSummaryInput struct {
	DocumentID string `json:"document_id"`
	Summary    string `json:"summary"`
}

type ProfileProjectInput struct {
	ProjectID string `json:"project_id"`
}

type ProfileProjectOutput struct {
	Profile      agents.ProjectProfile `json:"profile"`
	ProviderName string                `json:"provider_name"`
	Model        string                `json:"model"`
}

type ScoutPapersInput struct {
	ProjectID string                `json:"project_id"`
	Profile   agents.ProjectProfile `json:"profile"`
	NumPapers int                   `json:"num_papers"`
}

type ScoutPapersOutput struct {
	Papers       []agents.ScoutedPaper `json:"papers"`
	ProviderName string                `json:"provider_name"`
	Model        string                `json:"model"`
}

type FindGapsInput struct {
	ProjectID string                `json:"project_id"`
	Profile   agents.ProjectProfile `json:"profile"`
	Papers    []agents.ScoutedPaper `json:"papers"`
}

type FindGapsOutput struct {
	Gaps         []agents.Gap `json:"gaps"`
	ProviderName string       `json:"provider_name"`
	Model        string       `json:"model"`
}

type GenerateDirectionsInput struct {
	ProjectID string       `json:"project_id"`
	Gaps      []agents.Gap `json:"gaps"`
}

type GenerateDirectionsOutput struct {
	Directions   []agents.ProposedDirection `json:"directions"`
	ProviderName string                     `json:"provider_name"`
	Model        string                     `json:"model"`
}

type CritiqueDirectionsInput struct {
	ProjectID  string                     `json:"project_id"`
	Directions []agents.ProposedDirection `json:"directions"`
}

type CritiqueDirectionsOutput struct {
	Criticized   []agents.CriticizedDirection `json:"criticized"`
	ProviderName string                       `json:"provider_name"`
	Model        string                       `json:"model"`
}

type PersistAnalysisInput struct {
	AnalysisID string               `json:"analysis_id"`
	ProjectID  string               `json:"project_id"`
	Result     agents.AnalysisResult `json:"result"`
}

type WriteAnalysisArtifactsInput struct {
	AnalysisID string                `json:"analysis_id"`
	ProjectID  string                `json:"project_id"`
	Result     agents.AnalysisResult `json:"result"`
}

type WriteAnalysisArtifactsOutput struct {
	Path string `json:"path"`
}

type LogGenerationCallInput struct {
	CallID       string `json:"call_id"`
	Operation    string `json:"operation"`
	ProjectID    string `json:"project_id"`
	DocumentID   string `json:"document_id"`
	ProviderName string `json:"provider_name"`
	Model        string `json:"model"`
	Status       string `json:"status"`
	ErrorType    string `json:"error_type"`
}
