package models

import "time"

type User struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Project struct {
	ProjectID   string    `json:"project_id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Document struct {
	DocumentID       string    `json:"document_id"`
	ProjectID        string    `json:"project_id"`
	Title            string    `json:"title"`
	FilePath         string    `json:"file_path"`
	OriginalFileName string    `json:"original_file_name"`
	Summary          string    `json:"summary,omitempty"`
	Status           string    `json:"status"`
	FailReason       string    `json:"fail_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Analysis stores each pipeline artifact as a serialized JSON blob per field.
type Analysis struct {
	AnalysisID           string    `json:"analysis_id"`
	ProjectID            string    `json:"project_id"`
	ProjectProfile       string    `json:"project_profile"`
	ScoutedPapers        string    `json:"scouted_papers"`
	Gaps                 string    `json:"gaps"`
	Directions           string    `json:"directions"`
	CriticizedDirections string    `json:"criticized_directions"`
	CreatedAt            time.Time `json:"created_at"`
}

type Comment struct {
	CommentID  string    `json:"comment_id"`
	AnalysisID string    `json:"analysis_id"`
	ProjectID  string    `json:"project_id"`
	UserID     string    `json:"user_id"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
