package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gapscout/internal/config"
	"gapscout/internal/models"
	"gapscout/internal/storage"
	"gapscout/internal/util"
	"gapscout/internal/workflows"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

// allowed upload extensions, matching the extraction allow-list.
var allowedUploadExts = map[string]bool{".pdf": true, ".txt": true, ".md": true}

var allowedCommentTargets = map[string]bool{
	"profile":   true,
	"paper":     true,
	"gap":       true,
	"direction": true,
}

type Server struct {
	cfg          config.Config
	db           *storage.DB
	userRepo     *storage.UserRepo
	projectRepo  *storage.ProjectRepo
	documentRepo *storage.DocumentRepo
	analysisRepo *storage.AnalysisRepo
	commentRepo  *storage.CommentRepo
	temporal     tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := storage.NewDB(ctx, cfg.PostgresURL)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}
	return &Server{
		cfg:          cfg,
		db:           db,
		userRepo:     storage.NewUserRepo(db),
		projectRepo:  storage.NewProjectRepo(db),
		documentRepo: storage.NewDocumentRepo(db),
		analysisRepo: storage.NewAnalysisRepo(db),
		commentRepo:  storage.NewCommentRepo(db),
		temporal:     tc,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/users/login", s.handleLogin)
	mux.HandleFunc("/projects", s.handleProjects)
	mux.HandleFunc("/projects/", s.handleProjectScoped)
	mux.HandleFunc("/analyses/", s.handleAnalysisScoped)
	mux.HandleFunc("/comments", s.handleComments)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("email is required"))
		return
	}
	user, err := s.userRepo.UpsertByEmail(r.Context(), uuid.NewString(), req.Email, strings.TrimSpace(req.Name))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

// requireUser resolves the caller from the x-user-email header. Login is
// email-only; there are no sessions or tokens.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	email := strings.ToLower(strings.TrimSpace(r.Header.Get("x-user-email")))
	if email == "" {
		writeErr(w, http.StatusUnauthorized, fmt.Errorf("x-user-email header is required"))
		return models.User{}, false
	}
	user, err := s.userRepo.GetByEmail(r.Context(), email)
	if err != nil {
		writeErr(w, http.StatusUnauthorized, fmt.Errorf("unknown user: %s", email))
		return models.User{}, false
	}
	return user, true
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	switch r.Method {
	case http.MethodGet:
		projects, err := s.projectRepo.ListProjectsByUser(r.Context(), user.UserID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
	case http.MethodPost:
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
			return
		}
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("title is required"))
			return
		}
		project := models.Project{
			ProjectID:   uuid.NewString(),
			UserID:      user.UserID,
			Title:       req.Title,
			Description: strings.TrimSpace(req.Description),
		}
		if err := s.projectRepo.CreateProject(r.Context(), project); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		if err := util.EnsureDir(filepath.Join(s.cfg.DataInRoot, project.ProjectID)); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"project": project})
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleProjectScoped(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/projects/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	projectID := parts[0]
	project, err := s.projectRepo.GetProject(r.Context(), projectID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if project.UserID != user.UserID {
		writeErr(w, http.StatusForbidden, fmt.Errorf("project belongs to another user"))
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, map[string]any{"project": project})
		case http.MethodDelete:
			if err := s.projectRepo.DeleteProject(r.Context(), projectID); err != nil {
				writeErr(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"deleted": projectID})
		default:
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		}
		return
	}

	switch parts[1] {
	case "documents":
		switch r.Method {
		case http.MethodGet:
			docs, err := s.documentRepo.ListDocumentsByProject(r.Context(), projectID)
			if err != nil {
				writeErr(w, http.StatusInternalServerError, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
		case http.MethodPost:
			s.handleDocumentUpload(w, r, projectID)
		default:
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		}
	case "analyze":
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		s.handleAnalyze(w, r, projectID)
	case "analyses":
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		previews, err := s.analysisRepo.ListAnalysesByProject(r.Context(), projectID)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"analyses": previews})
	case "reindex":
		if r.Method != http.MethodPost {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
			ID:                    "reindex-" + projectID,
			TaskQueue:             s.cfg.TemporalTaskQueue,
			WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		}, workflows.ReindexProjectWorkflow, workflows.ReindexProjectInput{ProjectID: projectID})
		if err != nil {
			writeErr(w, http.StatusConflict, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"workflow_id": we.GetID(), "run_id": we.GetRunID()})
	default:
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
	}
}

// handleDocumentUpload stores the uploaded files and starts one ingest
// workflow per document without waiting for the result. The returned handles
// identify the running workflows.
func (s *Server) handleDocumentUpload(w http.ResponseWriter, r *http.Request, projectID string) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		if single, ok := firstSingleFile(r.MultipartForm.File); ok {
			files = append(files, single)
		}
	}
	if len(files) == 0 {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}

	inDir := filepath.Join(s.cfg.DataInRoot, projectID)
	if err := util.EnsureDir(inDir); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	type uploadResult struct {
		DocumentID string `json:"document_id"`
		Filename   string `json:"filename"`
		WorkflowID string `json:"workflow_id"`
	}
	out := make([]uploadResult, 0, len(files))

	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedUploadExts[ext] {
			writeErr(w, http.StatusBadRequest, fmt.Errorf("unsupported file type: %q", strings.TrimPrefix(ext, ".")))
			return
		}
		documentID, savedPath, err := saveUploadedFile(inDir, fh)
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		filename := filepath.Base(savedPath)
		if err := s.documentRepo.UpsertDocument(r.Context(), models.Document{
			DocumentID:       documentID,
			ProjectID:        projectID,
			Title:            filename,
			FilePath:         savedPath,
			OriginalFileName: fh.Filename,
			Status:           "processing",
		}); err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}

		wfID := "ingest-" + documentID
		we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
			ID:                    wfID,
			TaskQueue:             s.cfg.TemporalTaskQueue,
			WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		}, workflows.DocumentIngestWorkflow, workflows.DocumentIngestInput{
			ProjectID:  projectID,
			DocumentID: documentID,
			Title:      filename,
			FilePath:   savedPath,
		})
		if err != nil {
			writeErr(w, http.StatusConflict, err)
			return
		}
		out = append(out, uploadResult{DocumentID: documentID, Filename: filename, WorkflowID: we.GetID()})
	}
	_ = s.projectRepo.TouchProject(r.Context(), projectID)
	writeJSON(w, http.StatusAccepted, map[string]any{"uploaded": out})
}

// handleAnalyze runs the pipeline synchronously: the request blocks until the
// workflow finishes and the response carries the full analysis or the failed
// stage's reason.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request, projectID string) {
	var req struct {
		NumPapers int `json:"num_papers"`
	}
	// The body is optional; an empty request uses the configured paper count.
	_ = json.NewDecoder(r.Body).Decode(&req)

	analysisID := uuid.NewString()
	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:        "analysis-" + analysisID,
		TaskQueue: s.cfg.TemporalTaskQueue,
	}, workflows.AnalysisWorkflow, workflows.AnalysisInput{
		AnalysisID: analysisID,
		ProjectID:  projectID,
		NumPapers:  req.NumPapers,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}

	var out workflows.AnalysisOutput
	if err := we.Get(r.Context(), &out); err != nil {
		writeErr(w, http.StatusBadGateway, fmt.Errorf("analysis failed: %w", err))
		return
	}
	if out.Status == "failed" {
		status := http.StatusBadGateway
		if strings.Contains(out.FailReason, "no documents") {
			status = http.StatusBadRequest
		}
		writeErr(w, status, fmt.Errorf("%s", out.FailReason))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"analysis_id": out.AnalysisID,
		"project_id":  out.ProjectID,
		"result":      out.Result,
	})
}

func (s *Server) handleAnalysisScoped(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	analysisID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/analyses/"), "/")
	if analysisID == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	analysis, err := s.analysisRepo.GetAnalysis(r.Context(), analysisID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	project, err := s.projectRepo.GetProject(r.Context(), analysis.ProjectID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	if project.UserID != user.UserID {
		writeErr(w, http.StatusForbidden, fmt.Errorf("analysis belongs to another user"))
		return
	}
	comments, err := s.commentRepo.ListCommentsByAnalysis(r.Context(), analysisID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": analysis,
		"comments": storage.GroupByTarget(comments),
	})
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		AnalysisID string `json:"analysis_id"`
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	req.TargetType = strings.ToLower(strings.TrimSpace(req.TargetType))
	if req.AnalysisID == "" || req.TargetType == "" || req.Content == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("analysis_id, target_type, and content are required"))
		return
	}
	if !allowedCommentTargets[req.TargetType] {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid target_type: %q", req.TargetType))
		return
	}
	analysis, err := s.analysisRepo.GetAnalysis(r.Context(), req.AnalysisID)
	if err != nil {
		writeErr(w, http.StatusNotFound, err)
		return
	}
	comment := models.Comment{
		CommentID:  uuid.NewString(),
		AnalysisID: analysis.AnalysisID,
		ProjectID:  analysis.ProjectID,
		UserID:     user.UserID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Content:    req.Content,
	}
	if err := s.commentRepo.InsertComment(r.Context(), comment); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

func saveUploadedFile(dstDir string, fh *multipart.FileHeader) (documentID, path string, err error) {
	src, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(dstDir, "upload-*")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return "", "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", "", err
	}

	documentID, err = util.SHA256HexFromFile(tmp.Name())
	if err != nil {
		return "", "", err
	}
	finalPath := util.SafeJoin(dstDir, fh.Filename)
	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		return "", "", fmt.Errorf("atomic move upload: %w", err)
	}
	return documentID, finalPath, nil
}

func firstSingleFile(m map[string][]*multipart.FileHeader) (*multipart.FileHeader, bool) {
	for _, v := range m {
		if len(v) > 0 {
			return v[0], true
		}
	}
	return nil, false
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	msg := "request failed"
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"message": msg,
		},
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-user-email")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
