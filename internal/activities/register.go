package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ExtractDocumentTextActivity)
	w.RegisterActivity(a.SummarizeDocumentActivity)
	w.RegisterActivity(a.IndexDocumentActivity)
	w.RegisterActivity(a.ClearProjectIndexActivity)
	w.RegisterActivity(a.ListReadyDocumentsActivity)
	w.RegisterActivity(a.UpdateDocumentStatusActivity)
	w.RegisterActivity(a.UpdateDocumentSummaryActivity)
	w.RegisterActivity(a.ProfileProjectActivity)
	w.RegisterActivity(a.ScoutPapersActivity)
	w.RegisterActivity(a.FindGapsActivity)
	w.RegisterActivity(a.GenerateDirectionsActivity)
	w.RegisterActivity(a.CritiqueDirectionsActivity)
	w.RegisterActivity(a.PersistAnalysisActivity)
	w.RegisterActivity(a.WriteAnalysisArtifactsActivity)
	w.RegisterActivity(a.LogGenerationCallActivity)
}
