package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Materials (ingestion and management)
	mux.HandleFunc("/api/materials/text", s.app.MaterialHandler.IngestTextHandler) // POST - paste raw text
	mux.HandleFunc("/api/materials/pdf", s.app.MaterialHandler.IngestPDFHandler)   // POST - multipart PDF upload
	mux.HandleFunc("/api/materials/url", s.app.MaterialHandler.IngestURLHandler)   // POST - fetch a web page
	mux.HandleFunc("/api/materials", s.app.MaterialHandler.ListMaterialsHandler)   // GET ?user_id=
	mux.HandleFunc("/api/materials/", s.app.MaterialHandler.MaterialByIDHandler)   // GET/DELETE /{id}

	// API routes - Summarization
	mux.HandleFunc("/api/summarize", s.app.SummarizeHandler.SummarizeHandler) // POST

	// API routes - Questions and the quality loop
	mux.HandleFunc("/api/questions/generate", s.app.QuestionHandler.GenerateHandler)       // POST
	mux.HandleFunc("/api/questions/adversarial", s.app.QuestionHandler.AdversarialHandler) // POST
	mux.HandleFunc("/api/questions/feedback", s.app.QuestionHandler.FeedbackHandler)       // POST
	mux.HandleFunc("/api/questions/evaluate", s.app.QuestionHandler.EvaluateHandler)       // POST
	mux.HandleFunc("/api/questions", s.app.QuestionHandler.ListHandler)                    // GET ?material_id=

	// API routes - Flashcards
	mux.HandleFunc("/api/flashcards/generate", s.app.FlashcardHandler.GenerateHandler) // POST
	mux.HandleFunc("/api/flashcards", s.app.FlashcardHandler.ListHandler)              // GET ?material_id=

	// API routes - Study sessions
	mux.HandleFunc("/api/sessions", s.app.SessionHandler.StartHandler)          // POST
	mux.HandleFunc("/api/sessions/", s.app.SessionHandler.SessionRoutesHandler) // GET/DELETE /{id}, POST /{id}/attempts

	// API routes - Analytics
	mux.HandleFunc("/api/analytics/", s.app.AnalyticsHandler.UserReportHandler) // GET /{userID}

	// API routes - Export
	mux.HandleFunc("/api/export/study-sheet", s.app.ExportHandler.StudySheetHandler) // POST

	// API routes - Users
	mux.HandleFunc("/api/users", s.app.UserHandler.UpsertHandler) // POST
	mux.HandleFunc("/api/users/", s.app.UserHandler.GetHandler)   // GET /{externalID}

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Catch-all for unknown API paths
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
