package handlers

import (
	"net/http"
)

// Routes builds the API mux. Static pages and the metrics endpoint are
// the caller's business.
func Routes(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/auth/admin/login", Timed("/api/auth/admin/login", h.HandleAdminLogin))
	mux.HandleFunc("POST /api/auth/student/login", Timed("/api/auth/student/login", h.HandleStudentLogin))
	mux.HandleFunc("POST /api/auth/logout", h.HandleLogout)
	mux.HandleFunc("GET /api/auth/session", h.HandleSession)
	mux.HandleFunc("POST /api/auth/change-password", h.RequireAdmin(h.HandleChangePassword))

	// Admin: students
	mux.HandleFunc("GET /api/students", h.RequireAdmin(h.HandleListStudents))
	mux.HandleFunc("POST /api/students", h.RequireAdmin(h.HandleCreateStudent))
	mux.HandleFunc("PUT /api/students/{id}", h.RequireAdmin(h.HandleUpdateStudent))
	mux.HandleFunc("DELETE /api/students/{id}", h.RequireAdmin(h.HandleDeleteStudent))
	mux.HandleFunc("POST /api/reset-points", h.RequireAdmin(h.HandleResetPoints))

	// Admin: buttons
	mux.HandleFunc("GET /api/buttons", h.RequireAdmin(h.HandleListButtons))
	mux.HandleFunc("POST /api/buttons", h.RequireAdmin(h.HandleCreateButton))
	mux.HandleFunc("DELETE /api/buttons/{id}", h.RequireAdmin(h.HandleDeleteButton))

	// Admin: weeks
	mux.HandleFunc("GET /api/weeks", h.RequireAdmin(h.HandleListWeeks))
	mux.HandleFunc("POST /api/weeks", h.RequireAdmin(h.HandleCreateWeek))
	mux.HandleFunc("POST /api/weeks/{id}/activate", h.RequireAdmin(h.HandleActivateWeek))
	mux.HandleFunc("DELETE /api/weeks/{id}", h.RequireAdmin(h.HandleDeleteWeek))

	// Scores
	mux.HandleFunc("POST /api/scores", Timed("/api/scores", h.RequireAdmin(h.HandleCreateScore)))
	mux.HandleFunc("GET /api/scores/all", h.RequireAdmin(h.HandleListScores))
	mux.HandleFunc("GET /api/scores/student/{id}", h.RequireAdmin(h.HandleScoresByStudent))
	mux.HandleFunc("GET /api/scores/week/{id}", h.RequireAdmin(h.HandleScoresByWeek))
	mux.HandleFunc("DELETE /api/scores/all", h.RequireAdmin(h.HandleDeleteAllScores))
	mux.HandleFunc("DELETE /api/scores/{id}", h.RequireAdmin(h.HandleDeleteScore))

	// Import / export
	mux.HandleFunc("POST /api/import/students", h.RequireAdmin(h.HandleImportStudents))
	mux.HandleFunc("POST /api/import/scores", h.RequireAdmin(h.HandleImportScores))
	mux.HandleFunc("GET /api/export/scores", h.RequireAdmin(h.HandleExportScores))

	// Public
	mux.HandleFunc("GET /api/leaderboard", Timed("/api/leaderboard", h.HandleLeaderboard))
	mux.HandleFunc("GET /api/weeks/public", h.HandlePublicWeeks)
	mux.HandleFunc("GET /api/overview/{week}", h.HandleOverview)

	// Student self-service
	mux.HandleFunc("GET /api/user/profile", h.RequireStudent(h.HandleProfile))
	mux.HandleFunc("GET /api/user/history", h.RequireStudent(h.HandleHistory))

	return mux
}
