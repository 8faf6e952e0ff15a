package handlers

import (
	"net/http"

	"github.com/hmtran/classpoints/internal/app"
)

func (h *Handler) HandleLeaderboard(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.Store.Leaderboard()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// HandlePublicWeeks is the unauthenticated week listing backing the
// overview page.
func (h *Handler) HandlePublicWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.service.Store.ListWeeks()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weeks)
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.WeekOverview(r.PathValue("week"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// HandleProfile serves the logged-in student their own record plus rank
// and class size.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := h.service.Sessions.FromRequest(r)
	if !ok || session.Kind != app.SessionStudent {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.service.StudentProfile(session.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	session, ok := h.service.Sessions.FromRequest(r)
	if !ok || session.Kind != app.SessionStudent {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	scores, err := h.service.Store.ScoresByStudent(session.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}
