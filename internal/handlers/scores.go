package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hmtran/classpoints/internal/metrics"
	"github.com/hmtran/classpoints/internal/models"
)

func (h *Handler) HandleCreateScore(w http.ResponseWriter, r *http.Request) {
	var req models.ScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeStoreError(w, err)
		return
	}

	id, err := h.service.Store.CreateScore(models.ScoreRecord{
		StudentID:     req.StudentID,
		ButtonID:      req.ButtonID,
		WeekID:        req.WeekID,
		Points:        req.Points,
		Note:          req.Note,
		ViolationDate: req.ViolationDate,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.ScoreEventsTotal.WithLabelValues("create").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

func (h *Handler) HandleDeleteScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid score id")
		return
	}

	if err := h.service.Store.DeleteScore(id); err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.ScoreEventsTotal.WithLabelValues("delete").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// HandleDeleteAllScores wipes the ledger history and resets every
// student back to the default total in one admin action.
func (h *Handler) HandleDeleteAllScores(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.Store.DeleteAllScores()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := h.service.Store.ResetAllPoints(); err != nil {
		writeStoreError(w, err)
		return
	}

	logger.Info.Printf("Wiped %d score records and reset all points", deleted)
	metrics.ScoreEventsTotal.WithLabelValues("wipe").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "deleted": deleted})
}

func (h *Handler) HandleScoresByStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	scores, err := h.service.Store.ScoresByStudent(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *Handler) HandleScoresByWeek(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid week id")
		return
	}

	scores, err := h.service.Store.ScoresByWeek(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *Handler) HandleListScores(w http.ResponseWriter, r *http.Request) {
	scores, err := h.service.Store.ListScores()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}

func (h *Handler) HandleImportStudents(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Students []models.StudentImport `json:"students"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	imported, err := h.service.Store.ImportStudents(req.Students)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "imported": imported})
}

// HandleImportScores applies a batch of score rows against an optional
// week. Rows with unknown student codes are skipped, not fatal; the
// batch is not transactional, matching the store contract.
func (h *Handler) HandleImportScores(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []models.ScoreImport `json:"records"`
		WeekID  *int64               `json:"week_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	imported, err := h.service.Store.ImportScores(req.Records, req.WeekID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	metrics.ScoreEventsTotal.WithLabelValues("import").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "imported": imported})
}
