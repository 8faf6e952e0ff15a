package handlers

import (
	"net/http"

	"github.com/hmtran/classpoints/internal/models"
)

func (h *Handler) HandleListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.Store.ListStudents()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

func (h *Handler) HandleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req models.StudentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeStoreError(w, err)
		return
	}

	id, err := h.service.Store.CreateStudent(req.Name, req.Code)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

func (h *Handler) HandleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	var req models.StudentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeStoreError(w, err)
		return
	}

	if err := h.service.Store.UpdateStudent(id, req.Name, req.Code); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) HandleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	if err := h.service.Store.DeleteStudent(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) HandleResetPoints(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Store.ResetAllPoints(); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// HandleListButtons serves the full catalog, or one category when
// ?type=bonus|penalty is present.
func (h *Handler) HandleListButtons(w http.ResponseWriter, r *http.Request) {
	var (
		buttons []models.PresetButton
		err     error
	)
	if buttonType := r.URL.Query().Get("type"); buttonType != "" {
		buttons, err = h.service.Store.ListButtonsByType(buttonType)
	} else {
		buttons, err = h.service.Store.ListButtons()
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buttons)
}

func (h *Handler) HandleCreateButton(w http.ResponseWriter, r *http.Request) {
	var req models.ButtonRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeStoreError(w, err)
		return
	}

	id, err := h.service.Store.CreateButton(req.Name, req.Points, req.Type)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

func (h *Handler) HandleDeleteButton(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid button id")
		return
	}

	if err := h.service.Store.DeleteButton(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) HandleListWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.service.Store.ListWeeks()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weeks)
}

func (h *Handler) HandleCreateWeek(w http.ResponseWriter, r *http.Request) {
	var req models.WeekRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeStoreError(w, err)
		return
	}

	id, err := h.service.Store.CreateWeek(req.Name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

// HandleActivateWeek flips the single active-week flag. The document
// backend rejects this with a 400; it navigates by week number instead.
func (h *Handler) HandleActivateWeek(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid week id")
		return
	}

	if err := h.service.Store.SetActiveWeek(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) HandleDeleteWeek(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid week id")
		return
	}

	if err := h.service.Store.DeleteWeek(id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
