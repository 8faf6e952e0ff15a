package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hmtran/classpoints/internal/app"
	"github.com/hmtran/classpoints/internal/metrics"
	"github.com/hmtran/classpoints/internal/models"
)

func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	admin, err := h.service.LoginAdmin(req.Username, req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if admin == nil {
		metrics.LoginsTotal.WithLabelValues("admin", "failure").Inc()
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	session := h.service.Sessions.Create(app.SessionAdmin, admin.ID, admin.Username)
	h.service.Sessions.SetCookie(w, session)
	metrics.LoginsTotal.WithLabelValues("admin", "success").Inc()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"admin":   admin,
	})
}

func (h *Handler) HandleStudentLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StudentCode string `json:"studentCode"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	student, err := h.service.LoginStudent(req.StudentCode)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if student == nil {
		metrics.LoginsTotal.WithLabelValues("student", "failure").Inc()
		writeError(w, http.StatusUnauthorized, "unknown student code")
		return
	}

	session := h.service.Sessions.Create(app.SessionStudent, student.ID, student.Code)
	h.service.Sessions.SetCookie(w, session)
	metrics.LoginsTotal.WithLabelValues("student", "success").Inc()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"student": student,
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.service.Sessions.ClearCookie(w, r)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// HandleSession reports who owns the current cookie: admin, student, or
// nobody ({"type": null}).
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.service.Sessions.FromRequest(r)
	if !ok {
		writeJSON(w, http.StatusOK, models.SessionInfo{})
		return
	}

	kind := session.Kind
	writeJSON(w, http.StatusOK, models.SessionInfo{
		Type: &kind,
		User: map[string]interface{}{
			"id":       session.UserID,
			"username": session.Username,
		},
	})
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	session, _ := h.service.Sessions.FromRequest(r)

	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &req); err != nil || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "new password required")
		return
	}

	if err := h.service.ChangeAdminPassword(session.UserID, req.NewPassword); err != nil {
		writeStoreError(w, err)
		return
	}

	logger.Info.Printf("Admin %d changed password", session.UserID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
