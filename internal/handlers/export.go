package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/hmtran/classpoints/internal/export"
)

// HandleExportScores streams the full score history as an xlsx
// workbook.
func (h *Handler) HandleExportScores(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Store.ListScores()
	if err != nil {
		writeStoreError(w, err)
		return
	}

	wb, err := export.NewWorkbook([]export.SheetSpec{
		export.ScoresSheet("Scores", records),
	})
	if err != nil {
		logger.Error.Printf("Failed to build workbook: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	filename := fmt.Sprintf("scores-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := wb.File.Write(w); err != nil {
		logger.Error.Printf("Failed to write workbook: %v", err)
	}
}
