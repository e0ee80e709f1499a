package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

type HistoryHandler struct {
	service services.HistoryService
}

func NewHistoryHandler(service services.HistoryService) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// @Summary      Audit trail of a task, newest first
// @Tags         History
// @Produce      json
// @Param        id   path  int  true  "Task ID"
// @Success      200  {array}  models.TaskHistory
// @Router       /api/tasks/{id}/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	taskID, ok := paramID(c, "history][list", "id")
	if !ok {
		return
	}
	list, err := h.service.GetTaskHistory(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, "history][list", err)
		return
	}
	if list == nil {
		list = []models.TaskHistory{}
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Audit trail as PDF
// @Tags         History
// @Produce      application/pdf
// @Param        id   path  int  true  "Task ID"
// @Success      200
// @Router       /api/tasks/{id}/history/report [get]
func (h *HistoryHandler) Report(c *gin.Context) {
	taskID, ok := paramID(c, "history][report", "id")
	if !ok {
		return
	}
	// Render fully before writing so a failure can still become a JSON error.
	var buf bytes.Buffer
	if err := h.service.Report(c.Request.Context(), taskID, &buf); err != nil {
		writeError(c, "history][report", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="task_%d_history.pdf"`, taskID))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
