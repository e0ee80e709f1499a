package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

var subtaskSortFields = []string{"id", "title", "completed"}

type SubtaskHandler struct {
	service services.SubtaskService
}

func NewSubtaskHandler(service services.SubtaskService) *SubtaskHandler {
	return &SubtaskHandler{service: service}
}

type subtaskPatchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ListAll godoc
// @Summary      All subtasks of a task
// @Tags         Subtasks
// @Produce      json
// @Param        id   path  int  true  "Task ID"
// @Success      200  {array}  models.Subtask
// @Router       /api/tasks/{id}/subtasks/all [get]
func (h *SubtaskHandler) ListAll(c *gin.Context) {
	taskID, ok := paramID(c, "subtask][all", "id")
	if !ok {
		return
	}
	list, err := h.service.ListAll(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, "subtask][all", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// List godoc
// @Summary      Paginated subtasks of a task
// @Tags         Subtasks
// @Produce      json
// @Param        id    path   int  true   "Task ID"
// @Param        page  query  int  false  "0-based page"
// @Param        size  query  int  false  "Page size"
// @Success      200  {object}  models.Page[models.Subtask]
// @Router       /api/tasks/{id}/subtasks [get]
func (h *SubtaskHandler) List(c *gin.Context) {
	taskID, ok := paramID(c, "subtask][list", "id")
	if !ok {
		return
	}
	page, ok := bindPage(c, "subtask][list", subtaskSortFields...)
	if !ok {
		return
	}
	result, err := h.service.List(c.Request.Context(), taskID, page)
	if err != nil {
		writeError(c, "subtask][list", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get godoc
// @Summary      One subtask
// @Tags         Subtasks
// @Produce      json
// @Param        id         path  int  true  "Task ID"
// @Param        subtaskId  path  int  true  "Subtask ID"
// @Success      200  {object}  models.Subtask
// @Router       /api/tasks/{id}/subtasks/{subtaskId} [get]
func (h *SubtaskHandler) Get(c *gin.Context) {
	taskID, id, ok := h.ids(c, "subtask][get")
	if !ok {
		return
	}
	st, err := h.service.Get(c.Request.Context(), taskID, id)
	if err != nil {
		writeError(c, "subtask][get", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Create godoc
// @Summary      Add a subtask and re-derive the task status
// @Tags         Subtasks
// @Accept       json
// @Produce      json
// @Param        id       path  int             true  "Task ID"
// @Param        subtask  body  subtaskRequest  true  "Subtask"
// @Success      201  {object}  models.Subtask
// @Router       /api/tasks/{id}/subtasks [post]
func (h *SubtaskHandler) Create(c *gin.Context) {
	taskID, ok := paramID(c, "subtask][create", "id")
	if !ok {
		return
	}
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "subtask][create", err)
		return
	}
	st, err := h.service.Create(c.Request.Context(), taskID, req.input())
	if err != nil {
		writeError(c, "subtask][create", err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

// Update godoc
// @Summary      Replace a subtask
// @Tags         Subtasks
// @Accept       json
// @Produce      json
// @Param        id         path  int             true  "Task ID"
// @Param        subtaskId  path  int             true  "Subtask ID"
// @Param        subtask    body  subtaskRequest  true  "Subtask"
// @Success      200  {object}  models.Subtask
// @Router       /api/tasks/{id}/subtasks/{subtaskId} [put]
func (h *SubtaskHandler) Update(c *gin.Context) {
	taskID, id, ok := h.ids(c, "subtask][update")
	if !ok {
		return
	}
	var req subtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "subtask][update", err)
		return
	}
	st, err := h.service.Update(c.Request.Context(), taskID, id, req.input())
	if err != nil {
		writeError(c, "subtask][update", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Patch godoc
// @Summary      Change some fields of a subtask
// @Tags         Subtasks
// @Accept       json
// @Produce      json
// @Param        id         path  int                  true  "Task ID"
// @Param        subtaskId  path  int                  true  "Subtask ID"
// @Param        subtask    body  subtaskPatchRequest  true  "Fields to change"
// @Success      200  {object}  models.Subtask
// @Router       /api/tasks/{id}/subtasks/{subtaskId} [patch]
func (h *SubtaskHandler) Patch(c *gin.Context) {
	taskID, id, ok := h.ids(c, "subtask][patch")
	if !ok {
		return
	}
	var req subtaskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "subtask][patch", err)
		return
	}
	st, err := h.service.Patch(c.Request.Context(), taskID, id, models.SubtaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		writeError(c, "subtask][patch", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Delete godoc
// @Summary      Remove a subtask and re-derive the task status
// @Tags         Subtasks
// @Param        id         path  int  true  "Task ID"
// @Param        subtaskId  path  int  true  "Subtask ID"
// @Success      204
// @Router       /api/tasks/{id}/subtasks/{subtaskId} [delete]
func (h *SubtaskHandler) Delete(c *gin.Context) {
	taskID, id, ok := h.ids(c, "subtask][delete")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), taskID, id); err != nil {
		writeError(c, "subtask][delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SubtaskHandler) ids(c *gin.Context, scope string) (taskID, id int64, ok bool) {
	if taskID, ok = paramID(c, scope, "id"); !ok {
		return
	}
	id, ok = paramID(c, scope, "subtaskId")
	return
}
