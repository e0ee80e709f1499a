package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

var taskSortFields = []string{"id", "title", "status", "priority", "due_date", "created_at"}

type TaskHandler struct {
	service services.TaskService
}

func NewTaskHandler(service services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

type subtaskRequest struct {
	ID          *int64 `json:"id"`
	Title       string `json:"title" binding:"notblank"`
	Description string `json:"description"`
	Completed   *bool  `json:"completed"`
}

func (r subtaskRequest) input() models.SubtaskInput {
	return models.SubtaskInput{ID: r.ID, Title: r.Title, Description: r.Description, Completed: r.Completed}
}

type taskRequest struct {
	Title       string              `json:"title" binding:"notblank"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status" binding:"required"`
	Priority    models.TaskPriority `json:"priority" binding:"required"`
	DueDate     *models.Date        `json:"due_date"`
	Tags        []string            `json:"tags"`
	Subtasks    []subtaskRequest    `json:"subtasks" binding:"omitempty,dive"`
}

func (r taskRequest) input() models.TaskInput {
	in := models.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      models.TaskStatus(strings.ToUpper(string(r.Status))),
		Priority:    models.TaskPriority(strings.ToUpper(string(r.Priority))),
		DueDate:     r.DueDate,
		Tags:        r.Tags,
	}
	if r.Subtasks != nil {
		in.Subtasks = make([]models.SubtaskInput, 0, len(r.Subtasks))
		for _, s := range r.Subtasks {
			in.Subtasks = append(in.Subtasks, s.input())
		}
	}
	return in
}

// Create godoc
// @Summary      Create a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        task  body      taskRequest  true  "Task"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "task][create", err)
		return
	}
	task, err := h.service.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, "task][create", err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetByID godoc
// @Summary      Get a task by id (archived included)
// @Tags         Tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      404  {object}  map[string]string
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := paramID(c, "task][get", "id")
	if !ok {
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, "task][get", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GetAll godoc
// @Summary      All non-archived tasks
// @Tags         Tasks
// @Produce      json
// @Success      200  {array}  models.Task
// @Router       /api/tasks/all [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	tasks, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, "task][all", err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, tasks)
}

// List godoc
// @Summary      Filtered, paginated tasks
// @Tags         Tasks
// @Produce      json
// @Param        status          query  string  false  "PENDING|IN_PROGRESS|COMPLETED|DELAYED"
// @Param        priority        query  string  false  "LOW|MEDIUM|HIGH"
// @Param        due_date        query  string  false  "YYYY-MM-DD"
// @Param        tag             query  string  false  "Tag"
// @Param        query           query  string  false  "Free text over title and description"
// @Param        page            query  int     false  "0-based page"
// @Param        size            query  int     false  "Page size"
// @Param        sort_by         query  string  false  "Sort field"
// @Param        sort_direction  query  string  false  "asc|desc"
// @Success      200  {object}  models.Page[models.Task]
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	page, ok := bindPage(c, "task][list", taskSortFields...)
	if !ok {
		return
	}

	var filter models.TaskFilter
	if v, ok := c.GetQuery("status"); ok && v != "" {
		st := models.TaskStatus(strings.ToUpper(v))
		if !st.IsValid() {
			log.Printf("[task][list][400] status=%q", v)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &st
	}
	if v, ok := c.GetQuery("priority"); ok && v != "" {
		p := models.TaskPriority(strings.ToUpper(v))
		if !p.IsValid() {
			log.Printf("[task][list][400] priority=%q", v)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		filter.Priority = &p
	}
	if v, ok := c.GetQuery("due_date"); ok && v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			badRequest(c, "task][list", err)
			return
		}
		filter.DueDate = &d
	}
	if v, ok := c.GetQuery("tag"); ok && v != "" {
		filter.Tag = &v
	}
	if v, ok := c.GetQuery("query"); ok && strings.TrimSpace(v) != "" {
		q := strings.TrimSpace(v)
		filter.Query = &q
	}

	result, err := h.service.List(c.Request.Context(), filter, page)
	if err != nil {
		writeError(c, "task][list", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Search godoc
// @Summary      Free-text search over title and description
// @Tags         Tasks
// @Produce      json
// @Param        query  query  string  true  "Text"
// @Success      200  {object}  models.Page[models.Task]
// @Router       /api/tasks/search [get]
func (h *TaskHandler) Search(c *gin.Context) {
	page, ok := bindPage(c, "task][search", taskSortFields...)
	if !ok {
		return
	}
	result, err := h.service.Search(c.Request.Context(), c.Query("query"), page)
	if err != nil {
		writeError(c, "task][search", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Update godoc
// @Summary      Replace a task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int          true  "Task ID"
// @Param        task  body      taskRequest  true  "Task"
// @Success      200   {object}  models.Task
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "task][update", "id")
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "task][update", err)
		return
	}
	task, err := h.service.Update(c.Request.Context(), id, req.input())
	if err != nil {
		writeError(c, "task][update", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Archive godoc
// @Summary      Archive (soft delete) a task
// @Tags         Tasks
// @Param        id   path  int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Archive(c *gin.Context) {
	id, ok := paramID(c, "task][archive", "id")
	if !ok {
		return
	}
	task, err := h.service.Archive(c.Request.Context(), id)
	if err != nil {
		writeError(c, "task][archive", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Restore godoc
// @Summary      Restore an archived task
// @Tags         Tasks
// @Param        id   path  int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Router       /api/tasks/{id}/restore [post]
func (h *TaskHandler) Restore(c *gin.Context) {
	id, ok := paramID(c, "task][restore", "id")
	if !ok {
		return
	}
	task, err := h.service.Restore(c.Request.Context(), id)
	if err != nil {
		writeError(c, "task][restore", err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// PermanentDelete godoc
// @Summary      Delete a task and everything it owns
// @Tags         Tasks
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Router       /api/tasks/{id}/permanent [delete]
func (h *TaskHandler) PermanentDelete(c *gin.Context) {
	id, ok := paramID(c, "task][delete", "id")
	if !ok {
		return
	}
	if err := h.service.PermanentDelete(c.Request.Context(), id); err != nil {
		writeError(c, "task][delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}
