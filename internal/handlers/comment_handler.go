package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/services"
)

type CommentHandler struct {
	service services.CommentService
}

func NewCommentHandler(service services.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

type commentRequest struct {
	Message string `json:"message" binding:"notblank"`
}

// @Summary      Comments of a task, newest first
// @Tags         Comments
// @Produce      json
// @Param        id   path  int  true  "Task ID"
// @Success      200  {array}  models.Comment
// @Router       /api/tasks/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	taskID, ok := paramID(c, "comment][list", "id")
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, "comment][list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Add a comment
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        id       path  int             true  "Task ID"
// @Param        comment  body  commentRequest  true  "Comment"
// @Success      201  {object}  models.Comment
// @Router       /api/tasks/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	taskID, ok := paramID(c, "comment][create", "id")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "comment][create", err)
		return
	}
	comment, err := h.service.Create(c.Request.Context(), taskID, req.Message)
	if err != nil {
		writeError(c, "comment][create", err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// @Summary      Delete a comment
// @Tags         Comments
// @Param        commentId  path  int  true  "Comment ID"
// @Success      204
// @Router       /api/tasks/comments/{commentId} [delete]
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "comment][delete", "commentId")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, "comment][delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}
