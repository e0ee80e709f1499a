package handlers

import (
	"io"
	"log"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

type AttachmentHandler struct {
	service services.AttachmentService
}

func NewAttachmentHandler(service services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: service}
}

// @Summary      Attachments of a task
// @Tags         Attachments
// @Produce      json
// @Param        id   path  int  true  "Task ID"
// @Success      200  {array}  models.Attachment
// @Router       /api/tasks/{id}/attachments [get]
func (h *AttachmentHandler) List(c *gin.Context) {
	taskID, ok := paramID(c, "attachment][list", "id")
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), taskID)
	if err != nil {
		writeError(c, "attachment][list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Upload an attachment
// @Tags         Attachments
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Task ID"
// @Param        file  formData  file  true  "File"
// @Success      201  {object}  models.Attachment
// @Router       /api/tasks/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	taskID, ok := paramID(c, "attachment][upload", "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "attachment][upload", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, "attachment][upload", err)
		return
	}
	defer f.Close()

	a, err := h.service.Upload(c.Request.Context(), taskID, models.AttachmentUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	})
	if err != nil {
		writeError(c, "attachment][upload", err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary      Download attachment content
// @Tags         Attachments
// @Produce      octet-stream
// @Param        attachmentId  path  int  true  "Attachment ID"
// @Success      200
// @Router       /api/tasks/attachments/{attachmentId}/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	id, ok := paramID(c, "attachment][download", "attachmentId")
	if !ok {
		return
	}
	a, rc, err := h.service.Open(c.Request.Context(), id)
	if err != nil {
		writeError(c, "attachment][download", err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", a.ContentType)
	c.Header("Content-Length", strconv.FormatInt(a.FileSize, 10))
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.FileName}))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		log.Printf("[attachment][download][err] id=%d: %v", id, err)
	}
}

// @Summary      Delete an attachment and its content
// @Tags         Attachments
// @Param        attachmentId  path  int  true  "Attachment ID"
// @Success      204
// @Router       /api/tasks/attachments/{attachmentId} [delete]
func (h *AttachmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "attachment][delete", "attachmentId")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, "attachment][delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}
