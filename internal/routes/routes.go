package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/handlers"
)

type Handlers struct {
	Tasks       *handlers.TaskHandler
	Subtasks    *handlers.SubtaskHandler
	Comments    *handlers.CommentHandler
	Attachments *handlers.AttachmentHandler
	History     *handlers.HistoryHandler
}

func SetupRoutes(r *gin.Engine, h Handlers) *gin.Engine {
	handlers.RegisterValidators()

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	tasks := r.Group("/api/tasks")
	{
		tasks.GET("/all", h.Tasks.GetAll)
		tasks.GET("", h.Tasks.List)
		tasks.GET("/search", h.Tasks.Search)
		tasks.POST("", h.Tasks.Create)
		tasks.GET("/:id", h.Tasks.GetByID)
		tasks.PUT("/:id", h.Tasks.Update)
		tasks.DELETE("/:id", h.Tasks.Archive)
		tasks.POST("/:id/restore", h.Tasks.Restore)
		tasks.DELETE("/:id/permanent", h.Tasks.PermanentDelete)

		// SUBTASKS
		tasks.GET("/:id/subtasks/all", h.Subtasks.ListAll)
		tasks.GET("/:id/subtasks", h.Subtasks.List)
		tasks.POST("/:id/subtasks", h.Subtasks.Create)
		tasks.GET("/:id/subtasks/:subtaskId", h.Subtasks.Get)
		tasks.PUT("/:id/subtasks/:subtaskId", h.Subtasks.Update)
		tasks.PATCH("/:id/subtasks/:subtaskId", h.Subtasks.Patch)
		tasks.DELETE("/:id/subtasks/:subtaskId", h.Subtasks.Delete)

		// COMMENTS
		tasks.GET("/:id/comments", h.Comments.List)
		tasks.POST("/:id/comments", h.Comments.Create)
		tasks.DELETE("/comments/:commentId", h.Comments.Delete)

		// ATTACHMENTS
		tasks.GET("/:id/attachments", h.Attachments.List)
		tasks.POST("/:id/attachments", h.Attachments.Upload)
		tasks.GET("/attachments/:attachmentId/download", h.Attachments.Download)
		tasks.DELETE("/attachments/:attachmentId", h.Attachments.Delete)

		// HISTORY
		tasks.GET("/:id/history", h.History.List)
		tasks.GET("/:id/history/report", h.History.Report)
	}
	return r
}
