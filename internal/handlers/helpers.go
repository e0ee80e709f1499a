package handlers

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"taskmanager/internal/models"
	"taskmanager/internal/services"
)

var registerOnce sync.Once

// RegisterValidators adds the "notblank" rule to gin's binding engine.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
				log.Printf("[validator][err] notblank: %v", err)
			}
		}
	})
}

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, scope string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		log.Printf("[%s][404] %v", scope, err)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		log.Printf("[%s][400] %v", scope, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("[%s][err] %v", scope, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, scope string, err error) {
	log.Printf("[%s][bind][err] %v", scope, err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func paramID(c *gin.Context, scope, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		log.Printf("[%s][err] invalid %s=%q", scope, name, c.Param(name))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

type pageQuery struct {
	Page          int    `form:"page" binding:"min=0"`
	Size          int    `form:"size" binding:"min=0"`
	SortBy        string `form:"sort_by"`
	SortDirection string `form:"sort_direction" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// bindPage reads page, size, sort_by and sort_direction; sort_by must be one of allowed.
func bindPage(c *gin.Context, scope string, allowed ...string) (models.PageRequest, bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, scope, err)
		return models.PageRequest{}, false
	}
	if q.SortBy != "" && !contains(allowed, q.SortBy) {
		log.Printf("[%s][400] sort_by=%q", scope, q.SortBy)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort_by"})
		return models.PageRequest{}, false
	}
	dir := "desc"
	if q.SortDirection == "asc" || q.SortDirection == "ASC" {
		dir = "asc"
	}
	return models.PageRequest{Page: q.Page, Size: q.Size, SortBy: q.SortBy, SortDirection: dir}.Normalize(), true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
