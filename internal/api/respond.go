package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pbaille/taskboard/internal/aggregate"
	"github.com/pbaille/taskboard/internal/domain"
)

const (
	codeNotFound   = "NOT_FOUND"
	codeValidation = "VALIDATION_ERROR"
	codeConflict   = "CONFLICT"
	codeInternal   = "INTERNAL_ERROR"
)

// ErrorBody is the error envelope
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failed request
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TaskView is a task with its derived progress
type TaskView struct {
	domain.Task
	Progress int `json:"progress"`
}

// Pagination describes a page of a listing
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func viewOf(t *domain.Task) TaskView {
	return TaskView{Task: *t, Progress: aggregate.Progress(*t)}
}

func viewsOf(tasks []domain.Task) []TaskView {
	views := make([]TaskView, len(tasks))
	for i := range tasks {
		views[i] = viewOf(&tasks[i])
	}
	return views
}

func writeData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: message}})
}

// writeFailure maps tracker error kinds to HTTP statuses
func writeFailure(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(c, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(c, http.StatusConflict, codeConflict, err.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		writeError(c, http.StatusInternalServerError, codeInternal, "an unexpected error occurred")
	}
}

func badRequest(c *gin.Context, message string) {
	writeError(c, http.StatusBadRequest, codeValidation, message)
}
