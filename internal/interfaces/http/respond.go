package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/domain/apperror"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// respondError maps the application error taxonomy onto HTTP status codes.
// System errors get a generic body so internals don't leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, apperror.ErrUnauthorized):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: err.Error()})
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, apperror.ErrConflict):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: message})
}
