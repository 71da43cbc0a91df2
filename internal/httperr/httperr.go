package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/service"
)

// Field writes a field-scoped validation body: {"<field>": ["<message>"]}.
func Field(c *gin.Context, status int, field, message string) {
	c.JSON(status, gin.H{field: []string{message}})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": message})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{"detail": message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"detail": message})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": message})
}

func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// FromError maps a service error onto its HTTP status and body. Unknown
// errors become 500s; each request fails independently.
func FromError(c *gin.Context, err error) {
	if ve, ok := service.AsValidation(err); ok {
		Field(c, http.StatusBadRequest, ve.Field, ve.Message)
		return
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, "not found")
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, "you do not have permission to perform this action")
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, "invalid credentials")
	default:
		Internal(c)
	}
}
