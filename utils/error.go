package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every 5xx response. Reference matches the
// "ref" field of the corresponding log line.
type ErrorResponse struct {
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	Reference string `json:"reference,omitempty"`
}

// ErrorHandler turns a panic in any later handler into a 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ref := uuid.NewString()
				GetLogger().Error("Unhandled panic",
					zap.String("ref", ref),
					zap.String("method", c.Request.Method),
					zap.String("path", c.FullPath()),
					zap.Any("error", err))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message:   "Internal Server Error",
					Details:   "An unexpected error occurred. Please try again later.",
					Reference: ref,
				})
			}
		}()
		c.Next()
	}
}

// JSONError logs an internal failure and answers with a generic body. The
// underlying error text stays in the log.
func JSONError(c *gin.Context, status int, message string, details string) {
	ref := uuid.NewString()
	GetLogger().Error(message,
		zap.String("ref", ref),
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
		zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Reference: ref})
}
