// Package handlers carries helpers shared by the route handler packages.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meal-planner/internal/pkg/common"
)

// Error writes the error as a JSON body, mapping the error taxonomy onto
// status codes: validation 400, CustomError its own status, anything else a
// generic 500.
func Error(c *gin.Context, err error) {
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var ce *common.CustomError
	if errors.As(err, &ce) {
		status := ce.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": ce.Message})
		return
	}
	common.LogError("Unhandled request error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// Bind parses the JSON body into v, tolerating an empty or malformed body:
// required-field checks live in the services, not the transport.
func Bind(c *gin.Context, v interface{}) {
	_ = c.ShouldBindJSON(v)
}

// BindStrict parses the JSON body into v and answers 400 when the body is
// missing or malformed. Returns false when the request was already answered.
func BindStrict(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload."})
		return false
	}
	return true
}
