package utils

import (
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope shared by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// ListResponse adds a count alongside the data, used by collection endpoints.
func ListResponse(c *gin.Context, status int, count int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"count":   count,
		"data":    data,
	})
}
