package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the uniform response body. Every endpoint, success or failure,
// replies with this shape.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

type ListData[T any] struct {
	Items []T   `json:"items"`
	Count int64 `json:"count"`
}

func List[T any](c *gin.Context, message string, items []T, count int64) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: message,
		Data:    ListData[T]{Items: items, Count: count},
	})
}
