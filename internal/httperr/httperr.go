package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipperhub/barbershop-platform/internal/httpresp"
)

func Write(c *gin.Context, status int, message string, errs any) {
	c.JSON(status, httpresp.Envelope{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

func BadRequest(c *gin.Context, message string) {
	Write(c, http.StatusBadRequest, message, nil)
}

func BadRequestWith(c *gin.Context, message string, errs any) {
	Write(c, http.StatusBadRequest, message, errs)
}

func Unauthorized(c *gin.Context, message string) {
	Write(c, http.StatusUnauthorized, message, nil)
}

func Forbidden(c *gin.Context, message string) {
	Write(c, http.StatusForbidden, message, nil)
}

// NotFound covers both "does not exist" and "exists but outside your scope";
// callers must not distinguish the two.
func NotFound(c *gin.Context, message string) {
	Write(c, http.StatusNotFound, message, nil)
}

func Internal(c *gin.Context, message string) {
	Write(c, http.StatusInternalServerError, message, nil)
}
