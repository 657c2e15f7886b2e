package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clipperhub/barbershop-platform/internal/httperr"
	"github.com/clipperhub/barbershop-platform/internal/logger"
)

// writeBusinessError translates the business error codes the usecases return
// into HTTP responses. Unknown errors are logged and surfaced as 500.
func writeBusinessError(c *gin.Context, err error) {
	be, ok := httperr.AsBusiness(err)
	if !ok {
		logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		httperr.Internal(c, "Internal server error.")
		return
	}

	switch be.Code {
	case "not_found":
		httperr.NotFound(c, "Resource not found.")
	case "target_admin_not_found":
		httperr.NotFound(c, "Target admin not found.")
	case "forbidden":
		httperr.Forbidden(c, "You do not have permission to perform this action.")
	default:
		msg := be.Message
		if msg == "" {
			msg = businessMessages[be.Code]
		}
		if msg == "" {
			msg = "Request could not be processed."
		}
		if be.Details != nil {
			httperr.BadRequestWith(c, msg, be.Details)
			return
		}
		httperr.BadRequest(c, msg)
	}
}

var businessMessages = map[string]string{
	"already_archived": "Account is already archived.",
	"already_active":   "Account is already active.",
	"email_taken":      "An account with this email already exists.",
	"self_transfer":    "Source and target admin are the same.",
	"no_barbershops":   "This admin has no active barbershops to transfer.",
}
