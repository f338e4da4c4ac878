package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every failure leaves through this envelope. Secrets and password hashes
// never appear in it; the message is all the client gets.
func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{
		"success": false,
		"error":   message,
	}

	if details != nil {
		body["details"] = details
	}

	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message, nil)
}

func RespondUnAuthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}
