package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-clientes-api/internal/apperr"
)

// Error types emitted by transport-level middleware. The five service kinds
// come from apperr; the rest only exist at the HTTP edge.
const (
	TypeInvalidInput     = string(apperr.KindInvalidInput)
	TypeNotFound         = string(apperr.KindNotFound)
	TypeInternal         = string(apperr.KindInternal)
	TypeRateLimited      = "RATE_LIMITED"
	TypeMethodNotAllowed = "METHOD_NOT_ALLOWED"
)

// AbortWithError stops the chain and writes the uniform error envelope:
//
//	{"success": false, "error": {"type": "...", "message": "..."}}
//
// The error is also counted in api_errors_total. Handlers use their own
// typed envelope; this variant exists for middleware that runs before them.
func AbortWithError(c *gin.Context, status int, typ, msg string) {
	CountAPIError(typ)
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"type":    typ,
			"message": msg,
		},
	})
}
