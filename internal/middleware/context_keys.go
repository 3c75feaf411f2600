package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/clearstream/hubledger/internal/core/domain"
)

// callerCtxKey is the key used to store the authenticated caller context.
const callerCtxKey = contextKey("caller")

// GetCallerFromContext retrieves the authenticated caller from the request
// context. It returns the caller and a boolean indicating if it was found.
func GetCallerFromContext(c *gin.Context) (domain.CallerContext, bool) {
	callerVal := c.Request.Context().Value(callerCtxKey)
	if callerVal == nil {
		return domain.CallerContext{}, false
	}
	caller, ok := callerVal.(domain.CallerContext)
	return caller, ok
}
