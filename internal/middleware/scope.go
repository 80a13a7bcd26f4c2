package middleware

import (
	"net/http"

	"laundryops/internal/repository"
	"laundryops/pkg/response"

	"github.com/gin-gonic/gin"
)

// Tenant scoping headers. Admin and store ids are opaque identifiers set by
// the surrounding application; every repository call is bound to them
// explicitly instead of any ambient global.
const (
	HeaderAdminID = "X-Admin-ID"
	HeaderStoreID = "X-Store-ID"
)

const scopeKey = "scope"

// RequireScope rejects requests missing the tenant/store headers and stashes
// the parsed Scope for handlers.
func RequireScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID := c.GetHeader(HeaderAdminID)
		storeID := c.GetHeader(HeaderStoreID)
		if adminID == "" || storeID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				response.Error(http.StatusBadRequest, "X-Admin-ID and X-Store-ID headers are required"))
			return
		}
		c.Set(scopeKey, repository.Scope{AdminID: adminID, StoreID: storeID})
		c.Next()
	}
}

// GetScope returns the Scope RequireScope stored on the request.
func GetScope(c *gin.Context) repository.Scope {
	if v, ok := c.Get(scopeKey); ok {
		if scope, ok := v.(repository.Scope); ok {
			return scope
		}
	}
	return repository.Scope{}
}
