package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vishalbharath/Military-Assest-Management/internal/models"
	appErrors "github.com/vishalbharath/Military-Assest-Management/pkg/errors"
	"github.com/vishalbharath/Military-Assest-Management/pkg/response"
)

// RequirePermission gates a route on the caller holding at least one of the
// listed capabilities. Role membership itself never matters here; the static
// role→capability table decides what each principal may do.
func RequirePermission(perms ...models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		for _, perm := range perms {
			if claims.Can(perm) {
				c.Next()
				return
			}
		}

		response.Error(c, appErrors.ErrPermissionDenied)
		c.Abort()
	}
}
