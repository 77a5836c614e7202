package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vishalbharath/Military-Assest-Management/internal/middleware"
	"github.com/vishalbharath/Military-Assest-Management/internal/models"
)

// claimsFromContext returns the authenticated principal, or nil when the
// route was reached without passing the JWT middleware.
func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(middleware.ContextUserKey)
	if !ok {
		return nil
	}
	claims, _ := value.(*models.JWTClaims)
	return claims
}
