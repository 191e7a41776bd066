package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/joblocal/internal/models"
	"github.com/justsurfingit/joblocal/internal/services"
)

// Access is the requirement a route declares for its caller.
type Access int

const (
	Public Access = iota
	Authenticated
	JobSeekerOnly
	OwnerOnly
	AdminOnly
)

var roleOf = map[Access]string{
	JobSeekerOnly: models.RoleJobseeker,
	OwnerOnly:     models.RoleOwner,
	AdminOnly:     models.RoleAdmin,
}

var roleDenied = map[Access]string{
	JobSeekerOnly: "Not authorized as a jobseeker",
	OwnerOnly:     "Not authorized as an owner",
	AdminOnly:     "Not authorized as an admin",
}

// Protect resolves the bearer token to an account and stores it on the
// context for the handlers behind it.
func Protect(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}
		u, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			msg := "Not authorized, token failed"
			if errors.Is(err, services.ErrSuspended) {
				msg = err.Error()
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// RequireRole lets through only accounts holding the role a stands for.
// It must run after Protect.
func RequireRole(a Access) gin.HandlerFunc {
	role := roleOf[a]
	return func(c *gin.Context) {
		if currentUser(c).Role != role {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": roleDenied[a]})
			return
		}
		c.Next()
	}
}

// chain builds the middleware a route needs ahead of its handler.
func chain(auth *services.AuthService, a Access, h gin.HandlerFunc) []gin.HandlerFunc {
	switch a {
	case Public:
		return []gin.HandlerFunc{h}
	case Authenticated:
		return []gin.HandlerFunc{Protect(auth), h}
	}
	return []gin.HandlerFunc{Protect(auth), RequireRole(a), h}
}
