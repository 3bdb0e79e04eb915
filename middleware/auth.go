package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelops-backend/utils"
)

const (
	ContextEmail   = "staffEmail"
	ContextName    = "staffName"
	ContextSession = "sessionID"
)

// Auth validates the Bearer session token and injects the acting staff
// identity and the gate-scoping session id into the request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.JSONError(c, http.StatusUnauthorized, "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.JSONError(c, http.StatusUnauthorized, "invalid authorization format, use: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := utils.ParseStaffToken(parts[1], secret)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextEmail, claims.Email)
		c.Set(ContextName, claims.Name)
		c.Set(ContextSession, claims.SessionID())
		c.Next()
	}
}

// Email returns the authenticated staff email from the context.
func Email(c *gin.Context) string { return c.GetString(ContextEmail) }

// Session returns the gate-scoping session id from the context.
func Session(c *gin.Context) string { return c.GetString(ContextSession) }
