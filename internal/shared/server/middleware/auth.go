package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portal-backend/internal/shared/auth"
	"portal-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userStaffKey = "userStaff"

	// SessionCookie carries the access token for browser navigation.
	SessionCookie = "portal_session"
)

// RequireAuth validates the access token from the Authorization header or
// the session cookie and stores the verified identity in context.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		raw := tokenFromRequest(c)
		if raw == "" {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "authentication required", nil)
			return
		}

		id, err := tokens.VerifyAccessToken(raw)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, respond.CodeUnauthorized, "missing or invalid token", nil)
			return
		}

		c.Set(userIDKey, id.UserID)
		if id.Email != "" {
			c.Set(userEmailKey, id.Email)
		}
		c.Set(userStaffKey, id.Staff)
		c.Next()
	}
}

// RequireStaff rejects non-staff identities. Must run after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsStaffFromContext(c) {
			respond.Error(c, http.StatusForbidden, respond.CodeForbidden, "staff access required", nil)
			return
		}
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}

// IsStaffFromContext reports whether the authenticated user is staff.
func IsStaffFromContext(c *gin.Context) bool {
	if c == nil {
		return false
	}
	val, _ := c.Get(userStaffKey)
	staff, _ := val.(bool)
	return staff
}
