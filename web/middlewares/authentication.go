package middlewares

import (
	"net/http"
	"strings"

	"axiapac.com/attendance/security"
	"axiapac.com/attendance/web/common"
	"github.com/gin-gonic/gin"
)

const (
	SessionCookie = "attendance.AdminSession"
	claimsKey     = "admin"
)

// TokenFromRequest reads a Bearer token, falling back to the session cookie.
func TokenFromRequest(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie == "" {
			return "", false
		}
		return cookie, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AdminFromRequest validates the request's session token without aborting.
func AdminFromRequest(c *gin.Context, secret []byte) (*security.AdminClaims, bool) {
	tokenStr, ok := TokenFromRequest(c)
	if !ok {
		return nil, false
	}
	claims, err := security.ParseAdminToken(tokenStr, secret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Authentication rejects requests without a valid admin session.
func Authentication(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := AdminFromRequest(c, secret)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Unauthorized. Please login."))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func Admin(c *gin.Context) (*security.AdminClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*security.AdminClaims)
	return claims, ok
}
