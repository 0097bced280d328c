package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []string)
}

// RequireRole creates middleware that requires one of the specified roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		for _, role := range roles {
			if claims.Role == role {
				if cfg.Logger != nil {
					cfg.Logger.Debug("Role check passed",
						zap.String("user_id", claims.UserID),
						zap.String("role", claims.Role),
					)
				}
				c.Next()
				return
			}
		}

		handleRoleDenied(c, cfg, roles, "User lacks required role")
	}
}

// RequireAdmin creates middleware that restricts access to administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRole("admin")
}

// HasRole reports whether the authenticated user has the given role
func HasRole(c *gin.Context, role string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.Role == role
}

// handleRoleDenied handles role denied scenarios
func handleRoleDenied(c *gin.Context, cfg RoleConfig, requiredRoles []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredRoles)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		userRole := ""
		if claims != nil {
			userID = claims.UserID
			userRole = claims.Role
		}

		cfg.Logger.Warn("Role access denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.String("user_role", userRole),
			zap.Strings("required_roles", requiredRoles),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}
