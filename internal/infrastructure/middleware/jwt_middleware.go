package middleware

import (
	"net/http"
	"strings"

	"bsu_chat_server/pkg/errorx"
	"bsu_chat_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuth.
const (
	CtxSubjectID = "subjectID"
	CtxRole      = "role"
)

// JWTAuth validates the Bearer access token and stores the subject and
// role in the gin context.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Zəhmət olmasa daxil olun")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Token formatı yanlışdır")
			return
		}

		claims, err := jwt.ParseToken(parts[1])
		if err != nil || claims.Subject != "access_token" {
			abortUnauthorized(c, "Token etibarsızdır, yenidən daxil olun")
			return
		}

		c.Set(CtxSubjectID, claims.SubjectID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole must run after JWTAuth. It lets the request through only if
// the token role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code": errorx.CodeForbidden,
			"msg":  errorx.ErrForbidden.Msg,
		})
	}
}

// AdminAuth accepts admins and the super admin.
func AdminAuth() gin.HandlerFunc {
	return RequireRole(jwt.RoleAdmin, jwt.RoleSuperAdmin)
}

// SuperAdminAuth accepts only the super admin.
func SuperAdminAuth() gin.HandlerFunc {
	return RequireRole(jwt.RoleSuperAdmin)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
	})
}
