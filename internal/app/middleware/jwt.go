package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/infrastructure/config"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config, db *gorm.DB) {
	jwtService = services.NewJWTService(cfg, db)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

func abortForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{
		"code":    403,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// authenticate 校验令牌并把声明解析为结构化身份存入上下文。角色在此处
// 一次性解码为角色枚举，后续处理器不再接触原始字符串
func authenticate(c *gin.Context) (*services.JWTClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, "Authorization header is required")
		return nil, false
	}

	claims, err := jwtService.ExtractClaims(extractToken(authHeader))
	if err != nil {
		abortUnauthorized(c, "Invalid or expired token")
		return nil, false
	}

	if _, ok := models.ParseRole(string(claims.Role)); !ok {
		abortUnauthorized(c, "Invalid token claims")
		return nil, false
	}

	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
	c.Set("fullName", claims.FullName)
	c.Set("claims", claims)
	return claims, true
}

// Authentication 通用的认证中间件，任意有效角色均可通过
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := authenticate(c); !ok {
			return
		}
		c.Next()
	}
}

// AuthenticateAdmin 验证管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}
		if claims.Role != models.RoleAdmin {
			abortForbidden(c, "Insufficient permissions: requires admin role")
			return
		}
		c.Next()
	}
}

// AuthenticateHelpDesk 验证前台权限。管理员也可以访问前台的接口
func AuthenticateHelpDesk() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}
		if !claims.Role.CanOperateHelpDesk() {
			abortForbidden(c, "Insufficient permissions: requires helpdesk role")
			return
		}
		c.Next()
	}
}

// AuthenticateTenant 验证租户权限
func AuthenticateTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}
		if claims.Role != models.RoleTenant {
			abortForbidden(c, "Insufficient permissions: requires tenant role")
			return
		}
		c.Next()
	}
}

// CurrentUserID 从上下文中读取当前用户ID
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentRole 从上下文中读取当前用户角色
func CurrentRole(c *gin.Context) (models.Role, bool) {
	v, exists := c.Get("role")
	if !exists {
		return "", false
	}
	role, ok := v.(models.Role)
	return role, ok
}
