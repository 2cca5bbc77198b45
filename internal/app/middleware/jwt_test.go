package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/infrastructure/config"
)

func setupAuthRouter(t *testing.T) (*gin.Engine, services.InterfaceJWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Admin{}, &models.Tenant{}))

	cfg := &config.Config{JWTSecretKey: "test-secret", JWTExpireHrs: 1}
	InitAuthMiddleware(cfg, db)

	r := gin.New()
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/admin-only", AuthenticateAdmin(), ok)
	r.GET("/helpdesk", AuthenticateHelpDesk(), ok)
	r.GET("/tenant-only", AuthenticateTenant(), ok)
	r.GET("/any", Authentication(), ok)

	return r, services.NewJWTService(cfg, db)
}

func doGet(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoleGating(t *testing.T) {
	r, jwtSvc := setupAuthRouter(t)

	adminToken, err := jwtSvc.GenerateToken(1, "boss", models.RoleAdmin, "Boss")
	require.NoError(t, err)
	deskToken, err := jwtSvc.GenerateToken(2, "desk", models.RoleHelpDesk, "Desk")
	require.NoError(t, err)
	tenantToken, err := jwtSvc.GenerateToken(3, "renter", models.RoleTenant, "Renter")
	require.NoError(t, err)

	// 管理员专属路由
	assert.Equal(t, http.StatusOK, doGet(r, "/admin-only", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin-only", deskToken).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/admin-only", tenantToken).Code)

	// 前台路由，管理员可以代行
	assert.Equal(t, http.StatusOK, doGet(r, "/helpdesk", deskToken).Code)
	assert.Equal(t, http.StatusOK, doGet(r, "/helpdesk", adminToken).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/helpdesk", tenantToken).Code)

	// 租户专属路由，管理员不能冒充租户
	assert.Equal(t, http.StatusOK, doGet(r, "/tenant-only", tenantToken).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, "/tenant-only", adminToken).Code)

	// 通用认证路由
	assert.Equal(t, http.StatusOK, doGet(r, "/any", tenantToken).Code)
}

func TestMissingOrInvalidToken(t *testing.T) {
	r, _ := setupAuthRouter(t)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/any", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/any", "not-a-token").Code)
}

func TestUnknownRoleClaimRejected(t *testing.T) {
	r, jwtSvc := setupAuthRouter(t)

	// 角色声明不在封闭枚举内时拒绝
	token, err := jwtSvc.GenerateToken(9, "ghost", models.Role("superuser"), "Ghost")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "/any", token).Code)
}
