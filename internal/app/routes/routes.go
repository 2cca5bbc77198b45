package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "dormguard-http-service/docs"
	"dormguard-http-service/internal/app/controllers"
	"dormguard-http-service/internal/app/middleware"
	"dormguard-http-service/internal/domain/services/container"
	"dormguard-http-service/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// 请求ID和访问日志
	r.Use(middleware.RequestID())

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg)
	// 初始化认证中间件
	middleware.InitAuthMiddleware(cfg, db)
	// Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(r *gin.Engine, container *container.ServiceContainer) {
	api := r.Group("/api")
	registerPublicRoutes(api, container)
	registerAuthenticatedRoutes(api, container)
	registerAdminRoutes(api, container)
	registerHelpDeskRoutes(api, container)
	registerTenantRoutes(api, container)
}

// registerAuthenticatedRoutes 注册任意有效角色均可访问的路由
func registerAuthenticatedRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	authed := api.Group("/")
	authed.Use(middleware.Authentication())
	authed.Use(middleware.IPRateLimiter(30, 50))

	authed.GET("/tenants/:id", controllers.HandleTenantFunc(container, "getTenant"))
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	// 每秒允许10个请求，最多突发20个请求
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health/status", controllers.HandleHealthFunc(container, "status"))

	// 认证路由。登录按IP+路径组合限流，减缓口令爆破
	authGroup := api.Group("/auth")
	authGroup.POST("/login", middleware.CombinedRateLimiter(5, 10), controllers.HandleAuthFunc(container, "login"))
	authGroup.POST("/logout", middleware.Authentication(), controllers.HandleAuthFunc(container, "logout"))
}

// registerAdminRoutes 注册管理员路由
func registerAdminRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	admin := api.Group("/")
	admin.Use(middleware.AuthenticateAdmin())
	admin.Use(middleware.IPRateLimiter(30, 50))

	// 账号管理
	admin.POST("/auth/register-admin", controllers.HandleAuthFunc(container, "registerAdmin"))
	admin.GET("/admins", controllers.HandleAdminFunc(container, "getAdmins"))

	// 租户管理
	admin.GET("/tenants", controllers.HandleTenantFunc(container, "getTenants"))
	admin.PUT("/tenants/:id", controllers.HandleTenantFunc(container, "updateTenant"))
	admin.DELETE("/tenants/:id", controllers.HandleTenantFunc(container, "deleteTenant"))
	admin.POST("/admin/create-tenant", controllers.HandleTenantFunc(container, "createTenant"))

	// 房间管理。房间列表读多写少，短暂缓存
	admin.GET("/admin/rooms", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Second}), controllers.HandleRoomFunc(container, "getRooms"))
	admin.GET("/admin/rooms/:id", controllers.HandleRoomFunc(container, "getRoom"))
	admin.POST("/admin/rooms", controllers.HandleRoomFunc(container, "createRoom"))

	// 访客审批
	admin.PUT("/admin/approve-visitor/:id", controllers.HandleVisitorFunc(container, "approve"))
	admin.PUT("/admin/reject-visitor/:id", controllers.HandleVisitorFunc(container, "reject"))
	admin.PUT("/visitors/:id/status", controllers.HandleVisitorFunc(container, "updateStatus"))
	admin.DELETE("/visitors/:id", controllers.HandleVisitorFunc(container, "deleteVisitor"))

	// 仪表盘
	admin.GET("/admin/dashboard-stats", controllers.HandleAdminFunc(container, "dashboardStats"))
}

// registerHelpDeskRoutes 注册前台路由。管理员角色同样可以访问
func registerHelpDeskRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	helpdesk := api.Group("/")
	helpdesk.Use(middleware.AuthenticateHelpDesk())
	helpdesk.Use(middleware.IPRateLimiter(30, 50))

	// 访客查询
	helpdesk.GET("/visitors", controllers.HandleVisitorFunc(container, "getVisitors"))
	helpdesk.GET("/visitors/:id", controllers.HandleVisitorFunc(container, "getVisitor"))
	helpdesk.GET("/visitors/tenant/:id", controllers.HandleVisitorFunc(container, "getVisitorsByTenant"))

	// 出入记录
	helpdesk.GET("/visitor-logs", controllers.HandleVisitorLogFunc(container, "getLogs"))
	helpdesk.GET("/visitor-logs/active", controllers.HandleVisitorLogFunc(container, "getActiveLogs"))
	helpdesk.GET("/visitor-logs/:id", controllers.HandleVisitorLogFunc(container, "getLog"))
	helpdesk.GET("/visitor-logs/visitor/:id", controllers.HandleVisitorLogFunc(container, "getLogsByVisitor"))
	helpdesk.POST("/visitor-logs/check-in", controllers.HandleVisitorLogFunc(container, "checkIn"))
	helpdesk.POST("/visitor-logs/check-out", controllers.HandleVisitorLogFunc(container, "checkOut"))
}

// registerTenantRoutes 注册租户路由
func registerTenantRoutes(api *gin.RouterGroup, container *container.ServiceContainer) {
	tenant := api.Group("/tenant")
	tenant.Use(middleware.AuthenticateTenant())
	tenant.Use(middleware.IPRateLimiter(30, 50))

	tenant.GET("/profile", controllers.HandleTenantFunc(container, "getProfile"))
	tenant.POST("/register-visitor", controllers.HandleVisitorFunc(container, "registerVisitor"))
	tenant.GET("/visitors", controllers.HandleVisitorFunc(container, "getMyVisitors"))
	tenant.PUT("/visitors/:id", controllers.HandleVisitorFunc(container, "updateMyVisitor"))
	tenant.DELETE("/visitors/:id", controllers.HandleVisitorFunc(container, "deleteMyVisitor"))
}
