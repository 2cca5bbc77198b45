package container

import (
	"sync"

	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/infrastructure/config"
	"dormguard-http-service/pkg/logger"

	"go.uber.org/zap"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 业务服务
	adminService      services.InterfaceAdminService
	tenantService     services.InterfaceTenantService
	roomService       services.InterfaceRoomService
	visitorService    services.InterfaceVisitorService
	visitorLogService services.InterfaceVisitorLogService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}
	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config, c.db)

	// Redis为可选依赖，未配置或连接失败时统计不走缓存
	if c.config.RedisEnabled() {
		redisService := services.NewRedisService(c.config)
		if err := redisService.Ping(); err != nil {
			logger.Warning("Redis连接测试失败，将不使用Redis缓存", zap.Error(err))
		} else {
			c.redisService = redisService
		}
	}

	// 初始化业务服务
	c.adminService = services.NewAdminService(c.db, c.config, c.redisService)
	c.tenantService = services.NewTenantService(c.db, c.config)
	c.roomService = services.NewRoomService(c.db, c.config)
	c.visitorService = services.NewVisitorService(c.db, c.config)
	c.visitorLogService = services.NewVisitorLogService(c.db, c.config)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "admin":
		return c.adminService
	case "tenant":
		return c.tenantService
	case "room":
		return c.roomService
	case "visitor":
		return c.visitorService
	case "visitor_log":
		return c.visitorLogService
	default:
		return nil
	}
}

// GetJWTService 获取JWT服务
func (c *ServiceContainer) GetJWTService() services.InterfaceJWTService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.jwtService
}

// GetAdminService 获取管理员服务
func (c *ServiceContainer) GetAdminService() services.InterfaceAdminService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adminService
}

// GetTenantService 获取租户服务
func (c *ServiceContainer) GetTenantService() services.InterfaceTenantService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tenantService
}

// GetRoomService 获取房间服务
func (c *ServiceContainer) GetRoomService() services.InterfaceRoomService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomService
}

// GetVisitorService 获取访客服务
func (c *ServiceContainer) GetVisitorService() services.InterfaceVisitorService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visitorService
}

// GetVisitorLogService 获取访客出入记录服务
func (c *ServiceContainer) GetVisitorLogService() services.InterfaceVisitorLogService {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visitorLogService
}
