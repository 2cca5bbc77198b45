package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/domain/services/container"
	"dormguard-http-service/internal/error/code"
	"dormguard-http-service/internal/error/response"
)

// InterfaceHealthController 定义健康检查控制器接口
type InterfaceHealthController interface {
	Ping()
	Status()
}

// HealthController 健康检查控制器
type HealthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewHealthController 创建一个新的健康检查控制器
func NewHealthController(ctx *gin.Context, container *container.ServiceContainer) *HealthController {
	return &HealthController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleHealthFunc 返回一个处理健康检查请求的Gin处理函数
func HandleHealthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewHealthController(ctx, container)

		switch method {
		case "ping":
			controller.Ping()
		case "status":
			controller.Status()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. Ping 存活检查
// @Summary      存活检查
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /ping [get]
func (c *HealthController) Ping() {
	response.Success(c.Ctx, gin.H{"message": "pong", "time": time.Now()})
}

// 2. Status 依赖健康状态
// @Summary      依赖健康状态
// @Description  检查数据库和Redis连接情况
// @Tags         Health
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health/status [get]
func (c *HealthController) Status() {
	status := gin.H{"service": "ok"}

	db, ok := c.Container.GetService("db").(*gorm.DB)
	if ok && db != nil {
		if sqlDB, err := db.DB(); err == nil && sqlDB.Ping() == nil {
			status["database"] = "ok"
		} else {
			status["database"] = "unreachable"
		}
	}

	if redisService, ok := c.Container.GetService("redis").(services.InterfaceRedisService); ok && redisService != nil {
		if redisService.Ping() == nil {
			status["redis"] = "ok"
		} else {
			status["redis"] = "unreachable"
		}
	} else {
		status["redis"] = "disabled"
	}

	response.Success(c.Ctx, status)
}
