package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/domain/services/container"
	"dormguard-http-service/internal/error/code"
	"dormguard-http-service/internal/error/response"
)

// InterfaceAdminController 定义管理员控制器接口
type InterfaceAdminController interface {
	GetAdmins()
	GetDashboardStats()
}

// AdminController 管理员控制器
type AdminController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAdminController 创建一个新的管理员控制器
func NewAdminController(ctx *gin.Context, container *container.ServiceContainer) *AdminController {
	return &AdminController{
		Ctx:       ctx,
		Container: container,
	}
}

// HandleAdminFunc 返回一个处理管理员请求的Gin处理函数
func HandleAdminFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAdminController(ctx, container)

		switch method {
		case "getAdmins":
			controller.GetAdmins()
		case "dashboardStats":
			controller.GetDashboardStats()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. GetAdmins 获取管理员列表
// @Summary      获取管理员列表
// @Description  分页获取所有管理员和前台账号
// @Tags         Admin
// @Produce      json
// @Param        page query int false "页码, 默认为1"
// @Param        page_size query int false "每页条数, 默认为10"
// @Success      200  {object}  response.Response
// @Router       /admins [get]
// @Security     BearerAuth
func (c *AdminController) GetAdmins() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	admins, total, err := adminService.GetAllAdmins(page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	// 不返回密码哈希
	var adminResponses []gin.H
	for _, admin := range admins {
		adminResponses = append(adminResponses, gin.H{
			"id":             admin.ID,
			"username":       admin.Username,
			"full_name":      admin.FullName,
			"email":          admin.Email,
			"contact_number": admin.ContactNumber,
			"role":           admin.Role,
			"created_at":     admin.CreatedAt,
		})
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      adminResponses,
	})
}

// 2. GetDashboardStats 获取仪表盘统计
// @Summary      获取仪表盘统计
// @Description  在住租户数、待审批访客数、在场访客数、今日来访数
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /admin/dashboard-stats [get]
// @Security     BearerAuth
func (c *AdminController) GetDashboardStats() {
	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	stats, err := adminService.GetDashboardStats()
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, stats)
}
