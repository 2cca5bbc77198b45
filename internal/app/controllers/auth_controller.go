package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/domain/services/container"
	"dormguard-http-service/internal/error/code"
	"dormguard-http-service/internal/error/response"
)

// InterfaceAuthController 定义认证控制器接口
type InterfaceAuthController interface {
	Login()
	Logout()
	RegisterAdmin()
}

// AuthController 认证控制器
type AuthController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAuthController 创建一个新的认证控制器
func NewAuthController(ctx *gin.Context, container *container.ServiceContainer) *AuthController {
	return &AuthController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"Admin@123"`
}

// RegisterAdminRequest 创建管理员/前台账号请求
type RegisterAdminRequest struct {
	Username      string `json:"username" binding:"required" example:"frontdesk01"`
	Password      string `json:"password" binding:"required" example:"Desk@123"`
	FullName      string `json:"full_name" binding:"required" example:"Jane Porter"`
	Email         string `json:"email" binding:"required,email" example:"jane@example.com"`
	ContactNumber string `json:"contact_number" example:"13800138000"`
	Role          string `json:"role" example:"HelpDesk"`
}

// HandleAuthFunc 返回一个处理认证请求的Gin处理函数
func HandleAuthFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAuthController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "logout":
			controller.Logout()
		case "registerAdmin":
			controller.RegisterAdmin()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. Login 用户登录
// @Summary      用户登录
// @Description  管理员、前台或租户使用用户名密码登录，返回JWT令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录信息"
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/login [post]
func (c *AuthController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Username and password are required")
		return
	}

	jwtService := c.Container.GetJWTService()
	result, err := jwtService.Login(req.Username, req.Password)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, result)
}

// 2. Logout 用户登出
// @Summary      用户登出
// @Description  无状态JWT下登出由客户端丢弃令牌完成，服务端仅确认
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (c *AuthController) Logout() {
	response.Success(c.Ctx, gin.H{"logged_out_at": time.Now()})
}

// 3. RegisterAdmin 创建管理员或前台账号
// @Summary      创建管理员或前台账号
// @Description  仅管理员可创建，角色取值 Admin 或 HelpDesk
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterAdminRequest true "账号信息"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /auth/register-admin [post]
// @Security     BearerAuth
func (c *AuthController) RegisterAdmin() {
	var req RegisterAdminRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request body: "+err.Error())
		return
	}

	admin := &models.Admin{
		Username:      req.Username,
		Password:      req.Password,
		FullName:      req.FullName,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		Role:          req.Role,
	}

	adminService := c.Container.GetService("admin").(services.InterfaceAdminService)
	if err := adminService.RegisterAdmin(admin); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":        admin.ID,
		"username":  admin.Username,
		"full_name": admin.FullName,
		"email":     admin.Email,
		"role":      admin.Role,
	})
}
