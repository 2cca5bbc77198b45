package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"dormguard-http-service/internal/app/middleware"
	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/domain/services/container"
	"dormguard-http-service/internal/error/code"
	"dormguard-http-service/internal/error/response"
)

// InterfaceTenantController 定义租户控制器接口
type InterfaceTenantController interface {
	GetTenants()
	GetTenant()
	CreateTenant()
	UpdateTenant()
	DeleteTenant()
	GetProfile()
}

// TenantController 租户控制器
type TenantController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewTenantController 创建一个新的租户控制器
func NewTenantController(ctx *gin.Context, container *container.ServiceContainer) *TenantController {
	return &TenantController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateTenantRequest 创建租户请求
type CreateTenantRequest struct {
	Username               string `json:"username" binding:"required" example:"tenant101"`
	Password               string `json:"password" binding:"required" example:"Tenant@123"`
	FullName               string `json:"full_name" binding:"required" example:"Li Ming"`
	Email                  string `json:"email" binding:"required,email" example:"liming@example.com"`
	ContactNumber          string `json:"contact_number" example:"13900139000"`
	RoomID                 uint   `json:"room_id" binding:"required" example:"1"`
	MoveInDate             string `json:"move_in_date" example:"2025-09-01"`
	EmergencyContactName   string `json:"emergency_contact_name" example:"Li Hua"`
	EmergencyContactNumber string `json:"emergency_contact_number" example:"13700137000"`
}

// UpdateTenantRequest 更新租户请求，所有字段可选
type UpdateTenantRequest struct {
	FullName               *string `json:"full_name"`
	ContactNumber          *string `json:"contact_number"`
	Email                  *string `json:"email" binding:"omitempty,email"`
	MoveInDate             *string `json:"move_in_date"`
	Status                 *string `json:"status"`
	EmergencyContactName   *string `json:"emergency_contact_name"`
	EmergencyContactNumber *string `json:"emergency_contact_number"`
}

// HandleTenantFunc 返回一个处理租户请求的Gin处理函数
func HandleTenantFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewTenantController(ctx, container)

		switch method {
		case "getTenants":
			controller.GetTenants()
		case "getTenant":
			controller.GetTenant()
		case "createTenant":
			controller.CreateTenant()
		case "updateTenant":
			controller.UpdateTenant()
		case "deleteTenant":
			controller.DeleteTenant()
		case "getProfile":
			controller.GetProfile()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// tenantResponse 构造不含密码的租户响应
func tenantResponse(tenant *models.Tenant) gin.H {
	resp := gin.H{
		"tenant_id":                tenant.ID,
		"username":                 tenant.Username,
		"full_name":                tenant.FullName,
		"contact_number":           tenant.ContactNumber,
		"email":                    tenant.Email,
		"move_in_date":             tenant.MoveInDate,
		"status":                   tenant.Status,
		"emergency_contact_name":   tenant.EmergencyContactName,
		"emergency_contact_number": tenant.EmergencyContactNumber,
		"room_id":                  tenant.RoomID,
		"created_at":               tenant.CreatedAt,
		"updated_at":               tenant.UpdatedAt,
	}
	if tenant.Room != nil {
		resp["room"] = tenant.Room
	}
	return resp
}

// 1. GetTenants 获取租户列表
// @Summary      获取租户列表
// @Description  分页获取所有租户及其房间信息
// @Tags         Tenant
// @Produce      json
// @Param        page query int false "页码, 默认为1"
// @Param        page_size query int false "每页条数, 默认为10"
// @Success      200  {object}  response.Response
// @Router       /tenants [get]
// @Security     BearerAuth
func (c *TenantController) GetTenants() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenants, total, err := tenantService.GetAllTenants(page, pageSize)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	var tenantResponses []gin.H
	for i := range tenants {
		tenantResponses = append(tenantResponses, tenantResponse(&tenants[i]))
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        tenantResponses,
	})
}

// 2. GetTenant 获取租户详情
// @Summary      获取租户详情
// @Tags         Tenant
// @Produce      json
// @Param        id path int true "租户ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /tenants/{id} [get]
// @Security     BearerAuth
func (c *TenantController) GetTenant() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenant, err := tenantService.GetTenantByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, tenantResponse(tenant))
}

// 3. CreateTenant 创建租户
// @Summary      创建租户
// @Description  登记新租户并为其分配房间，房间满员时整体失败
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        request body CreateTenantRequest true "租户信息"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/create-tenant [post]
// @Security     BearerAuth
func (c *TenantController) CreateTenant() {
	var req CreateTenantRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request body: "+err.Error())
		return
	}

	tenant := &models.Tenant{
		Username:               req.Username,
		Password:               req.Password,
		FullName:               req.FullName,
		Email:                  req.Email,
		ContactNumber:          req.ContactNumber,
		RoomID:                 &req.RoomID,
		Status:                 models.TenantStatusActive,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
	}
	if req.MoveInDate != "" {
		moveIn, err := time.ParseInLocation("2006-01-02", req.MoveInDate, time.Local)
		if err != nil {
			response.ParamError(c.Ctx, "Invalid move_in_date, expected YYYY-MM-DD")
			return
		}
		tenant.MoveInDate = moveIn
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	if err := tenantService.RegisterTenant(tenant); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, tenantResponse(tenant))
}

// 4. UpdateTenant 更新租户
// @Summary      更新租户信息
// @Description  状态变更会同步调整房间入住人数
// @Tags         Tenant
// @Accept       json
// @Produce      json
// @Param        id path int true "租户ID"
// @Param        request body UpdateTenantRequest true "更新字段"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /tenants/{id} [put]
// @Security     BearerAuth
func (c *TenantController) UpdateTenant() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateTenantRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request body: "+err.Error())
		return
	}

	fields := services.TenantUpdateFields{
		FullName:               req.FullName,
		ContactNumber:          req.ContactNumber,
		Email:                  req.Email,
		EmergencyContactName:   req.EmergencyContactName,
		EmergencyContactNumber: req.EmergencyContactNumber,
	}
	if req.MoveInDate != nil {
		moveIn, err := time.ParseInLocation("2006-01-02", *req.MoveInDate, time.Local)
		if err != nil {
			response.ParamError(c.Ctx, "Invalid move_in_date, expected YYYY-MM-DD")
			return
		}
		fields.MoveInDate = &moveIn
	}
	if req.Status != nil {
		if !models.ValidTenantStatus(*req.Status) {
			response.Fail(c.Ctx, code.ErrInvalidTenantStatus, nil)
			return
		}
		status := models.TenantStatus(*req.Status)
		fields.Status = &status
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenant, err := tenantService.UpdateTenant(id, fields)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, tenantResponse(tenant))
}

// 5. DeleteTenant 删除租户
// @Summary      删除租户
// @Description  级联删除其访客申请和出入记录，并回滚房间入住人数
// @Tags         Tenant
// @Produce      json
// @Param        id path int true "租户ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /tenants/{id} [delete]
// @Security     BearerAuth
func (c *TenantController) DeleteTenant() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	if err := tenantService.DeleteTenant(id); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, gin.H{"deleted": id})
}

// 6. GetProfile 获取当前租户个人信息
// @Summary      获取当前租户个人信息
// @Tags         Tenant
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /tenant/profile [get]
// @Security     BearerAuth
func (c *TenantController) GetProfile() {
	userID, ok := currentUserID(c.Ctx)
	if !ok {
		return
	}

	tenantService := c.Container.GetService("tenant").(services.InterfaceTenantService)
	tenant, err := tenantService.GetTenantByID(userID)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, tenantResponse(tenant))
}
