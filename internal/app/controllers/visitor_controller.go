package controllers

import (
	"github.com/gin-gonic/gin"

	"dormguard-http-service/internal/app/middleware"
	"dormguard-http-service/internal/domain/models"
	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/domain/services/container"
	"dormguard-http-service/internal/error/code"
	"dormguard-http-service/internal/error/response"
)

// InterfaceVisitorController 定义访客控制器接口
type InterfaceVisitorController interface {
	GetVisitors()
	GetVisitor()
	RegisterVisitor()
	GetMyVisitors()
	GetVisitorsByTenant()
	UpdateMyVisitor()
	DeleteMyVisitor()
	UpdateStatus()
	Approve()
	Reject()
	DeleteVisitor()
}

// VisitorController 访客控制器
type VisitorController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVisitorController 创建一个新的访客控制器
func NewVisitorController(ctx *gin.Context, container *container.ServiceContainer) *VisitorController {
	return &VisitorController{
		Ctx:       ctx,
		Container: container,
	}
}

// RegisterVisitorRequest 访客登记请求
type RegisterVisitorRequest struct {
	FullName      string `json:"full_name" binding:"required" example:"Wang Fang"`
	ContactNumber string `json:"contact_number" example:"13600136000"`
	Purpose       string `json:"purpose" binding:"required" example:"Family visit"`
	ExpectedDate  string `json:"expected_date" binding:"required" example:"2025-09-15"`
	ExpectedTime  string `json:"expected_time" example:"14:30"`
}

// UpdateVisitorRequest 租户修改访客申请的请求，所有字段可选
type UpdateVisitorRequest struct {
	FullName      *string `json:"full_name"`
	ContactNumber *string `json:"contact_number"`
	Purpose       *string `json:"purpose"`
	ExpectedDate  *string `json:"expected_date"`
	ExpectedTime  *string `json:"expected_time"`
}

// UpdateStatusRequest 审批状态变更请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"Approved"`
	Reason string `json:"reason" example:"Unregistered overnight stay"`
}

// HandleVisitorFunc 返回一个处理访客请求的Gin处理函数
func HandleVisitorFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVisitorController(ctx, container)

		switch method {
		case "getVisitors":
			controller.GetVisitors()
		case "getVisitor":
			controller.GetVisitor()
		case "registerVisitor":
			controller.RegisterVisitor()
		case "getMyVisitors":
			controller.GetMyVisitors()
		case "getVisitorsByTenant":
			controller.GetVisitorsByTenant()
		case "updateMyVisitor":
			controller.UpdateMyVisitor()
		case "deleteMyVisitor":
			controller.DeleteMyVisitor()
		case "updateStatus":
			controller.UpdateStatus()
		case "approve":
			controller.Approve()
		case "reject":
			controller.Reject()
		case "deleteVisitor":
			controller.DeleteVisitor()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// visitorResponse 构造访客响应，附带租户和房间的展平字段
func visitorResponse(v *models.Visitor) gin.H {
	resp := gin.H{
		"visitor_id":      v.ID,
		"tenant_id":       v.TenantID,
		"full_name":       v.FullName,
		"contact_number":  v.ContactNumber,
		"purpose":         v.Purpose,
		"expected_date":   v.ExpectedDate,
		"expected_time":   v.ExpectedTime,
		"approval_status": v.ApprovalStatus,
		"created_at":      v.CreatedAt,
	}
	if v.Tenant != nil {
		resp["tenant_name"] = v.Tenant.FullName
		if v.Tenant.Room != nil {
			resp["room_number"] = v.Tenant.Room.RoomNumber
			resp["building"] = v.Tenant.Room.Building
		}
	}
	if v.Logs != nil {
		resp["logs"] = v.Logs
	}
	return resp
}

// 1. GetVisitors 获取访客申请列表
// @Summary      获取访客申请列表
// @Description  获取全部访客申请，可按审批状态筛选
// @Tags         Visitor
// @Produce      json
// @Param        status query string false "审批状态: Pending / Approved / Denied"
// @Success      200  {object}  response.Response
// @Router       /visitors [get]
// @Security     BearerAuth
func (c *VisitorController) GetVisitors() {
	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)

	var visitors []models.Visitor
	var err error
	if status := c.Ctx.Query("status"); status != "" {
		visitors, err = visitorService.GetVisitorsByStatus(models.ApprovalStatus(status))
	} else {
		visitors, err = visitorService.GetAllVisitors()
	}
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	visitorResponses := make([]gin.H, 0, len(visitors))
	for i := range visitors {
		visitorResponses = append(visitorResponses, visitorResponse(&visitors[i]))
	}
	response.Success(c.Ctx, visitorResponses)
}

// 2. GetVisitor 获取访客申请详情
// @Summary      获取访客申请详情
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /visitors/{id} [get]
// @Security     BearerAuth
func (c *VisitorController) GetVisitor() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.GetVisitorByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, visitorResponse(visitor))
}

// 3. RegisterVisitor 租户登记访客
// @Summary      租户登记访客
// @Description  到访时间必须距当前至少12小时，否则拒绝
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        request body RegisterVisitorRequest true "访客信息"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /tenant/register-visitor [post]
// @Security     BearerAuth
func (c *VisitorController) RegisterVisitor() {
	userID, ok := currentUserID(c.Ctx)
	if !ok {
		return
	}

	var req RegisterVisitorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request body: "+err.Error())
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.SubmitVisitor(userID, services.SubmitVisitorRequest{
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		Purpose:       req.Purpose,
		ExpectedDate:  req.ExpectedDate,
		ExpectedTime:  req.ExpectedTime,
	})
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, visitorResponse(visitor))
}

// 4. GetMyVisitors 获取当前租户的访客申请
// @Summary      获取当前租户的访客申请
// @Tags         Visitor
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /tenant/visitors [get]
// @Security     BearerAuth
func (c *VisitorController) GetMyVisitors() {
	userID, ok := currentUserID(c.Ctx)
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitors, err := visitorService.GetVisitorsByTenant(userID)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	visitorResponses := make([]gin.H, 0, len(visitors))
	for i := range visitors {
		visitorResponses = append(visitorResponses, visitorResponse(&visitors[i]))
	}
	response.Success(c.Ctx, visitorResponses)
}

// GetVisitorsByTenant 获取指定租户的访客申请
// @Summary      获取指定租户的访客申请
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "租户ID"
// @Success      200  {object}  response.Response
// @Router       /visitors/tenant/{id} [get]
// @Security     BearerAuth
func (c *VisitorController) GetVisitorsByTenant() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitors, err := visitorService.GetVisitorsByTenant(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	visitorResponses := make([]gin.H, 0, len(visitors))
	for i := range visitors {
		visitorResponses = append(visitorResponses, visitorResponse(&visitors[i]))
	}
	response.Success(c.Ctx, visitorResponses)
}

// 5. UpdateMyVisitor 租户修改自己的访客申请
// @Summary      租户修改自己的访客申请
// @Description  仅待审批状态的申请可以修改
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        id path int true "访客ID"
// @Param        request body UpdateVisitorRequest true "更新字段"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /tenant/visitors/{id} [put]
// @Security     BearerAuth
func (c *VisitorController) UpdateMyVisitor() {
	userID, ok := currentUserID(c.Ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	var req UpdateVisitorRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request body: "+err.Error())
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.UpdateVisitorByTenant(id, userID, services.VisitorUpdateFields{
		FullName:      req.FullName,
		ContactNumber: req.ContactNumber,
		Purpose:       req.Purpose,
		ExpectedDate:  req.ExpectedDate,
		ExpectedTime:  req.ExpectedTime,
	})
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, visitorResponse(visitor))
}

// 6. DeleteMyVisitor 租户撤回自己的访客申请
// @Summary      租户撤回自己的访客申请
// @Description  仅待审批状态的申请可以撤回
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /tenant/visitors/{id} [delete]
// @Security     BearerAuth
func (c *VisitorController) DeleteMyVisitor() {
	userID, ok := currentUserID(c.Ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	if err := visitorService.DeleteVisitorByTenant(id, userID); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, gin.H{"deleted": id})
}

// updateVisitorStatus 执行审批状态变更并返回响应
func (c *VisitorController) updateVisitorStatus(status models.ApprovalStatus) {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	visitor, err := visitorService.UpdateStatus(id, status)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, visitorResponse(visitor))
}

// 7. UpdateStatus 管理员变更访客审批状态
// @Summary      变更访客审批状态
// @Description  状态取值 Pending / Approved / Denied，重复设置同一状态为幂等操作
// @Tags         Visitor
// @Accept       json
// @Produce      json
// @Param        id path int true "访客ID"
// @Param        request body UpdateStatusRequest true "目标状态"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /visitors/{id}/status [put]
// @Security     BearerAuth
func (c *VisitorController) UpdateStatus() {
	var req UpdateStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Status is required")
		return
	}
	if !models.ValidApprovalStatus(req.Status) {
		response.Fail(c.Ctx, code.ErrInvalidApprovalStatus, nil)
		return
	}
	c.updateVisitorStatus(models.ApprovalStatus(req.Status))
}

// 8. Approve 批准访客申请
// @Summary      批准访客申请
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/approve-visitor/{id} [put]
// @Security     BearerAuth
func (c *VisitorController) Approve() {
	c.updateVisitorStatus(models.ApprovalStatusApproved)
}

// 9. Reject 拒绝访客申请
// @Summary      拒绝访客申请
// @Description  请求体中的理由仅用于审计展示，不做持久化
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/reject-visitor/{id} [put]
// @Security     BearerAuth
func (c *VisitorController) Reject() {
	c.updateVisitorStatus(models.ApprovalStatusDenied)
}

// 10. DeleteVisitor 管理员删除访客申请
// @Summary      管理员删除访客申请
// @Tags         Visitor
// @Produce      json
// @Param        id path int true "访客ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /visitors/{id} [delete]
// @Security     BearerAuth
func (c *VisitorController) DeleteVisitor() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	visitorService := c.Container.GetService("visitor").(services.InterfaceVisitorService)
	if err := visitorService.DeleteVisitor(id); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, gin.H{"deleted": id})
}
