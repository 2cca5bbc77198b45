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

// InterfaceVisitorLogController 定义访客出入记录控制器接口
type InterfaceVisitorLogController interface {
	GetLogs()
	GetActiveLogs()
	GetLog()
	GetLogsByVisitor()
	CheckIn()
	CheckOut()
}

// VisitorLogController 访客出入记录控制器
type VisitorLogController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewVisitorLogController 创建一个新的访客出入记录控制器
func NewVisitorLogController(ctx *gin.Context, container *container.ServiceContainer) *VisitorLogController {
	return &VisitorLogController{
		Ctx:       ctx,
		Container: container,
	}
}

// CheckInRequest 签到请求
type CheckInRequest struct {
	VisitorID uint   `json:"visitor_id" binding:"required" example:"3"`
	IDLeft    string `json:"id_left" example:"National ID"`
}

// CheckOutRequest 签出请求
type CheckOutRequest struct {
	VisitorID uint `json:"visitor_id" binding:"required" example:"3"`
}

// HandleVisitorLogFunc 返回一个处理出入记录请求的Gin处理函数
func HandleVisitorLogFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewVisitorLogController(ctx, container)

		switch method {
		case "getLogs":
			controller.GetLogs()
		case "getActiveLogs":
			controller.GetActiveLogs()
		case "getLog":
			controller.GetLog()
		case "getLogsByVisitor":
			controller.GetLogsByVisitor()
		case "checkIn":
			controller.CheckIn()
		case "checkOut":
			controller.CheckOut()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// logResponse 构造出入记录响应，附带访客与经办人的展平字段
func logResponse(l *models.VisitorLog) gin.H {
	resp := gin.H{
		"log_id":         l.ID,
		"visitor_id":     l.VisitorID,
		"check_in_time":  l.CheckInTime,
		"check_out_time": l.CheckOutTime,
		"id_left":        l.IDLeft,
		"processed_by":   l.ProcessedBy,
	}
	if l.Visitor != nil {
		resp["visitor_name"] = l.Visitor.FullName
		resp["purpose"] = l.Visitor.Purpose
		if l.Visitor.Tenant != nil {
			resp["tenant_name"] = l.Visitor.Tenant.FullName
			if l.Visitor.Tenant.Room != nil {
				resp["room_number"] = l.Visitor.Tenant.Room.RoomNumber
			}
		}
	}
	if l.Processor != nil {
		resp["processed_by_name"] = l.Processor.FullName
	}
	return resp
}

func (c *VisitorLogController) respondLogs(logs []models.VisitorLog, err error) {
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	logResponses := make([]gin.H, 0, len(logs))
	for i := range logs {
		logResponses = append(logResponses, logResponse(&logs[i]))
	}
	response.Success(c.Ctx, logResponses)
}

// 1. GetLogs 获取所有出入记录
// @Summary      获取所有出入记录
// @Tags         VisitorLog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /visitor-logs [get]
// @Security     BearerAuth
func (c *VisitorLogController) GetLogs() {
	logService := c.Container.GetService("visitor_log").(services.InterfaceVisitorLogService)
	logs, err := logService.GetAllLogs()
	c.respondLogs(logs, err)
}

// 2. GetActiveLogs 获取在场访客记录
// @Summary      获取在场访客记录
// @Description  已签到且未签出的记录
// @Tags         VisitorLog
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /visitor-logs/active [get]
// @Security     BearerAuth
func (c *VisitorLogController) GetActiveLogs() {
	logService := c.Container.GetService("visitor_log").(services.InterfaceVisitorLogService)
	logs, err := logService.GetActiveLogs()
	c.respondLogs(logs, err)
}

// 3. GetLog 获取出入记录详情
// @Summary      获取出入记录详情
// @Tags         VisitorLog
// @Produce      json
// @Param        id path int true "记录ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /visitor-logs/{id} [get]
// @Security     BearerAuth
func (c *VisitorLogController) GetLog() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	logService := c.Container.GetService("visitor_log").(services.InterfaceVisitorLogService)
	log, err := logService.GetLogByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, logResponse(log))
}

// 4. GetLogsByVisitor 获取某访客的出入记录
// @Summary      获取某访客的出入记录
// @Tags         VisitorLog
// @Produce      json
// @Param        id path int true "访客ID"
// @Success      200  {object}  response.Response
// @Router       /visitor-logs/visitor/{id} [get]
// @Security     BearerAuth
func (c *VisitorLogController) GetLogsByVisitor() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	logService := c.Container.GetService("visitor_log").(services.InterfaceVisitorLogService)
	logs, err := logService.GetLogsByVisitor(id)
	c.respondLogs(logs, err)
}

// 5. CheckIn 访客签到
// @Summary      访客签到
// @Description  仅已批准且没有未结束记录的访客可以签到
// @Tags         VisitorLog
// @Accept       json
// @Produce      json
// @Param        request body CheckInRequest true "签到信息"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /visitor-logs/check-in [post]
// @Security     BearerAuth
func (c *VisitorLogController) CheckIn() {
	userID, ok := currentUserID(c.Ctx)
	if !ok {
		return
	}

	var req CheckInRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "visitor_id is required")
		return
	}

	logService := c.Container.GetService("visitor_log").(services.InterfaceVisitorLogService)
	log, err := logService.CheckIn(req.VisitorID, userID, req.IDLeft)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, logResponse(log))
}

// 6. CheckOut 访客签出
// @Summary      访客签出
// @Description  关闭该访客最近一条未签出的记录
// @Tags         VisitorLog
// @Accept       json
// @Produce      json
// @Param        request body CheckOutRequest true "签出信息"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /visitor-logs/check-out [post]
// @Security     BearerAuth
func (c *VisitorLogController) CheckOut() {
	var req CheckOutRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "visitor_id is required")
		return
	}

	logService := c.Container.GetService("visitor_log").(services.InterfaceVisitorLogService)
	log, err := logService.CheckOut(req.VisitorID)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, logResponse(log))
}
