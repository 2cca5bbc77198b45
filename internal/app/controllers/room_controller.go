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

// InterfaceRoomController 定义房间控制器接口
type InterfaceRoomController interface {
	GetRooms()
	GetRoom()
	CreateRoom()
}

// RoomController 房间控制器
type RoomController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewRoomController 创建一个新的房间控制器
func NewRoomController(ctx *gin.Context, container *container.ServiceContainer) *RoomController {
	return &RoomController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	RoomNumber string `json:"room_number" binding:"required" example:"A-101"`
	Building   string `json:"building" example:"A"`
	Capacity   int    `json:"capacity" binding:"required" example:"4"`
}

// HandleRoomFunc 返回一个处理房间请求的Gin处理函数
func HandleRoomFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewRoomController(ctx, container)

		switch method {
		case "getRooms":
			controller.GetRooms()
		case "getRoom":
			controller.GetRoom()
		case "createRoom":
			controller.CreateRoom()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. GetRooms 获取房间列表
// @Summary      获取房间列表
// @Description  返回所有房间及其容量和当前入住人数
// @Tags         Room
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /admin/rooms [get]
// @Security     BearerAuth
func (c *RoomController) GetRooms() {
	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	rooms, err := roomService.GetAllRooms()
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, rooms)
}

// 2. GetRoom 获取房间详情
// @Summary      获取房间详情
// @Tags         Room
// @Produce      json
// @Param        id path int true "房间ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/rooms/{id} [get]
// @Security     BearerAuth
func (c *RoomController) GetRoom() {
	id, ok := parseIDParam(c.Ctx, "id")
	if !ok {
		return
	}

	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	room, err := roomService.GetRoomByID(id)
	if err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}
	response.Success(c.Ctx, room)
}

// 3. CreateRoom 创建房间
// @Summary      创建房间
// @Tags         Room
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "房间信息"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/rooms [post]
// @Security     BearerAuth
func (c *RoomController) CreateRoom() {
	var req CreateRoomRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "Invalid request body: "+err.Error())
		return
	}

	room := &models.Room{
		RoomNumber: req.RoomNumber,
		Building:   req.Building,
		Capacity:   req.Capacity,
	}

	roomService := c.Container.GetService("room").(services.InterfaceRoomService)
	if err := roomService.CreateRoom(room); err != nil {
		failWithServiceError(c.Ctx, err)
		return
	}

	middleware.PurgeCache()
	response.Success(c.Ctx, room)
}
