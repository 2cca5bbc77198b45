package controllers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"dormguard-http-service/internal/domain/services"
	"dormguard-http-service/internal/error/code"
	"dormguard-http-service/internal/error/response"
)

// serviceErrorCode 将服务层哨兵错误映射为对外错误码
func serviceErrorCode(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingField):
		return code.ErrValidation
	case errors.Is(err, services.ErrInvalidDate):
		return code.ErrValidation
	case errors.Is(err, services.ErrAdvanceNoticeTooShort):
		return code.ErrAdvanceNoticeTooShort
	case errors.Is(err, services.ErrInvalidStatus):
		return code.ErrInvalidApprovalStatus
	case errors.Is(err, services.ErrAlreadyProcessed):
		return code.ErrVisitorAlreadyProcessed
	case errors.Is(err, services.ErrNotApproved):
		return code.ErrVisitorNotApproved
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		return code.ErrAlreadyCheckedIn
	case errors.Is(err, services.ErrNoOpenSession):
		return code.ErrNoOpenSession
	case errors.Is(err, services.ErrRoomFull):
		return code.ErrRoomFull
	case errors.Is(err, services.ErrTenantNotFound):
		return code.ErrTenantNotFound
	case errors.Is(err, services.ErrVisitorNotFound):
		return code.ErrVisitorNotFound
	case errors.Is(err, services.ErrRoomNotFound):
		return code.ErrRoomNotFound
	case errors.Is(err, services.ErrLogNotFound):
		return code.ErrLogNotFound
	case errors.Is(err, services.ErrAdminNotFound):
		return code.ErrUserNotFound
	case errors.Is(err, services.ErrUserAlreadyExist):
		return code.ErrUserAlreadyExist
	case errors.Is(err, services.ErrInvalidCredentials):
		return code.ErrUserPasswordIncorrect
	default:
		return code.ErrDatabase
	}
}

// failWithServiceError 以哨兵错误对应的错误码返回失败响应
func failWithServiceError(ctx *gin.Context, err error) {
	response.Fail(ctx, serviceErrorCode(err), nil)
}

// parseIDParam 解析URL中的ID参数
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	idStr := ctx.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		response.ParamError(ctx, "Invalid ID parameter")
		return 0, false
	}
	return uint(id), true
}

// currentUserID 从上下文中读取认证中间件写入的用户ID
func currentUserID(ctx *gin.Context) (uint, bool) {
	v, exists := ctx.Get("userID")
	if !exists {
		response.Fail(ctx, code.ErrTokenInvalid, nil)
		return 0, false
	}
	id, ok := v.(uint)
	if !ok {
		response.Fail(ctx, code.ErrTokenInvalid, nil)
		return 0, false
	}
	return id, true
}
