package services

import "errors"

// 服务层哨兵错误。控制器通过 errors.Is 将其映射到错误码包中的对外错误码，
// 服务内部绝不吞掉这些错误
var (
	// 校验类错误
	ErrMissingField          = errors.New("all required fields must be provided")
	ErrAdvanceNoticeTooShort = errors.New("visit must be scheduled at least 12 hours in advance")
	ErrInvalidStatus         = errors.New("invalid status value")
	ErrInvalidDate           = errors.New("invalid expected date or time")

	// 状态类错误
	ErrAlreadyProcessed = errors.New("visitor request already processed")
	ErrNotApproved      = errors.New("visitor is not approved")
	ErrAlreadyCheckedIn = errors.New("visitor is already checked in")
	ErrNoOpenSession    = errors.New("no open session for visitor")
	ErrRoomFull         = errors.New("room is at full capacity")

	// 资源类错误
	ErrTenantNotFound  = errors.New("tenant not found")
	ErrVisitorNotFound = errors.New("visitor not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrLogNotFound     = errors.New("visitor log not found")
	ErrAdminNotFound   = errors.New("admin not found")

	// 冲突类错误
	ErrUserAlreadyExist = errors.New("username or email already exists")

	// 认证类错误
	ErrInvalidCredentials = errors.New("invalid username or password")
)
