package code

// 错误码消息映射。消息为面向客户端的英文文案，属于对外契约
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "Success",
	ErrUnknown:         "Internal server error",
	ErrBind:            "Invalid request parameters",
	ErrValidation:      "All required fields must be provided",
	ErrTokenInvalid:    "Invalid or expired token",
	ErrForbidden:       "Access denied",
	ErrTooManyRequests: "Too many requests, please try again later",

	// 用户相关错误码
	ErrUserNotFound:          "User not found",
	ErrUserAlreadyExist:      "Username or email already exists",
	ErrUserPasswordIncorrect: "Invalid username or password",

	// 租户相关错误码
	ErrTenantNotFound:      "Tenant not found",
	ErrTenantAlreadyExist:  "Username or email already exists",
	ErrInvalidTenantStatus: "Invalid tenant status",

	// 房间相关错误码
	ErrRoomNotFound: "Room not found",
	ErrRoomFull:     "Room is at full capacity",

	// 访客相关错误码
	ErrVisitorNotFound:         "Visitor not found",
	ErrAdvanceNoticeTooShort:   "Visitor registration must be submitted at least 12 hours before the visit date",
	ErrVisitorAlreadyProcessed: "Cannot update visitor after approval/rejection",
	ErrInvalidApprovalStatus:   "Invalid approval status",

	// 访客出入记录相关错误码
	ErrLogNotFound:        "Visitor log not found",
	ErrVisitorNotApproved: "Visitor not found or not approved",
	ErrAlreadyCheckedIn:   "Visitor is already checked in",
	ErrNoOpenSession:      "No active check-in found for this visitor",

	// 数据库相关错误码
	ErrDatabase:       "Database error",
	ErrRecordNotFound: "Record not found",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrForbidden:       StatusForbidden,
	ErrTooManyRequests: StatusTooManyRequests,

	// 用户相关错误码
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusConflict,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	// 租户相关错误码
	ErrTenantNotFound:      StatusNotFound,
	ErrTenantAlreadyExist:  StatusConflict,
	ErrInvalidTenantStatus: StatusBadRequest,

	// 房间相关错误码
	ErrRoomNotFound: StatusNotFound,
	ErrRoomFull:     StatusBadRequest,

	// 访客相关错误码
	ErrVisitorNotFound:         StatusNotFound,
	ErrAdvanceNoticeTooShort:   StatusBadRequest,
	ErrVisitorAlreadyProcessed: StatusBadRequest,
	ErrInvalidApprovalStatus:   StatusBadRequest,

	// 访客出入记录相关错误码
	ErrLogNotFound:        StatusNotFound,
	ErrVisitorNotApproved: StatusBadRequest,
	ErrAlreadyCheckedIn:   StatusBadRequest,
	ErrNoOpenSession:      StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "Unknown error"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
