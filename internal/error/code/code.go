package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 资源冲突.
	StatusConflict = 409
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrForbidden - 403: 权限不足.
	ErrForbidden
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 409: 用户名或邮箱已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 用户名或密码错误.
	ErrUserPasswordIncorrect
)

// 租户相关错误码 (102xxx).
const (
	// ErrTenantNotFound - 404: 租户不存在.
	ErrTenantNotFound int = iota + 102000
	// ErrTenantAlreadyExist - 409: 租户已存在.
	ErrTenantAlreadyExist
	// ErrInvalidTenantStatus - 400: 无效的租户状态.
	ErrInvalidTenantStatus
)

// 房间相关错误码 (103xxx).
const (
	// ErrRoomNotFound - 404: 房间不存在.
	ErrRoomNotFound int = iota + 103000
	// ErrRoomFull - 400: 房间已满员.
	ErrRoomFull
)

// 访客相关错误码 (104xxx).
const (
	// ErrVisitorNotFound - 404: 访客记录不存在.
	ErrVisitorNotFound int = iota + 104000
	// ErrAdvanceNoticeTooShort - 400: 提前量不足12小时.
	ErrAdvanceNoticeTooShort
	// ErrVisitorAlreadyProcessed - 400: 访客申请已被处理.
	ErrVisitorAlreadyProcessed
	// ErrInvalidApprovalStatus - 400: 无效的审批状态.
	ErrInvalidApprovalStatus
)

// 访客出入记录相关错误码 (105xxx).
const (
	// ErrLogNotFound - 404: 出入记录不存在.
	ErrLogNotFound int = iota + 105000
	// ErrVisitorNotApproved - 400: 访客未获批准.
	ErrVisitorNotApproved
	// ErrAlreadyCheckedIn - 400: 访客已在场内.
	ErrAlreadyCheckedIn
	// ErrNoOpenSession - 400: 访客没有未结束的入场记录.
	ErrNoOpenSession
)

// 数据库相关错误码 (106xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 106000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)
