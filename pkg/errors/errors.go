package errors

import (
	stdErrors "errors"
	"fmt"
)

// 错误码，与HTTP状态码一致
const (
	CodeSuccess       = 200
	CodeCreated       = 201
	CodeBadRequest    = 400
	CodeUnauthorized  = 401
	CodeForbidden     = 403
	CodeNotFound      = 404
	CodeConflict      = 409
	CodeInternalError = 500
	CodeDatabaseError = CodeInternalError
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// BadRequest 参数校验错误
func BadRequest(message string) *AppError {
	return New(CodeBadRequest, message)
}

// Forbidden 权限不足
func Forbidden(message string) *AppError {
	return New(CodeForbidden, message)
}

// NotFound 资源不存在
func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

// Conflict 资源冲突
func Conflict(message string) *AppError {
	return New(CodeConflict, message)
}

// CodeOf 返回错误对应的状态码，非 AppError 视为内部错误
func CodeOf(err error) int {
	if err == nil {
		return CodeSuccess
	}
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalError
}

// 预定义错误
var (
	ErrBadRequest    = New(CodeBadRequest, "请求参数错误")
	ErrUnauthorized  = New(CodeUnauthorized, "未授权")
	ErrForbidden     = New(CodeForbidden, "禁止访问")
	ErrNotFound      = New(CodeNotFound, "资源不存在")
	ErrConflict      = New(CodeConflict, "资源冲突")
	ErrInternalError = New(CodeInternalError, "内部服务器错误")

	// 具体业务错误
	ErrInvalidParams      = New(CodeBadRequest, "请求参数错误")
	ErrInvalidCredentials = New(CodeUnauthorized, "邮箱或密码错误")
	ErrUserNotFound       = New(CodeNotFound, "用户不存在")
	ErrInvalidToken       = New(CodeUnauthorized, "无效的Token")
	ErrTokenExpired       = New(CodeUnauthorized, "Token已过期")
	ErrRecordNotFound     = New(CodeNotFound, "记录不存在")
	ErrRecordExists       = New(CodeConflict, "记录已存在")
	ErrProjectNotFound    = New(CodeNotFound, "项目不存在")
	ErrTaskNotFound       = New(CodeNotFound, "任务不存在")
	ErrCommentNotFound    = New(CodeNotFound, "评论不存在")
	ErrNoProjectAccess    = New(CodeForbidden, "没有访问该项目的权限")
	ErrNoTaskAccess       = New(CodeForbidden, "没有访问该任务的权限")
)
