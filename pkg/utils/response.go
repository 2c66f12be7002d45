package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgErrors "task-tracker/pkg/errors"
)

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"` // 详细错误信息（可选）
}

// MessageResponse 仅包含提示信息的响应
type MessageResponse struct {
	Message string `json:"message"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageResponse{Message: message})
}

// Error 错误响应
// AppError 使用自身的状态码；未知错误按500返回并透出原始信息
func Error(c *gin.Context, err error) {
	code := pkgErrors.CodeOf(err)
	var appErr *pkgErrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(code, ErrorResponse{Error: appErr.Message})
		return
	}

	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// ErrorWithCode 自定义错误响应
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

// ErrorWithDetail 带详细信息的错误响应
func ErrorWithDetail(c *gin.Context, code int, message, detail string) {
	c.JSON(code, ErrorResponse{
		Error:   message,
		Details: detail,
	})
}
