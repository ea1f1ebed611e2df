package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess          = 0
	CodeParamError       = 1000
	CodeAuthFailed       = 1001
	CodePermissionDenied = 1002
	CodeResourceNotFound = 1003
	CodeInvalidState     = 1004
	CodeDuplicateAction  = 1005
	CodeCollectClosed    = 1006
	CodeServerError      = 5000
)

// 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:          "success",
	CodeParamError:       "参数错误",
	CodeAuthFailed:       "认证失败",
	CodePermissionDenied: "权限不足",
	CodeResourceNotFound: "资源不存在",
	CodeInvalidState:     "当前状态不允许该操作",
	CodeDuplicateAction:  "重复操作",
	CodeCollectClosed:    "收款已结束，不再接受付款",
	CodeServerError:      "服务器内部错误",
}

// 错误码对应的 HTTP 状态码
var codeStatuses = map[int]int{
	CodeSuccess:          http.StatusOK,
	CodeParamError:       http.StatusBadRequest,
	CodeAuthFailed:       http.StatusUnauthorized,
	CodePermissionDenied: http.StatusForbidden,
	CodeResourceNotFound: http.StatusNotFound,
	CodeInvalidState:     http.StatusBadRequest,
	CodeDuplicateAction:  http.StatusBadRequest,
	CodeCollectClosed:    http.StatusBadRequest,
	CodeServerError:      http.StatusInternalServerError,
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Errors  []string    `json:"errors,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Success: true,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	status, ok := codeStatuses[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{
		Code:    code,
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// ValidationError 参数校验失败响应，携带字段级错误列表
func ValidationError(c *gin.Context, message string, errs []string) {
	if message == "" {
		message = codeMessages[CodeParamError]
	}
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeParamError,
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// InvalidStateError 状态不允许
func InvalidStateError(c *gin.Context, message string) {
	Error(c, CodeInvalidState, message)
}

// DuplicateError 重复操作
func DuplicateError(c *gin.Context, message string) {
	Error(c, CodeDuplicateAction, message)
}

// CollectClosedError 收款已结束
func CollectClosedError(c *gin.Context, message string) {
	Error(c, CodeCollectClosed, message)
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
