package api

import (
	"emotioncolor/internal/auth"
	"emotioncolor/internal/service"
	"emotioncolor/internal/storage"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"
	ErrCodeRateLimited        = "ERR_RATE_LIMITED"

	// 认证错误码
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeEmailExists        = "ERR_EMAIL_EXISTS"
	ErrCodeEmailNotFound      = "ERR_EMAIL_NOT_FOUND"
	ErrCodeWrongAnswer        = "ERR_WRONG_ANSWER"
	ErrCodeRoleLookupFailed   = "ERR_ROLE_LOOKUP_FAILED"

	// 资源错误码
	ErrCodeColorExists    = "ERR_COLOR_EXISTS"
	ErrCodeColorNotFound  = "ERR_COLOR_NOT_FOUND"
	ErrCodeSnapshotExists = "ERR_SNAPSHOT_EXISTS"
)

// 对外提示文案
const (
	msgInvalidCredentials = "Invalid credentials"
	msgUnauthorized       = "Unauthorized access"
	msgForbidden          = "Unauthorized - access failed."
	msgRoleLookupFailed   = "Failed to retrieve user role."
	msgEmailNotFound      = "Email is not found."
	msgWrongAnswer        = "Please provide a correct answer."
	msgRegisterFailed     = "Registration failed. Please try again."
	msgRouteNotFound      = "Route not found."
	msgInternal           = "internal error"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应并中止后续处理
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.AbortWithStatusJSON(status, APIError{
		Error: message,
		Code:  code,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.AbortWithStatusJSON(status, APIError{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, code string) {
	ErrorResponse(c, http.StatusUnauthorized, code, msgUnauthorized)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusForbidden, code, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, msgInternal)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context, err error) {
	details := any(nil)
	if err != nil {
		details = err.Error()
	}
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload", details)
}

// tokenRejectReason 返回 token 被拒绝的具体原因，只写入日志
func tokenRejectReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, auth.ErrTokenExpired):
		return "expired"
	case errors.Is(err, auth.ErrBadSignature):
		return "bad_signature"
	case errors.Is(err, auth.ErrMalformedToken):
		return "malformed"
	default:
		return "unauthorized"
	}
}

// respondError 把服务层错误转换为 HTTP 响应，未识别的错误记录日志并返回 500
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrBadCredential):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, msgInvalidCredentials)
	case errors.Is(err, auth.ErrRoleLookupFailed):
		Forbidden(c, ErrCodeRoleLookupFailed, msgRoleLookupFailed)
	case errors.Is(err, service.ErrInvalidInput):
		BadRequest(c, ErrCodeInvalidRequest, "invalid request payload")
	case errors.Is(err, service.ErrEmailTaken):
		ErrorResponse(c, http.StatusConflict, ErrCodeEmailExists, "email already registered")
	case errors.Is(err, service.ErrBadAnswer):
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeWrongAnswer, msgWrongAnswer)
	case errors.Is(err, service.ErrColorExists):
		ErrorResponse(c, http.StatusConflict, ErrCodeColorExists, "color already exists for this emotion")
	case errors.Is(err, service.ErrColorNotFound):
		NotFound(c, ErrCodeColorNotFound, "color not found for this emotion")
	case errors.Is(err, service.ErrStorageNotEnabled):
		ServiceUnavailable(c, "report storage not available")
	case errors.Is(err, storage.ErrObjectExists):
		ErrorResponse(c, http.StatusConflict, ErrCodeSnapshotExists, "snapshot already exported, retry in a second")
	default:
		logrus.WithError(err).WithField("request_id", c.GetString(requestIDContextKey)).Error(action)
		InternalError(c)
	}
}
