package api

import (
	"errors"
	"net/http"

	"userdesk/internal/userstore"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 错误码定义
const (
	// 通用错误码
	ErrCodeInvalidRequest = "ERR_INVALID_REQUEST"
	ErrCodeInternalError  = "ERR_INTERNAL_ERROR"

	// 用户集合错误码
	ErrCodeUserNotFound      = "ERR_USER_NOT_FOUND"
	ErrCodeDuplicateUsername = "ERR_DUPLICATE_USERNAME"
	ErrCodeStorage           = "ERR_STORAGE"
)

const unexpectedErrorMessage = "An unexpected error occurred"

// APIError 统一的 API 错误响应结构
type APIError struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	BadRequest(c, ErrCodeInvalidRequest, "Invalid request payload")
}

// HandleError 将业务错误翻译为响应。development 模式下附带 context 与错误链。
func HandleError(c *gin.Context, err error, development bool) {
	status := http.StatusInternalServerError
	code := ErrCodeInternalError
	message := unexpectedErrorMessage

	storeErr, known := userstore.AsError(err)
	if known {
		status = storeErr.StatusCode()
		code = errorCode(storeErr.Kind)
		message = storeErr.Message
	}

	if development && !known {
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	}

	if !development {
		ErrorResponse(c, status, code, message)
		return
	}

	details := gin.H{"error": err.Error()}
	if known && len(storeErr.Context) > 0 {
		details["context"] = storeErr.Context
	}
	if chain := causeChain(err); len(chain) > 0 {
		details["causes"] = chain
	}
	ErrorResponseWithDetails(c, status, code, message, details)
}

func errorCode(kind userstore.Kind) string {
	switch kind {
	case userstore.KindValidation:
		return ErrCodeInvalidRequest
	case userstore.KindNotFound:
		return ErrCodeUserNotFound
	case userstore.KindDuplicate:
		return ErrCodeDuplicateUsername
	case userstore.KindStorage:
		return ErrCodeStorage
	default:
		return ErrCodeInternalError
	}
}

func causeChain(err error) []string {
	var chain []string
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		chain = append(chain, cause.Error())
	}
	return chain
}
