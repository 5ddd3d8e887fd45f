package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/charlesng35/corpman/pkg/errors"
	"github.com/charlesng35/corpman/pkg/logger"
)

// Response is the uniform API envelope.
type Response struct {
	Status  bool        `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   interface{} `json:"error"`
}

// ErrorInfo holds error details to send to clients.
type ErrorInfo struct {
	Code string `json:"code"`
}

// Success writes a JSON success response with the default message.
func Success(c *gin.Context, statusCode int, data interface{}) {
	SuccessWithMessage(c, statusCode, "success", data)
}

// SuccessWithMessage writes a JSON success response.
func SuccessWithMessage(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  true,
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// Error writes a JSON error response derived from an AppError.
// Server errors are logged with their internal cause, which never reaches the client.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError && appErr.Internal != nil {
		method := ""
		if c.Request != nil {
			method = c.Request.Method
		}
		logger.WithModule("http").Error("request failed",
			zap.String("method", method),
			zap.String("route", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.Error(appErr.Internal),
		)
	}

	var detail interface{} = ErrorInfo{Code: appErr.Code}
	if appErr.Details != nil {
		detail = appErr.Details
	}

	c.JSON(status, Response{
		Status:  false,
		Code:    status,
		Message: appErr.Message,
		Error:   detail,
	})
}
