package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guava/internal/model"
	"guava/internal/pkg/apperr"
)

// writeError 把错误类别映射为统一的 HTTP 错误响应
// 错误绝不伪装成成功：每个失败都带 machine-readable kind 和可读消息
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	code := 50001
	switch kind {
	case apperr.KindNotFound:
		status = http.StatusNotFound
		code = 40401
	case apperr.KindInvalidArgument:
		status = http.StatusBadRequest
		code = 40001
	case apperr.KindStoreUnavailable:
		status = http.StatusServiceUnavailable
		code = 50301
	case apperr.KindUpstream:
		status = http.StatusBadGateway
		code = 50201
	}

	c.JSON(status, model.ErrorResponse{
		Code:    code,
		Kind:    string(kind),
		Message: err.Error(),
	})
}

// writeBindError 请求体解析失败时的 400 响应
func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Code:    40001,
		Kind:    string(apperr.KindInvalidArgument),
		Message: "Invalid request body",
		Detail:  err.Error(),
	})
}
