package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"guava/internal/model"
)

// Completer 对话补全服务边界
type Completer interface {
	Complete(ctx context.Context, req *model.ChatCompletionRequest) (*model.ChatCompletionResponse, error)
}

// ChatHandler 对话补全处理器
type ChatHandler struct {
	svc Completer
}

// NewChatHandler 创建对话补全处理器
func NewChatHandler(svc Completer) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Completions 对话补全接口
// POST /v1/chat/completions
func (h *ChatHandler) Completions(c *gin.Context) {
	var req model.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	resp, err := h.svc.Complete(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
