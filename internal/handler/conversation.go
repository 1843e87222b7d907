package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"guava/internal/model"
	"guava/internal/pkg/apperr"
	"guava/internal/repository"
)

// ConversationHandler 会话管理处理器
type ConversationHandler struct {
	repo *repository.ConversationRepo
}

// NewConversationHandler 创建会话管理处理器
func NewConversationHandler(repo *repository.ConversationRepo) *ConversationHandler {
	return &ConversationHandler{repo: repo}
}

// Get 获取会话历史
// GET /v1/conversations/:id
// 先做存在性检查再读消息：未知 ID 返回 404，不会和真正的空会话混淆
func (h *ConversationHandler) Get(c *gin.Context) {
	convID := c.Param("id")

	exists, err := h.repo.Exists(c.Request.Context(), convID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !exists {
		writeError(c, apperr.NotFound("conversation "+convID+" not found"))
		return
	}

	msgs, err := h.repo.Get(c.Request.Context(), convID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := model.ConversationResponse{
		ConversationID: convID,
		Messages:       msgs,
	}

	// 剩余 TTL 换算为过期时刻，读取失败不阻塞历史返回
	if ttl, err := h.repo.TTL(c.Request.Context(), convID); err == nil && ttl > 0 {
		resp.ExpiresAt = time.Now().Add(ttl).Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, resp)
}

// List 列出全部会话 ID
// GET /v1/conversations
func (h *ConversationHandler) List(c *gin.Context) {
	ids, err := h.repo.ListIDs(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ids)
}

// Delete 删除会话
// DELETE /v1/conversations/:id
func (h *ConversationHandler) Delete(c *gin.Context) {
	convID := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), convID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.StatusResponse{
		Status:  "success",
		Message: "Conversation " + convID + " deleted",
	})
}
