package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"guava/internal/pkg/apperr"
)

// Pinger 存储健康检查边界
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler 健康检查处理器
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// Health 健康检查
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready 就绪检查，探测外部存储连通性
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		writeError(c, apperr.StoreUnavailable("redis ping failed", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
