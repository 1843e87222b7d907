package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"guava/internal/config"
	"guava/internal/model"
	"guava/internal/repository"
)

// ModelHandler model 配置处理器
type ModelHandler struct {
	repo     *repository.ModelRepo
	defaults *config.AIConfig
}

// NewModelHandler 创建 model 配置处理器
func NewModelHandler(repo *repository.ModelRepo, defaults *config.AIConfig) *ModelHandler {
	return &ModelHandler{repo: repo, defaults: defaults}
}

// Create 创建 model 配置
// POST /v1/models/create
func (h *ModelHandler) Create(c *gin.Context) {
	var req model.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	temperature := h.defaults.Options.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	cfg, err := h.repo.Create(c.Request.Context(), req.Model, temperature, req.MaxTokens, req.ModelID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.CreateModelResponse{
		ModelID: cfg.ID,
		Model:   cfg.Model,
		Status:  "success",
		Message: "Model configuration cached successfully",
	})
}

// Get 解析单个 model 配置
// GET /v1/models/:id
func (h *ModelHandler) Get(c *gin.Context) {
	modelID := c.Param("id")

	cfg, err := h.repo.Resolve(c.Request.Context(), modelID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.ModelEntry{ModelID: modelID, Config: cfg})
}

// List 列出全部存活的 model 配置
// GET /v1/models
func (h *ModelHandler) List(c *gin.Context) {
	entries, err := h.repo.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

// Delete 删除 model 配置
// DELETE /v1/models/:id
func (h *ModelHandler) Delete(c *gin.Context) {
	modelID := c.Param("id")

	if err := h.repo.Delete(c.Request.Context(), modelID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.StatusResponse{
		Status:  "success",
		Message: "Model configuration " + modelID + " deleted",
	})
}
