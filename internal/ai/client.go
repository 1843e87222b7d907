package ai

import (
	"context"

	"github.com/rs/zerolog/log"

	"guava/internal/ai/component"
	"guava/internal/config"
	"guava/internal/model"
	"guava/internal/pkg/apperr"
)

// Client AI 能力层客户端
// 职责: 封装推理调用，屏蔽 Provider 差异
type Client struct {
	cfg *config.AIConfig
}

// NewClient 创建 AI 客户端
func NewClient(cfg *config.AIConfig) *Client {
	if cfg.APIKey == "" {
		log.Warn().Msg("AI API key not configured, inference calls will fail")
	}
	return &Client{cfg: cfg}
}

// ChatRequest AI 对话请求
// 参数已由编排层归并完毕（内联参数或缓存的 model 配置）
type ChatRequest struct {
	Messages    []model.Message
	Model       string
	Temperature float64
	MaxTokens   *int
}

// ChatResponse AI 对话响应
type ChatResponse struct {
	Content string
	Usage   *model.TokenUsage
	Extra   map[string]any
}

// Chat 同步对话
// 每次调用按解析后的参数构建 ChatModel，随后一次 Generate。
// 任何失败都包装为 upstream 错误原样上抛，不重试。
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	chatModel, err := component.NewChatModel(ctx, c.modelConfig(req))
	if err != nil {
		return nil, apperr.Upstream("failed to build chat model", err)
	}

	resp, err := chatModel.Generate(ctx, toSchemaMessages(req.Messages))
	if err != nil {
		return nil, apperr.Upstream("inference call failed", err)
	}
	if resp == nil {
		return nil, apperr.Upstream("inference returned empty result", nil)
	}

	return &ChatResponse{
		Content: resp.Content,
		Usage:   usageFrom(resp),
		Extra:   extraFrom(resp),
	}, nil
}

// modelConfig 把请求级参数套在进程级配置之上
func (c *Client) modelConfig(req *ChatRequest) *config.AIConfig {
	merged := *c.cfg
	merged.Model = req.Model
	merged.Options.Temperature = req.Temperature
	if req.MaxTokens != nil {
		merged.Options.MaxTokens = *req.MaxTokens
	} else {
		merged.Options.MaxTokens = 0
	}
	return &merged
}
