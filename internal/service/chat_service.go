package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"guava/internal/ai"
	"guava/internal/config"
	"guava/internal/model"
)

// ConversationStore 编排层所需的会话存取面
type ConversationStore interface {
	Resolve(ctx context.Context, convID string) (string, []model.Message, error)
	AppendAndSave(ctx context.Context, convID string, newMsgs []model.Message) (string, []model.Message, error)
}

// ModelResolver 编排层所需的 model 配置解析面
type ModelResolver interface {
	Resolve(ctx context.Context, modelID string) (*model.ModelConfig, error)
}

// Inferencer 推理调用边界
type Inferencer interface {
	Chat(ctx context.Context, req *ai.ChatRequest) (*ai.ChatResponse, error)
}

// ChatService 对话补全编排
// 流水线: 解析有效参数 -> 解析会话前缀 -> 组合消息 -> 调用推理
// -> 追加回复 -> 持久化 -> 返回。
// 推理成功之前不落任何状态：失败的请求不会留下没有回复的用户消息。
type ChatService struct {
	aiClient  Inferencer
	convRepo  ConversationStore
	modelRepo ModelResolver
	defaults  *config.AIConfig
}

// NewChatService 创建对话补全服务
func NewChatService(aiClient Inferencer, convRepo ConversationStore, modelRepo ModelResolver, defaults *config.AIConfig) *ChatService {
	return &ChatService{
		aiClient:  aiClient,
		convRepo:  convRepo,
		modelRepo: modelRepo,
		defaults:  defaults,
	}
}

// Complete 处理一次对话补全请求
func (s *ChatService) Complete(ctx context.Context, req *model.ChatCompletionRequest) (*model.ChatCompletionResponse, error) {
	// 1. 解析有效参数：model_id 优先，缺失时快速失败
	params, err := s.resolveParams(ctx, req)
	if err != nil {
		return nil, err
	}

	// 2. 解析会话 ID 和既有前缀（只读，不落状态）
	convID, history, err := s.convRepo.Resolve(ctx, req.ConversationID)
	if err != nil {
		return nil, err
	}

	// 3. 按请求顺序把新消息接在前缀之后
	newMsgs := make([]model.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		newMsgs = append(newMsgs, model.Message{Role: m.Role, Content: m.Content})
	}

	composed := make([]model.Message, 0, len(history)+len(newMsgs))
	composed = append(composed, history...)
	composed = append(composed, newMsgs...)

	// 4. 调用推理，失败则原样上抛，会话保持原状
	aiResp, err := s.aiClient.Chat(ctx, &ai.ChatRequest{
		Messages:    composed,
		Model:       params.Model,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		log.Error().Err(err).Str("conversation_id", convID).Msg("inference failed")
		return nil, err
	}

	// 5+6. 追加 assistant 回复并一次性持久化，刷新滑动过期
	reply := model.Message{Role: model.RoleAssistant, Content: aiResp.Content}
	saved := append(newMsgs, reply)
	if _, _, err := s.convRepo.AppendAndSave(ctx, convID, saved); err != nil {
		return nil, err
	}

	event := log.Info().
		Str("conversation_id", convID).
		Str("model", params.Model)
	if aiResp.Usage != nil {
		event = event.
			Int("prompt_tokens", aiResp.Usage.PromptTokens).
			Int("completion_tokens", aiResp.Usage.CompletionTokens)
	}
	event.Msg("chat completed")

	return &model.ChatCompletionResponse{
		Content:          aiResp.Content,
		ConversationID:   convID,
		Usage:            aiResp.Usage,
		AdditionalKwargs: aiResp.Extra,
	}, nil
}

// effectiveParams 一次请求的有效推理参数
type effectiveParams struct {
	Model       string
	Temperature float64
	MaxTokens   *int
}

// resolveParams 归并推理参数
// 携带 model_id 时以缓存配置为准；否则取内联参数，空位落到进程默认值
func (s *ChatService) resolveParams(ctx context.Context, req *model.ChatCompletionRequest) (*effectiveParams, error) {
	if req.ModelID != "" {
		cfg, err := s.modelRepo.Resolve(ctx, req.ModelID)
		if err != nil {
			return nil, err
		}
		return &effectiveParams{
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}, nil
	}

	params := &effectiveParams{
		Model:       req.Model,
		Temperature: s.defaults.Options.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if params.Model == "" {
		params.Model = s.defaults.Model
	}
	if req.Temperature != nil {
		params.Temperature = *req.Temperature
	}
	return params, nil
}
