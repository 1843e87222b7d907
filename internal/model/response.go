package model

// ChatCompletionResponse 对话补全响应
type ChatCompletionResponse struct {
	Content          string         `json:"content"`
	ConversationID   string         `json:"conversation_id"`
	Usage            *TokenUsage    `json:"usage,omitempty"`
	AdditionalKwargs map[string]any `json:"additional_kwargs"`
}

// CreateModelResponse 创建 model 配置响应
type CreateModelResponse struct {
	ModelID string `json:"model_id"`
	Model   string `json:"model"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ModelEntry 单个 model 配置条目（resolve/list 共用）
type ModelEntry struct {
	ModelID string       `json:"model_id"`
	Config  *ModelConfig `json:"config"`
}

// ConversationResponse 会话历史响应
type ConversationResponse struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
	ExpiresAt      string    `json:"expires_at,omitempty"`
}

// StatusResponse 操作结果响应（删除等）
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// TokenUsage Token 使用统计
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
