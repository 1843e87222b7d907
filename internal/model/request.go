package model

// ChatMessage 请求中的一条消息
// role 在绑定时校验，拒绝封闭集合之外的取值
type ChatMessage struct {
	Role    Role   `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatCompletionRequest 对话补全请求
// model/temperature/max_tokens 为内联参数；携带 model_id 时以缓存的配置为准
type ChatCompletionRequest struct {
	Messages       []ChatMessage `json:"messages" binding:"required,min=1,dive"`
	Model          string        `json:"model,omitempty"`
	Temperature    *float64      `json:"temperature,omitempty"`
	MaxTokens      *int          `json:"max_tokens,omitempty"`
	ConversationID string        `json:"conversation_id,omitempty"`
	ModelID        string        `json:"model_id,omitempty"`
}

// CreateModelRequest 创建 model 配置请求
// model_id 可由调用方指定（last-writer-wins，支持幂等重建），不传则铸造新 ID
type CreateModelRequest struct {
	Model       string   `json:"model" binding:"required"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	ModelID     string   `json:"model_id,omitempty"`
}
