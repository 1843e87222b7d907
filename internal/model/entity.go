package model

import (
	"time"
)

// Role 消息角色，封闭枚举
// 非法角色在请求解析边界拒绝，不会流入组合逻辑
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid 角色是否属于封闭集合
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Message 会话中的一条消息
// 创建后不可变；会话内顺序即插入顺序，永不重排
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ModelConfig 可复用的推理参数包
// 创建后不可变，固定过期（创建时设置一次，读取不刷新）
type ModelConfig struct {
	ID          string    `json:"model_id"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	MaxTokens   *int      `json:"max_tokens,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
