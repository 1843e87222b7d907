package ai

import (
	"github.com/cloudwego/eino/schema"

	"guava/internal/model"
)

// toSchemaMessages 转换为 Eino 消息格式
// 角色在请求边界已经校验，未知角色在这里直接丢弃
func toSchemaMessages(msgs []model.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case model.RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		case model.RoleUser:
			out = append(out, schema.UserMessage(m.Content))
		case model.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		}
	}
	return out
}

// usageFrom 提取 token 用量，上游未返回时为 nil
func usageFrom(resp *schema.Message) *model.TokenUsage {
	if resp.ResponseMeta == nil || resp.ResponseMeta.Usage == nil {
		return nil
	}
	u := resp.ResponseMeta.Usage
	return &model.TokenUsage{
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      u.TotalTokens,
	}
}

// extraFrom 收集上游附加元数据
func extraFrom(resp *schema.Message) map[string]any {
	extra := make(map[string]any, len(resp.Extra)+1)
	for k, v := range resp.Extra {
		extra[k] = v
	}
	if resp.ResponseMeta != nil && resp.ResponseMeta.FinishReason != "" {
		extra["finish_reason"] = resp.ResponseMeta.FinishReason
	}
	return extra
}
