package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"guava/internal/model"
	"guava/internal/pkg/apperr"
	"guava/internal/pkg/cache"
	"guava/internal/pkg/id"
)

// ConversationKeyPrefix 会话键命名空间
const ConversationKeyPrefix = "conversation:"

// ConversationRepo 会话仓库
// 整条消息序列以 JSON 存在单个 key 下，每次保存整体覆盖并重置滑动过期。
// 读改写不是原子的：同一会话 ID 的并发写入是 last-writer-wins，
// 需要严格顺序的调用方应按会话 ID 串行化请求。
type ConversationRepo struct {
	store cache.Store
	ttl   time.Duration
}

// NewConversationRepo 创建会话仓库
func NewConversationRepo(store cache.Store, ttl time.Duration) *ConversationRepo {
	return &ConversationRepo{
		store: store,
		ttl:   ttl,
	}
}

func conversationKey(id string) string {
	return ConversationKeyPrefix + id
}

// Resolve 解析会话 ID 并读取既有消息前缀
// id 为空时铸造新 ID；key 不存在（过期或从未写入）按空序列处理，不是错误。
// 只读操作，不触碰过期时间。
func (r *ConversationRepo) Resolve(ctx context.Context, convID string) (string, []model.Message, error) {
	if convID == "" {
		return id.New(), nil, nil
	}

	msgs, err := r.Get(ctx, convID)
	if err != nil {
		return "", nil, err
	}
	return convID, msgs, nil
}

// Save 整体覆盖消息序列并重置滑动过期
func (r *ConversationRepo) Save(ctx context.Context, convID string, msgs []model.Message) error {
	if err := r.store.Set(ctx, conversationKey(convID), msgs, r.ttl); err != nil {
		return apperr.StoreUnavailable("failed to save conversation", err)
	}
	return nil
}

// AppendAndSave 读取前缀、追加新消息并整体保存
// 返回解析后的会话 ID 和完整消息序列
func (r *ConversationRepo) AppendAndSave(ctx context.Context, convID string, newMsgs []model.Message) (string, []model.Message, error) {
	resolvedID, history, err := r.Resolve(ctx, convID)
	if err != nil {
		return "", nil, err
	}

	full := make([]model.Message, 0, len(history)+len(newMsgs))
	full = append(full, history...)
	full = append(full, newMsgs...)

	if err := r.Save(ctx, resolvedID, full); err != nil {
		return "", nil, err
	}
	return resolvedID, full, nil
}

// Get 只读查询消息序列
// key 不存在返回空序列；不刷新过期时间
func (r *ConversationRepo) Get(ctx context.Context, convID string) ([]model.Message, error) {
	var msgs []model.Message
	err := r.store.Get(ctx, conversationKey(convID), &msgs)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.StoreUnavailable("failed to read conversation", err)
	}
	return msgs, nil
}

// Exists 检查会话是否存在
func (r *ConversationRepo) Exists(ctx context.Context, convID string) (bool, error) {
	ok, err := r.store.Exists(ctx, conversationKey(convID))
	if err != nil {
		return false, apperr.StoreUnavailable("failed to check conversation", err)
	}
	return ok, nil
}

// TTL 返回会话剩余存活时间
func (r *ConversationRepo) TTL(ctx context.Context, convID string) (time.Duration, error) {
	ttl, err := r.store.TTL(ctx, conversationKey(convID))
	if errors.Is(err, cache.ErrNotFound) {
		return 0, apperr.NotFound("conversation " + convID + " not found")
	}
	if err != nil {
		return 0, apperr.StoreUnavailable("failed to read conversation ttl", err)
	}
	return ttl, nil
}

// Delete 删除会话，不存在返回 not_found
func (r *ConversationRepo) Delete(ctx context.Context, convID string) error {
	key := conversationKey(convID)

	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return apperr.StoreUnavailable("failed to check conversation", err)
	}
	if !ok {
		return apperr.NotFound("conversation " + convID + " not found")
	}

	if err := r.store.Delete(ctx, key); err != nil {
		return apperr.StoreUnavailable("failed to delete conversation", err)
	}
	return nil
}

// ListIDs 枚举全部会话 ID
// 快照语义：列出的 ID 可能在随后解析前过期
func (r *ConversationRepo) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, ConversationKeyPrefix)
	if err != nil {
		return nil, apperr.StoreUnavailable("failed to list conversations", err)
	}

	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, ConversationKeyPrefix))
	}
	return ids, nil
}
