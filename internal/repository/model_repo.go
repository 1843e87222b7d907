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

// ModelKeyPrefix model 配置键命名空间
const ModelKeyPrefix = "model:"

// ModelRepo model 配置仓库
// 配置创建后不可变，固定过期：Resolve 不刷新倒计时
type ModelRepo struct {
	store cache.Store
	ttl   time.Duration
}

// NewModelRepo 创建 model 配置仓库
func NewModelRepo(store cache.Store, ttl time.Duration) *ModelRepo {
	return &ModelRepo{
		store: store,
		ttl:   ttl,
	}
}

func modelKey(id string) string {
	return ModelKeyPrefix + id
}

// Create 创建并持久化 model 配置
// requestedID 非空时按原值使用，不做唯一性检查（last-writer-wins，
// 允许幂等重建）；为空则铸造新 ID
func (r *ModelRepo) Create(ctx context.Context, modelName string, temperature float64, maxTokens *int, requestedID string) (*model.ModelConfig, error) {
	cfg := &model.ModelConfig{
		ID:          requestedID,
		Model:       modelName,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		CreatedAt:   time.Now().UTC(),
	}
	if cfg.ID == "" {
		cfg.ID = id.New()
	}

	if err := r.store.Set(ctx, modelKey(cfg.ID), cfg, r.ttl); err != nil {
		return nil, apperr.StoreUnavailable("failed to save model config", err)
	}
	return cfg, nil
}

// Resolve 按 ID 读取配置
// key 不存在（从未创建或已过期）返回 not_found，绝不静默回退默认值
func (r *ModelRepo) Resolve(ctx context.Context, modelID string) (*model.ModelConfig, error) {
	var cfg model.ModelConfig
	err := r.store.Get(ctx, modelKey(modelID), &cfg)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, apperr.NotFound("model config " + modelID + " not found")
	}
	if err != nil {
		return nil, apperr.StoreUnavailable("failed to read model config", err)
	}
	cfg.ID = modelID
	return &cfg, nil
}

// List 枚举全部存活的 model 配置
// 快照语义：枚举和解析之间过期的条目被静默跳过
func (r *ModelRepo) List(ctx context.Context) ([]model.ModelEntry, error) {
	keys, err := r.store.Keys(ctx, ModelKeyPrefix)
	if err != nil {
		return nil, apperr.StoreUnavailable("failed to list model configs", err)
	}

	entries := make([]model.ModelEntry, 0, len(keys))
	for _, k := range keys {
		modelID := strings.TrimPrefix(k, ModelKeyPrefix)
		cfg, err := r.Resolve(ctx, modelID)
		if apperr.IsKind(err, apperr.KindNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, model.ModelEntry{ModelID: modelID, Config: cfg})
	}
	return entries, nil
}

// Delete 删除 model 配置，不存在返回 not_found
func (r *ModelRepo) Delete(ctx context.Context, modelID string) error {
	key := modelKey(modelID)

	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return apperr.StoreUnavailable("failed to check model config", err)
	}
	if !ok {
		return apperr.NotFound("model config " + modelID + " not found")
	}

	if err := r.store.Delete(ctx, key); err != nil {
		return apperr.StoreUnavailable("failed to delete model config", err)
	}
	return nil
}
