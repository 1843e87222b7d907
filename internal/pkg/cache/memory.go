package cache

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore 进程内的 Store 实现
// 语义对齐 Redis：单 key 过期、滑动/固定 TTL 由调用方的 Set/Expire 决定。
// 用于测试和本地开发，不做持久化。
// Clock 可注入，便于测试推进时间。
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryEntry

	// Clock 返回当前时间，默认 time.Now
	Clock func() time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // 零值表示不过期
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: map[string]memoryEntry{},
		Clock: time.Now,
	}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// live 返回未过期的条目；过期条目顺手清掉
// 调用方必须已持有锁
func (s *MemoryStore) live(key string) (memoryEntry, bool) {
	ent, ok := s.items[key]
	if !ok {
		return memoryEntry{}, false
	}
	if !ent.expiresAt.IsZero() && !s.now().Before(ent.expiresAt) {
		delete(s.items, key)
		return memoryEntry{}, false
	}
	return ent, true
}

// Set 写入值并设置过期时间
func (s *MemoryStore) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ent := memoryEntry{data: data}
	if expiration > 0 {
		ent.expiresAt = s.now().Add(expiration)
	}
	s.items[key] = ent
	return nil
}

// Get 读取并反序列化
func (s *MemoryStore) Get(ctx context.Context, key string, dest any) error {
	s.mu.Lock()
	ent, ok := s.live(key)
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(ent.data, dest)
}

// Expire 重置过期倒计时
func (s *MemoryStore) Expire(ctx context.Context, key string, expiration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.live(key)
	if !ok {
		return nil
	}
	if expiration > 0 {
		ent.expiresAt = s.now().Add(expiration)
	} else {
		ent.expiresAt = time.Time{}
	}
	s.items[key] = ent
	return nil
}

// TTL 返回剩余存活时间
func (s *MemoryStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.live(key)
	if !ok {
		return 0, ErrNotFound
	}
	if ent.expiresAt.IsZero() {
		return 0, nil
	}
	return ent.expiresAt.Sub(s.now()), nil
}

// Delete 删除 key
func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.items, k)
	}
	return nil
}

// Exists 检查 key 是否存在
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.live(key)
	return ok, nil
}

// Keys 按前缀枚举 key
func (s *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if _, ok := s.live(k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Ping 健康检查，内存实现恒成功
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
