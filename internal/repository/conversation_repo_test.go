package repository

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"guava/internal/model"
	"guava/internal/pkg/apperr"
	"guava/internal/pkg/cache"
)

func userMsg(content string) model.Message {
	return model.Message{Role: model.RoleUser, Content: content}
}

func assistantMsg(content string) model.Message {
	return model.Message{Role: model.RoleAssistant, Content: content}
}

func TestConversationRepo_AppendAndSave(t *testing.T) {
	Convey("AppendAndSave 维持插入顺序", t, func() {
		store := cache.NewMemoryStore()
		repo := NewConversationRepo(store, time.Hour)
		ctx := context.Background()

		Convey("空 ID 铸造新会话", func() {
			convID, full, err := repo.AppendAndSave(ctx, "", []model.Message{userMsg("hi")})
			So(err, ShouldBeNil)
			So(convID, ShouldNotBeEmpty)
			So(full, ShouldHaveLength, 1)

			Convey("后续写入沿用同一个 ID", func() {
				convID2, full2, err := repo.AppendAndSave(ctx, convID, []model.Message{assistantMsg("hello")})
				So(err, ShouldBeNil)
				So(convID2, ShouldEqual, convID)
				So(full2, ShouldHaveLength, 2)
			})
		})

		Convey("两轮请求的消息按序拼接", func() {
			convID, _, err := repo.AppendAndSave(ctx, "", []model.Message{
				userMsg("turn 1"),
				assistantMsg("reply 1"),
			})
			So(err, ShouldBeNil)

			_, _, err = repo.AppendAndSave(ctx, convID, []model.Message{
				userMsg("turn 2"),
				assistantMsg("reply 2"),
			})
			So(err, ShouldBeNil)

			msgs, err := repo.Get(ctx, convID)
			So(err, ShouldBeNil)
			So(msgs, ShouldResemble, []model.Message{
				userMsg("turn 1"),
				assistantMsg("reply 1"),
				userMsg("turn 2"),
				assistantMsg("reply 2"),
			})
		})

		Convey("携带未知 ID 视为从头开始，不是错误", func() {
			convID, full, err := repo.AppendAndSave(ctx, "expired-or-never-used", []model.Message{userMsg("hi")})
			So(err, ShouldBeNil)
			So(convID, ShouldEqual, "expired-or-never-used")
			So(full, ShouldHaveLength, 1)
		})
	})
}

func TestConversationRepo_Get(t *testing.T) {
	Convey("Get 是只读查询", t, func() {
		store := cache.NewMemoryStore()
		repo := NewConversationRepo(store, time.Hour)
		ctx := context.Background()

		Convey("未知 ID 返回空序列而不是错误", func() {
			msgs, err := repo.Get(ctx, "unknown")
			So(err, ShouldBeNil)
			So(msgs, ShouldBeEmpty)
		})

		Convey("Get 不刷新过期时间", func() {
			now := time.Now()
			store.Clock = func() time.Time { return now }

			convID, _, err := repo.AppendAndSave(ctx, "", []model.Message{userMsg("hi")})
			So(err, ShouldBeNil)

			now = now.Add(30 * time.Minute)
			_, err = repo.Get(ctx, convID)
			So(err, ShouldBeNil)

			ttl, err := repo.TTL(ctx, convID)
			So(err, ShouldBeNil)
			So(ttl, ShouldEqual, 30*time.Minute)
		})
	})
}

func TestConversationRepo_SlidingTTL(t *testing.T) {
	Convey("每次写入重置滑动过期", t, func() {
		now := time.Now()
		store := cache.NewMemoryStore()
		store.Clock = func() time.Time { return now }
		repo := NewConversationRepo(store, 10*time.Minute)
		ctx := context.Background()

		convID, _, err := repo.AppendAndSave(ctx, "", []model.Message{userMsg("1")})
		So(err, ShouldBeNil)

		Convey("连续写入让会话活过单个 TTL 的上限", func() {
			// 每 8 分钟追加一次，共 24 分钟 > 10 分钟 TTL
			for i := 0; i < 3; i++ {
				now = now.Add(8 * time.Minute)
				_, _, err := repo.AppendAndSave(ctx, convID, []model.Message{userMsg("more")})
				So(err, ShouldBeNil)
			}

			ok, err := repo.Exists(ctx, convID)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
		})

		Convey("静默超过 TTL 后会话消失", func() {
			now = now.Add(11 * time.Minute)

			ok, err := repo.Exists(ctx, convID)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)

			msgs, err := repo.Get(ctx, convID)
			So(err, ShouldBeNil)
			So(msgs, ShouldBeEmpty)
		})
	})
}

func TestConversationRepo_Delete(t *testing.T) {
	Convey("Delete 的 not_found 语义", t, func() {
		store := cache.NewMemoryStore()
		repo := NewConversationRepo(store, time.Hour)
		ctx := context.Background()

		Convey("删除不存在的会话返回 not_found", func() {
			err := repo.Delete(ctx, "missing")
			So(apperr.IsKind(err, apperr.KindNotFound), ShouldBeTrue)
		})

		Convey("删除后 Exists 为 false", func() {
			convID, _, err := repo.AppendAndSave(ctx, "", []model.Message{userMsg("hi")})
			So(err, ShouldBeNil)

			So(repo.Delete(ctx, convID), ShouldBeNil)

			ok, err := repo.Exists(ctx, convID)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestConversationRepo_ListIDs(t *testing.T) {
	Convey("ListIDs 枚举会话命名空间", t, func() {
		store := cache.NewMemoryStore()
		repo := NewConversationRepo(store, time.Hour)
		ctx := context.Background()

		Convey("空库返回空列表", func() {
			ids, err := repo.ListIDs(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)
		})

		Convey("只返回本命名空间的 ID", func() {
			_, _, err := repo.AppendAndSave(ctx, "conv-a", []model.Message{userMsg("hi")})
			So(err, ShouldBeNil)
			So(store.Set(ctx, "model:other", "x", 0), ShouldBeNil)

			ids, err := repo.ListIDs(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"conv-a"})
		})
	})
}
