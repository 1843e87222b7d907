package cache

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore_SetGet(t *testing.T) {
	Convey("Set/Get 能往返任意 JSON 值", t, func() {
		store := NewMemoryStore()
		ctx := context.Background()

		Convey("字符串切片往返", func() {
			So(store.Set(ctx, "k", []string{"a", "b"}, 0), ShouldBeNil)

			var got []string
			So(store.Get(ctx, "k", &got), ShouldBeNil)
			So(got, ShouldResemble, []string{"a", "b"})
		})

		Convey("不存在的 key 返回 ErrNotFound", func() {
			var got string
			So(store.Get(ctx, "missing", &got), ShouldEqual, ErrNotFound)
		})
	})
}

func TestMemoryStore_Expiration(t *testing.T) {
	Convey("过期语义与 Redis 对齐", t, func() {
		now := time.Now()
		store := NewMemoryStore()
		store.Clock = func() time.Time { return now }
		ctx := context.Background()

		Convey("到期后 key 消失", func() {
			So(store.Set(ctx, "k", "v", time.Minute), ShouldBeNil)

			now = now.Add(59 * time.Second)
			ok, _ := store.Exists(ctx, "k")
			So(ok, ShouldBeTrue)

			now = now.Add(2 * time.Second)
			ok, _ = store.Exists(ctx, "k")
			So(ok, ShouldBeFalse)
		})

		Convey("Expire 重置倒计时", func() {
			So(store.Set(ctx, "k", "v", time.Minute), ShouldBeNil)

			now = now.Add(50 * time.Second)
			So(store.Expire(ctx, "k", time.Minute), ShouldBeNil)

			now = now.Add(50 * time.Second)
			ok, _ := store.Exists(ctx, "k")
			So(ok, ShouldBeTrue)
		})

		Convey("TTL 返回剩余时间", func() {
			So(store.Set(ctx, "k", "v", time.Minute), ShouldBeNil)

			now = now.Add(20 * time.Second)
			ttl, err := store.TTL(ctx, "k")
			So(err, ShouldBeNil)
			So(ttl, ShouldEqual, 40*time.Second)

			_, err = store.TTL(ctx, "missing")
			So(err, ShouldEqual, ErrNotFound)
		})
	})
}

func TestMemoryStore_Keys(t *testing.T) {
	Convey("Keys 按前缀枚举且跳过过期条目", t, func() {
		now := time.Now()
		store := NewMemoryStore()
		store.Clock = func() time.Time { return now }
		ctx := context.Background()

		So(store.Set(ctx, "conversation:a", "1", time.Minute), ShouldBeNil)
		So(store.Set(ctx, "conversation:b", "2", time.Second), ShouldBeNil)
		So(store.Set(ctx, "model:c", "3", time.Minute), ShouldBeNil)

		now = now.Add(10 * time.Second)

		keys, err := store.Keys(ctx, "conversation:")
		So(err, ShouldBeNil)
		So(keys, ShouldResemble, []string{"conversation:a"})
	})
}
