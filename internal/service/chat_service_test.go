package service

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"guava/internal/ai"
	"guava/internal/config"
	"guava/internal/model"
	"guava/internal/pkg/apperr"
	"guava/internal/pkg/cache"
	"guava/internal/repository"
)

// fakeAI 脚本化的推理替身，记录收到的请求
type fakeAI struct {
	reply string
	usage *model.TokenUsage
	err   error

	lastReq *ai.ChatRequest
}

func (f *fakeAI) Chat(ctx context.Context, req *ai.ChatRequest) (*ai.ChatResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, apperr.Upstream("inference call failed", f.err)
	}
	return &ai.ChatResponse{
		Content: f.reply,
		Usage:   f.usage,
		Extra:   map[string]any{"finish_reason": "stop"},
	}, nil
}

func testDefaults() *config.AIConfig {
	return &config.AIConfig{
		Provider: "openai",
		Model:    "gpt-default",
		Options: config.AIOptionsConfig{
			Temperature: 0.7,
		},
	}
}

func newTestService(fake *fakeAI) (*ChatService, *repository.ConversationRepo, *repository.ModelRepo) {
	store := cache.NewMemoryStore()
	convRepo := repository.NewConversationRepo(store, time.Hour)
	modelRepo := repository.NewModelRepo(store, 24*time.Hour)
	svc := NewChatService(fake, convRepo, modelRepo, testDefaults())
	return svc, convRepo, modelRepo
}

func chatReq(convID string, contents ...string) *model.ChatCompletionRequest {
	req := &model.ChatCompletionRequest{ConversationID: convID}
	for _, c := range contents {
		req.Messages = append(req.Messages, model.ChatMessage{Role: model.RoleUser, Content: c})
	}
	return req
}

func TestChatService_Complete(t *testing.T) {
	Convey("Complete 编排完整流水线", t, func() {
		fake := &fakeAI{reply: "reply 1", usage: &model.TokenUsage{PromptTokens: 3, CompletionTokens: 5, TotalTokens: 8}}
		svc, convRepo, _ := newTestService(fake)
		ctx := context.Background()

		Convey("无会话 ID 时铸造新会话并返回", func() {
			resp, err := svc.Complete(ctx, chatReq("", "hello"))
			So(err, ShouldBeNil)
			So(resp.Content, ShouldEqual, "reply 1")
			So(resp.ConversationID, ShouldNotBeEmpty)
			So(resp.Usage.TotalTokens, ShouldEqual, 8)
			So(resp.AdditionalKwargs["finish_reason"], ShouldEqual, "stop")

			msgs, err := convRepo.Get(ctx, resp.ConversationID)
			So(err, ShouldBeNil)
			So(msgs, ShouldResemble, []model.Message{
				{Role: model.RoleUser, Content: "hello"},
				{Role: model.RoleAssistant, Content: "reply 1"},
			})
		})

		Convey("两轮请求后历史按序拼接", func() {
			resp1, err := svc.Complete(ctx, chatReq("", "turn 1"))
			So(err, ShouldBeNil)

			fake.reply = "reply 2"
			resp2, err := svc.Complete(ctx, chatReq(resp1.ConversationID, "turn 2"))
			So(err, ShouldBeNil)
			So(resp2.ConversationID, ShouldEqual, resp1.ConversationID)

			msgs, err := convRepo.Get(ctx, resp1.ConversationID)
			So(err, ShouldBeNil)
			So(msgs, ShouldResemble, []model.Message{
				{Role: model.RoleUser, Content: "turn 1"},
				{Role: model.RoleAssistant, Content: "reply 1"},
				{Role: model.RoleUser, Content: "turn 2"},
				{Role: model.RoleAssistant, Content: "reply 2"},
			})
		})

		Convey("第二轮推理收到带前缀的完整消息序列", func() {
			resp1, err := svc.Complete(ctx, chatReq("", "turn 1"))
			So(err, ShouldBeNil)

			_, err = svc.Complete(ctx, chatReq(resp1.ConversationID, "turn 2"))
			So(err, ShouldBeNil)

			So(fake.lastReq.Messages, ShouldResemble, []model.Message{
				{Role: model.RoleUser, Content: "turn 1"},
				{Role: model.RoleAssistant, Content: "reply 1"},
				{Role: model.RoleUser, Content: "turn 2"},
			})
		})
	})
}

func TestChatService_NoPartialPersistence(t *testing.T) {
	Convey("推理失败时不落任何状态", t, func() {
		fake := &fakeAI{reply: "reply 1"}
		svc, convRepo, _ := newTestService(fake)
		ctx := context.Background()

		Convey("新会话失败后不存在", func() {
			fake.err = errors.New("upstream timeout")

			_, err := svc.Complete(ctx, chatReq("", "hello"))
			So(apperr.IsKind(err, apperr.KindUpstream), ShouldBeTrue)

			ids, err := convRepo.ListIDs(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)
		})

		Convey("既有会话失败后历史原封不动", func() {
			resp, err := svc.Complete(ctx, chatReq("", "turn 1"))
			So(err, ShouldBeNil)

			before, err := convRepo.Get(ctx, resp.ConversationID)
			So(err, ShouldBeNil)

			fake.err = errors.New("upstream timeout")
			_, err = svc.Complete(ctx, chatReq(resp.ConversationID, "turn 2"))
			So(err, ShouldNotBeNil)

			after, err := convRepo.Get(ctx, resp.ConversationID)
			So(err, ShouldBeNil)
			So(after, ShouldResemble, before)
		})
	})
}

func TestChatService_ResolveParams(t *testing.T) {
	Convey("有效参数解析", t, func() {
		fake := &fakeAI{reply: "ok"}
		svc, convRepo, modelRepo := newTestService(fake)
		ctx := context.Background()

		Convey("model_id 优先于内联参数", func() {
			maxTokens := 64
			created, err := modelRepo.Create(ctx, "gpt-cached", 0.2, &maxTokens, "")
			So(err, ShouldBeNil)

			req := chatReq("", "hello")
			req.ModelID = created.ID
			req.Model = "gpt-inline"

			_, err = svc.Complete(ctx, req)
			So(err, ShouldBeNil)
			So(fake.lastReq.Model, ShouldEqual, "gpt-cached")
			So(fake.lastReq.Temperature, ShouldEqual, 0.2)
			So(*fake.lastReq.MaxTokens, ShouldEqual, 64)
		})

		Convey("model_id 不存在时快速失败且不落状态", func() {
			req := chatReq("", "hello")
			req.ModelID = "never-created"

			_, err := svc.Complete(ctx, req)
			So(apperr.IsKind(err, apperr.KindNotFound), ShouldBeTrue)

			ids, err := convRepo.ListIDs(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldBeEmpty)
		})

		Convey("内联参数覆盖进程默认值", func() {
			temp := 0.1
			req := chatReq("", "hello")
			req.Model = "gpt-inline"
			req.Temperature = &temp

			_, err := svc.Complete(ctx, req)
			So(err, ShouldBeNil)
			So(fake.lastReq.Model, ShouldEqual, "gpt-inline")
			So(fake.lastReq.Temperature, ShouldEqual, 0.1)
		})

		Convey("空位落到进程默认值", func() {
			_, err := svc.Complete(ctx, chatReq("", "hello"))
			So(err, ShouldBeNil)
			So(fake.lastReq.Model, ShouldEqual, "gpt-default")
			So(fake.lastReq.Temperature, ShouldEqual, 0.7)
		})
	})
}
