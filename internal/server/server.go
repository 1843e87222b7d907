package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"guava/internal/ai"
	"guava/internal/config"
	"guava/internal/handler"
	"guava/internal/pkg/cache"
	"guava/internal/repository"
	"guava/internal/server/middleware"
	"guava/internal/service"
)

// Server HTTP 服务器
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	redis  *cache.RedisCache
}

// New 创建服务器实例
// Redis 是唯一的状态后端，连不上直接失败，不降级运行
func New(cfg *config.Config) (*Server, error) {
	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	engine := gin.New()

	// 初始化 Redis
	redisCache, err := cache.NewRedisCache(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	srv := &Server{
		cfg:    cfg,
		engine: engine,
		redis:  redisCache,
	}

	// 设置路由
	srv.setupRoutes()

	return srv, nil
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// 全局中间件
	s.engine.Use(middleware.Recovery())
	s.engine.Use(middleware.RequestID())
	s.engine.Use(middleware.Logger())
	s.engine.Use(middleware.CORS())

	// 健康检查
	healthHandler := handler.NewHealthHandler(s.redis)
	s.engine.GET("/health", healthHandler.Health)
	s.engine.GET("/ready", healthHandler.Ready)

	// Swagger 文档
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 仓库与服务
	convRepo := repository.NewConversationRepo(s.redis, s.cfg.Chat.ConversationTTL)
	modelRepo := repository.NewModelRepo(s.redis, s.cfg.Chat.ModelTTL)
	aiClient := ai.NewClient(&s.cfg.AI)
	chatSvc := service.NewChatService(aiClient, convRepo, modelRepo, &s.cfg.AI)

	chatHdl := handler.NewChatHandler(chatSvc)
	convHdl := handler.NewConversationHandler(convRepo)
	modelHdl := handler.NewModelHandler(modelRepo, &s.cfg.AI)

	// API v1
	v1 := s.engine.Group("/v1")
	{
		// Chat 接口
		v1.POST("/chat/completions", chatHdl.Completions)

		// Model 配置接口
		v1.POST("/models/create", modelHdl.Create)
		v1.GET("/models", modelHdl.List)
		v1.GET("/models/:id", modelHdl.Get)
		v1.DELETE("/models/:id", modelHdl.Delete)

		// Conversation 接口
		v1.GET("/conversations", convHdl.List)
		v1.GET("/conversations/:id", convHdl.Get)
		v1.DELETE("/conversations/:id", convHdl.Delete)
	}
}

// Run 启动服务器
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	// 启动服务器
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待关闭信号或错误
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")

		if err := s.redis.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close Redis connection")
		}

		return srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

// Engine 获取 Gin 引擎 (用于测试)
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
