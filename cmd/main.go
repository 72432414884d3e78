package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/fyerfyer/docuchat/api"
	"github.com/fyerfyer/docuchat/api/handler"
	"github.com/fyerfyer/docuchat/api/middleware"
	appconfig "github.com/fyerfyer/docuchat/config"
	"github.com/fyerfyer/docuchat/internal/cache"
	"github.com/fyerfyer/docuchat/internal/document"
	"github.com/fyerfyer/docuchat/internal/embedding"
	"github.com/fyerfyer/docuchat/internal/llm"
	"github.com/fyerfyer/docuchat/internal/rag"
	"github.com/fyerfyer/docuchat/pkg/storage"
)

func main() {
	configFile := flag.String("config", "", "path to config file")
	mode := flag.String("mode", gin.ReleaseMode, "gin mode (debug/release)")
	flag.Parse()

	gin.SetMode(*mode)
	logger := middleware.GetLogger()

	// 加载.env中的供应商凭证
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found, using process environment")
	}

	logger.Info("Starting DocuChat service...")

	cfg, err := appconfig.Load(*configFile)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// 文件存储
	fileStorage, err := storage.NewLocalStorage(storage.LocalConfig{
		Path: cfg.Storage.Path,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize storage: %v", err)
	}

	// 文本分块器
	splitter := document.NewTextSplitter(document.SplitterConfig{
		ChunkSize:    cfg.Document.ChunkSize,
		ChunkOverlap: cfg.Document.ChunkOverlap,
	})

	// 向量嵌入客户端
	embedder, err := embedding.NewOpenAIClient(
		embedding.WithAPIKey(cfg.Embed.APIKey),
		embedding.WithModel(cfg.Embed.Model),
		embedding.WithBaseURL(cfg.Embed.Endpoint),
		embedding.WithBatchSize(cfg.Embed.BatchSize),
	)
	if err != nil {
		logger.Fatalf("Failed to initialize embedding client: %v", err)
	}

	// 模型路由器，凭证在每次查询时读取
	resolver := llm.NewRouter(llm.WithRouterTimeout(cfg.LLM.Timeout))

	// 问答缓存
	answerCache, err := cache.NewCache(cache.Config{
		Type:          cfg.Cache.Type,
		RedisAddr:     cfg.Cache.Address,
		RedisPassword: cfg.Cache.Password,
		RedisDB:       cfg.Cache.DB,
		DefaultTTL:    time.Duration(cfg.Cache.TTL) * time.Second,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize cache: %v", err)
	}

	// RAG服务
	service := rag.NewService(
		fileStorage,
		splitter,
		embedder,
		resolver,
		answerCache,
		rag.WithTopK(cfg.Retrieval.TopK),
		rag.WithBaseURL(cfg.Server.BaseURL),
		rag.WithCacheTTL(time.Duration(cfg.Cache.TTL)*time.Second),
		rag.WithLogger(logger),
	)

	// 路由
	router := api.SetupRouter(
		handler.NewDocumentHandler(service),
		handler.NewChatHandler(service),
		fileStorage.BasePath(),
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	// 启动服务
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
