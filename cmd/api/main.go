package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-search/internal/api"
	"recipe-search/internal/core/ai/provider"
	"recipe-search/internal/core/cache"
	"recipe-search/internal/core/query"
	"recipe-search/internal/core/search"
	"recipe-search/internal/core/search/index"
	"recipe-search/internal/infrastructure/config"
	"recipe-search/internal/pkg/common"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	// 使用 logger 記錄啟動信息
	common.LogInfo("載入設定",
		zap.String("meilisearch_host", cfg.Meilisearch.Host),
		zap.String("meilisearch_index", cfg.Meilisearch.Index),
		zap.Bool("interpreter_enabled", cfg.Interpreter.Enabled),
		zap.String("embedding_model", cfg.Embedding.Model),
	)

	// 初始化快取
	cacheManager := cache.NewManager(cfg)
	// 只在快取開啟但初始化失敗時才 Fatal
	if cfg.Cache.Enabled && cacheManager == nil {
		common.LogFatal("Failed to initialize cache manager")
	}
	defer func() {
		if cacheManager != nil {
			cacheManager.Close()
		}
	}()

	// 併發初始化檢索後端：向量庫連線與關鍵詞索引互不相依
	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer initCancel()

	meiliClient := index.NewMeiliClient(cfg.Meilisearch)
	meiliIndex := index.NewMeiliIndex(meiliClient, cfg.Meilisearch.Index)

	var (
		pool    *pgxpool.Pool
		pgIndex *index.PgVectorIndex
	)

	g, gctx := errgroup.WithContext(initCtx)
	g.Go(func() error {
		p, err := index.NewPostgresPool(gctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("postgres init failed: %w", err)
		}
		pool = p
		pgIndex = index.NewPgVectorIndex(p)
		return nil
	})
	g.Go(func() error {
		if err := meiliIndex.EnsureIndex(gctx); err != nil {
			return fmt.Errorf("meilisearch init failed: %w", err)
		}
		return meiliIndex.RegisterSynonyms(gctx, query.DefaultLexicon().SynonymMap())
	})
	if err := g.Wait(); err != nil {
		common.LogFatal("檢索後端初始化失敗", zap.Error(err))
	}
	defer pool.Close()

	// 查詢解讀供應商鏈：依序 DeepSeek → OpenAI → Groq
	var interpreter provider.QueryInterpreter
	if cfg.Interpreter.Enabled {
		var providers []provider.QueryInterpreter
		if cfg.Interpreter.DeepSeek.Enabled {
			providers = append(providers, provider.NewDeepSeekInterpreter(cfg.Interpreter.DeepSeek))
		}
		if cfg.Interpreter.OpenAI.Enabled {
			providers = append(providers, provider.NewOpenAIInterpreter(cfg.Interpreter.OpenAI))
		}
		if cfg.Interpreter.Groq.Enabled {
			providers = append(providers, provider.NewGroqInterpreter(cfg.Interpreter.Groq))
		}
		if len(providers) == 0 {
			common.LogWarn("查詢解讀已啟用但沒有可用供應商，降級為純規則解析")
		} else {
			interpreter = provider.NewFallbackInterpreter(cfg.Interpreter.Timeout, providers...)
		}
	}

	// 組裝搜尋服務
	embedder := index.NewRestEmbedder(cfg.Embedding)
	retriever := search.NewRetriever(meiliIndex, pgIndex, embedder, cfg.Search.RetrieveLimit)
	searchSvc := search.NewService(cfg, interpreter, retriever, cacheManager)

	// 設置路由
	router, err := api.SetupRouter(cfg, searchSvc, cacheManager)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
