package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/legalchat/legalchat/internal/ai"
	"github.com/legalchat/legalchat/internal/cache"
	"github.com/legalchat/legalchat/internal/config"
	"github.com/legalchat/legalchat/internal/db"
	"github.com/legalchat/legalchat/internal/filestore"
	"github.com/legalchat/legalchat/internal/handler"
	"github.com/legalchat/legalchat/internal/job"
	"github.com/legalchat/legalchat/internal/middleware"
	"github.com/legalchat/legalchat/internal/notify"
	"github.com/legalchat/legalchat/internal/repo"
	"github.com/legalchat/legalchat/internal/schedule"
	"github.com/legalchat/legalchat/internal/service"
)

const cacheSweepSpec = "*/5 * * * *"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "legalchat",
		Short: "legal document QA backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run legalchat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			database, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(database); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, database)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, database *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("file_store", cfg.FileStore.Type),
		zap.String("ai_provider", cfg.AI.Provider),
	)
	handler.SetDevMode(cfg.Env == "development")

	docRepo := repo.NewDocumentRepo(database)
	clauseRepo := repo.NewClauseRepo(database)
	questionRepo := repo.NewQuestionRepo(database)
	answerRepo := repo.NewAnswerRepo(database)
	chatRoomRepo := repo.NewChatRoomRepo(database)

	store, err := filestore.New(cfg.FileStore)
	if err != nil {
		return fmt.Errorf("init file store: %w", err)
	}
	notifier, err := notify.New(cfg.Notify)
	if err != nil {
		return fmt.Errorf("init notifier: %w", err)
	}
	aiProvider, err := ai.NewProvider(cfg.AI.Provider, cfg.AI.Data)
	if err != nil {
		return fmt.Errorf("init ai provider: %w", err)
	}

	answerCache := cache.New(time.Duration(cfg.Core.CacheTTLSeconds) * time.Second)
	explainer := ai.NewExplainer(aiProvider, cfg.AI.Model, answerCache, ai.ExplainerConfig{
		Timeout:          time.Duration(cfg.Core.AITimeoutSeconds) * time.Second,
		MaxRetryAttempts: *cfg.Core.MaxRetryAttempts,
		CacheTTL:         time.Duration(cfg.Core.CacheTTLSeconds) * time.Second,
	})
	retrieval := service.NewRetrievalService(clauseRepo, answerCache, service.RetrievalConfig{
		MaxClauses:          cfg.Core.MaxClauses,
		LowPriorityCapRatio: cfg.Core.LowPriorityCapRatio,
		CacheTTL:            time.Duration(cfg.Core.RetrievalCacheTTLSeconds) * time.Second,
	})
	assembler := service.NewAssembler(docRepo, cfg.Core.ClausePreviewLength,
		time.Duration(cfg.Core.CacheTTLSeconds)*time.Second)

	qaService := service.NewQAService(questionRepo, answerRepo, chatRoomRepo, explainer, retrieval, assembler, notifier)
	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Port)
	ingestService := service.NewIngestService(docRepo, clauseRepo, store, notifier, baseURL)
	chatService := service.NewChatService(chatRoomRepo, questionRepo)
	exportService := service.NewExportService(chatRoomRepo, questionRepo)

	deps := handler.RouterDeps{
		Documents: handler.NewDocumentHandler(ingestService, docRepo, clauseRepo),
		Chat:      handler.NewChatHandler(qaService, chatService, exportService),
		Files:     handler.NewFileHandler(store),
		AskWindow: time.Second,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.CORS(cfg.CORSAllow),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewCacheSweepJob(answerCache), cacheSweepSpec); err != nil {
		return fmt.Errorf("schedule cache sweep: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
