package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xxz807/assetbook/backend/internal/journal/adapter/repo"
	"github.com/xxz807/assetbook/backend/internal/journal/api"
	"github.com/xxz807/assetbook/backend/internal/journal/service"
	"github.com/xxz807/assetbook/backend/internal/platform/database"
	"github.com/xxz807/assetbook/backend/internal/platform/logger"
	"github.com/xxz807/assetbook/backend/internal/platform/server"
)

func main() {
	// 1. 加载配置
	viper.SetConfigFile("configs/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}

	// 2. 初始化基础设施
	appLogger := logger.NewLogger(viper.GetString("server.mode"))
	db := database.NewPostgresDB(
		viper.GetString("database.dsn"),
		viper.GetInt("database.max_idle_conns"),
		viper.GetInt("database.max_open_conns"),
	)

	// 3. 依赖注入
	accountRepo := repo.NewAccountRepo(db)
	entryRepo := repo.NewEntryRepo(db)
	ruleRepo := repo.NewRuleRepo(db)

	journalSvc := service.NewJournalService(db, accountRepo, entryRepo)
	recurringSvc := service.NewRecurringService(db, ruleRepo, entryRepo, accountRepo, appLogger)
	reportSvc := service.NewReportService(accountRepo, entryRepo,
		viper.GetString("reports.retained_earnings_account"))

	journalHandler := api.NewJournalHandler(journalSvc, recurringSvc, reportSvc, accountRepo)

	// 4. 初始化 Server
	srv := server.NewServer(
		appLogger,
		viper.GetString("server.port"),
		viper.GetString("server.mode"),
		journalHandler,
	)

	// 5. 启动服务 + 优雅停机
	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Server startup failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server exited")
}
