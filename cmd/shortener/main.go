package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Totarae/LinkBoard/internal/config"
	"github.com/Totarae/LinkBoard/internal/database"
	"github.com/Totarae/LinkBoard/internal/handlers"
	"github.com/Totarae/LinkBoard/internal/render"
	"github.com/Totarae/LinkBoard/internal/repositories"
	"github.com/Totarae/LinkBoard/internal/router"
	"github.com/Totarae/LinkBoard/internal/service"
	"go.uber.org/zap"
)

// buildVersion подставляется при сборке через -ldflags "-X main.buildVersion=..."
var buildVersion = "N/A"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Инициализация конфигурации
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Некорректная конфигурация", zap.Error(err))
	}

	db, err := database.NewDB(context.Background(), cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.DatabaseDSN, cfg.PgMigrationsPath, logger); err != nil {
		logger.Fatal("Не удалось применить миграции", zap.Error(err))
	}

	renderer, err := render.NewRenderer(cfg.BaseURL, logger)
	if err != nil {
		logger.Fatal("Не удалось инициализировать шаблоны", zap.Error(err))
	}

	repo := repositories.NewLinkRepository(db)
	svc := service.NewLinkService(repo, logger, cfg.StorageTimeout)
	handler := handlers.NewHandler(svc, renderer, logger, buildVersion)

	r := router.NewRouter(handler, renderer, logger)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Сервер запущен", zap.String("address", cfg.ServerAddress), zap.String("version", buildVersion))
		var err error
		if cfg.EnableHTTPS {
			err = srv.ListenAndServeTLS(cfg.TLSCertPath, cfg.TLSKeyPath)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка при запуске сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Останавливаем сервер...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Ошибка при остановке сервера", zap.Error(err))
	}
	logger.Info("Сервер остановлен")
}
