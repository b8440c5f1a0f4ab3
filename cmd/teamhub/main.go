// Package main запускает HTTP-сервис дашборда участников команды
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"teamhub/internal/config"
	httpapi "teamhub/internal/http"
	"teamhub/internal/identity"
	"teamhub/internal/repository"
	"teamhub/internal/service"
	"teamhub/internal/storage"
)

func main() {
	// Контекст для корректного завершения
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Инициализация логгера (JSON)
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		log.Fatalf("invalid log level: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	// Клиентское хранилище сессии
	st, err := storage.Open(ctx, cfg.Storage.Options())
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("storage close error", slog.Any("err", err))
		}
	}()

	// 1. Сервис аутентификации и Record API
	idp, err := identity.NewService(cfg.Identity.Latency(), identity.DefaultSeeds())
	if err != nil {
		log.Fatalf("failed to init identity: %v", err)
	}
	memberRepo := repository.NewMemberRepo(repository.MemberRepoConfig{
		BaseURL:      cfg.Records.BaseURL,
		APIKey:       cfg.Records.APIKey,
		Timeout:      cfg.Records.Timeout,
		RequestDelay: cfg.Records.RequestDelay,
	})

	// 2. Сторы создаются один раз и внедряются в обработчики
	sessions := service.NewSessionStore(ctx, idp, st, logger)
	records := service.NewRecordStore(memberRepo, logger)

	// 3. Восстановленная сессия проверяется в фоне, охрана маршрутов ждёт результат
	if sessions.Snapshot().IsAuthenticated {
		go func() {
			if _, err := sessions.Verify(ctx); err != nil {
				logger.Info("restored session rejected", slog.Any("err", err))
			}
		}()
	}

	// 4. Инициализация HTTP-обработчика
	handler := httpapi.NewHandler(sessions, records, logger, httpapi.Options{
		StrictGuard:    cfg.Session.StrictGuard,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	server := &http.Server{
		Addr:    cfg.ServerAddr(),
		Handler: handler.Router(),
	}

	// Запуск сервера в горутине
	go func() {
		logger.Info("starting http server",
			slog.String("addr", server.Addr),
			slog.String("storage", cfg.Storage.Driver),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("err", err))
			cancel()
		}
	}()

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// Результаты незавершённых операций больше никому не нужны
	sessions.Abandon()
	records.Abandon()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("server shutdown error", slog.Any("err", err))
	}

	logger.Info("server stopped")
}
