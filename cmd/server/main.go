package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignatzorin/levkonnect-backend/internal/config"
	"github.com/ignatzorin/levkonnect-backend/internal/db"
	"github.com/ignatzorin/levkonnect-backend/internal/goroutine"
	"github.com/ignatzorin/levkonnect-backend/internal/http/router"
	"github.com/ignatzorin/levkonnect-backend/internal/logger"
	"github.com/ignatzorin/levkonnect-backend/internal/mailer"
	"github.com/ignatzorin/levkonnect-backend/internal/repository"
	"github.com/ignatzorin/levkonnect-backend/internal/service"
	"github.com/ignatzorin/levkonnect-backend/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("development")
		logger.Log.WithError(err).Fatal("загрузка конфигурации")
	}
	logger.Init(cfg.Env)

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Log.WithError(err).Fatal("подключение к БД")
	}
	defer conn.Close()

	if err := db.RunMigrations(conn, cfg.MigrationsPath); err != nil {
		logger.Log.WithError(err).Fatal("миграции")
	}

	userRepo := repository.NewUserRepository(conn)
	jobRepo := repository.NewJobRepository(conn)
	projectRepo := repository.NewProjectRepository(conn)
	reviewRepo := repository.NewReviewRepository(conn)
	notificationRepo := repository.NewNotificationRepository(conn)
	contactRepo := repository.NewContactRepository(conn)
	outboxRepo := repository.NewOutboxRepository(conn)

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
		cfg.EmailFrom, cfg.SupportEmail, cfg.FrontendURL)
	tokens := service.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret,
		cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	hub := ws.NewHub()
	goroutine.SafeGo("ws.hub", hub.Run)

	dispatcher := service.NewEventDispatcher(outboxRepo, notificationRepo, hub, mail, cfg.DispatchInterval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	goroutine.SafeGoWithContext(ctx, "outbox.dispatcher", dispatcher.Run)

	deps := router.Deps{
		Cfg:           cfg,
		DB:            conn,
		Tokens:        tokens,
		Auth:          service.NewAuthService(userRepo, tokens, mail),
		Users:         service.NewUserService(userRepo),
		Jobs:          service.NewJobService(jobRepo, userRepo),
		Projects:      service.NewProjectService(projectRepo, userRepo),
		Reviews:       service.NewReviewService(reviewRepo, projectRepo),
		Notifications: service.NewNotificationService(notificationRepo),
		Dashboard:     service.NewDashboardService(projectRepo),
		Contacts:      service.NewContactService(contactRepo, mail),
		Hub:           hub,
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.New(deps),
	}

	goroutine.SafeGo("http.server", func() {
		logger.Log.WithField("port", cfg.Port).Info("сервер запущен")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("HTTP-сервер")
		}
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("остановка сервера")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("остановка HTTP-сервера")
	}
}
