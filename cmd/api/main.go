package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Koncii-co/koncii-wander-guide/internal/app"
	"github.com/Koncii-co/koncii-wander-guide/internal/config"
	"github.com/Koncii-co/koncii-wander-guide/internal/handler"
	"github.com/Koncii-co/koncii-wander-guide/internal/logger"
	"github.com/Koncii-co/koncii-wander-guide/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:          "wander-api",
		Short:        "HTTP API планировщика путешествий",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "файл с переменными окружения")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Применить миграции и запустить HTTP-сервер",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), envFile, serveAPI)
		},
	}
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Применить SQL-миграции",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), envFile, func(ctx context.Context, e *env) error {
				_, err := repository.Migrate(ctx, e.db, e.cfg.MigrationsDir, e.log)
				return err
			})
		},
	}
	grant := &cobra.Command{
		Use:   "grant-admin <subject>",
		Short: "Назначить роль администратора пользователю (например auth0|123)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), envFile, func(ctx context.Context, e *env) error {
				if err := e.services.Auth.GrantAdmin(ctx, args[0]); err != nil {
					return fmt.Errorf("не удалось назначить роль %s: %w", args[0], err)
				}
				e.log.Info("роль администратора назначена", zap.String("subject", args[0]))
				return nil
			})
		},
	}
	root.AddCommand(serve, migrate, grant)
	root.RunE = serve.RunE
	return root
}

type env struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *sqlx.DB
	services *app.Services
}

func run(ctx context.Context, envFile string, fn func(context.Context, *env) error) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		log.Error("база данных недоступна", zap.Error(err))
		return err
	}
	defer db.Close()

	services, err := app.NewServices(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	if err := fn(ctx, &env{cfg: cfg, log: log, db: db, services: services}); err != nil {
		log.Error("команда завершилась ошибкой", zap.Error(err))
		return err
	}
	return nil
}

func serveAPI(ctx context.Context, e *env) error {
	if _, err := repository.Migrate(ctx, e.db, e.cfg.MigrationsDir, e.log); err != nil {
		return err
	}

	if !e.cfg.LogDev {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.GinMiddleware(e.log.Named("http")))

	h := &handler.Handler{
		Auth:          e.services.Auth,
		Trips:         e.services.Trips,
		Bookings:      e.services.Bookings,
		Cart:          e.services.Cart,
		Concierge:     e.services.Concierge,
		Accommodation: e.services.Accommodation,
		Analytics:     e.services.Analytics,
		Tokens:        handler.NewTokenVerifier(e.cfg.AuthJWTSecret, e.cfg.AuthIssuer, e.cfg.AuthAudience),
		Log:           e.log.Named("handler"),
	}
	if e.cfg.OAuthConfigured() {
		h.OAuth = handler.NewOAuthFlow(&oauth2.Config{
			ClientID:     e.cfg.OAuthClientID,
			ClientSecret: e.cfg.OAuthClientSecret,
			Endpoint:     oauth2.Endpoint{AuthURL: e.cfg.OAuthAuthURL, TokenURL: e.cfg.OAuthTokenURL},
			RedirectURL:  e.cfg.OAuthRedirectURL,
			Scopes:       []string{"openid", "profile", "email", "offline_access"},
		}, []byte(e.cfg.CookieHashKey), e.cfg.LogoutURL)
	} else {
		e.log.Warn("провайдер идентификации не настроен, маршруты /auth недоступны")
	}
	if e.cfg.AuthJWTSecret == "" {
		e.log.Warn("AUTH_JWT_SECRET не задан, все запросы к /api будут отклонены")
	}
	h.Routes(router)

	srv := &http.Server{
		Addr:              ":" + e.cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		e.log.Info("HTTP-сервер запущен", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("ошибка запуска сервера: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	e.log.Info("остановка HTTP-сервера")
	return srv.Shutdown(shutdownCtx)
}
