// Package app собирает репозитории, клиентов удаленных сервисов и бизнес-сервисы.
// Используется и HTTP API, и Telegram-ботом.
package app

import (
	"context"
	"fmt"

	"github.com/Koncii-co/koncii-wander-guide/internal/client"
	"github.com/Koncii-co/koncii-wander-guide/internal/config"
	"github.com/Koncii-co/koncii-wander-guide/internal/repository"
	"github.com/Koncii-co/koncii-wander-guide/internal/service"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL драйвер
	"go.uber.org/zap"
)

// Services - набор сервисов приложения.
type Services struct {
	Auth          *service.AuthService
	Trips         *service.TripService
	Bookings      *service.BookingService
	Cart          *service.CartService
	Concierge     *service.ConciergeService
	Accommodation *service.AccommodationService
	Analytics     *service.AnalyticsService
}

// OpenDB подключается к PostgreSQL.
func OpenDB(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}
	return db, nil
}

// ChatBackend выбирает источник ответов консьержа по CHAT_BACKEND.
func ChatBackend(ctx context.Context, cfg *config.Config, log *zap.Logger) (client.ChatBackend, error) {
	if cfg.ChatBackend == "gemini" {
		return client.NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	return client.NewChatClient(cfg.ChatAPIURL, httpOptions(cfg, log)...), nil
}

func httpOptions(cfg *config.Config, log *zap.Logger) []client.Option {
	return []client.Option{
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithRetryAttempts(cfg.HTTPRetryAttempts),
		client.WithLogger(log),
	}
}

// NewServices инициализирует репозитории и сервисы.
func NewServices(ctx context.Context, cfg *config.Config, db *sqlx.DB, log *zap.Logger) (*Services, error) {
	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	backend, err := ChatBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	airbnb := client.NewAirbnbClient(cfg.AirbnbAPIURL, httpOptions(cfg, log)...)

	analytics := service.NewAnalyticsService(analyticsRepo, userRepo, log.Named("analytics"))
	return &Services{
		Auth:          service.NewAuthService(userRepo, log.Named("auth")),
		Trips:         service.NewTripService(tripRepo, analytics),
		Bookings:      service.NewBookingService(bookingRepo, tripRepo, analytics),
		Cart:          service.NewCartService(tripRepo, bookingRepo, analytics),
		Concierge:     service.NewConciergeService(backend, analytics, log.Named("concierge")),
		Accommodation: service.NewAccommodationService(airbnb, analytics),
		Analytics:     analytics,
	}, nil
}
