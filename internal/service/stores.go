package service

import (
	"context"
	"time"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/repository"
)

// UserStore - хранилище профилей и ролей.
type UserStore interface {
	Create(ctx context.Context, p *model.UserProfile) error
	UpdateByAuthID(ctx context.Context, p *model.UserProfile) error
	GetByAuthID(ctx context.Context, authID string) (*model.UserProfile, error)
	Roles(ctx context.Context, userID string) ([]string, error)
	GrantRole(ctx context.Context, userID, role string) error
}

// TripStore - хранилище поездок.
type TripStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Trip, error)
	ListCart(ctx context.Context, userID string) ([]model.Trip, error)
	Get(ctx context.Context, userID, id string) (*model.Trip, error)
	Create(ctx context.Context, t *model.Trip) error
	Update(ctx context.Context, t *model.Trip) error
	Delete(ctx context.Context, userID, id string) error
}

// BookingStore - хранилище бронирований.
type BookingStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	Get(ctx context.Context, userID, id string) (*model.Booking, error)
	Create(ctx context.Context, b *model.Booking) error
	Update(ctx context.Context, b *model.Booking) error
	CreateFromTrips(ctx context.Context, trips []model.Trip) ([]model.Booking, error)
}

// AnalyticsStore - журнал событий и агрегаты для администратора.
type AnalyticsStore interface {
	InsertEvent(ctx context.Context, e *model.UserEvent) error
	CountUsers(ctx context.Context, since time.Time) (int, error)
	CountTrips(ctx context.Context) (int, error)
	CountEvents(ctx context.Context, eventType string) (int, error)
	CountActiveUsers(ctx context.Context, since time.Time) (int, error)
	BookingTotals(ctx context.Context) (int, float64, error)
	UserCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error)
	BookingsSince(ctx context.Context, since time.Time) ([]repository.BookingPoint, error)
	UpsertDailyMetric(ctx context.Context, day time.Time) (*model.DailyMetric, error)
	ListDailyMetrics(ctx context.Context, from, to time.Time) ([]model.DailyMetric, error)
}

// Tracker записывает события аналитики. Ошибки записи вызывающему не возвращаются.
type Tracker interface {
	Track(ctx context.Context, userID, eventType string, data model.JSONMap)
}

var (
	_ UserStore      = (*repository.UserRepository)(nil)
	_ TripStore      = (*repository.TripRepository)(nil)
	_ BookingStore   = (*repository.BookingRepository)(nil)
	_ AnalyticsStore = (*repository.AnalyticsRepository)(nil)
)
