package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/jmoiron/sqlx"
)

// BookingPoint - дата создания и стоимость бронирования для графика выручки.
type BookingPoint struct {
	CreatedAt time.Time `db:"created_at"`
	TotalCost float64   `db:"total_cost"`
}

// AnalyticsRepository обеспечивает запись событий и агрегатные запросы для панели администратора.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository создает новый репозиторий аналитики.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// InsertEvent сохраняет событие пользователя.
func (r *AnalyticsRepository) InsertEvent(ctx context.Context, e *model.UserEvent) error {
	err := r.db.QueryRowxContext(ctx,
		"INSERT INTO user_analytics (user_id, event_type, event_data) VALUES ($1, $2, $3) RETURNING *",
		e.UserID, e.EventType, e.EventData).StructScan(e)
	if err != nil {
		return fmt.Errorf("не удалось сохранить событие: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("ошибка агрегатного запроса: %w", err)
	}
	return n, nil
}

// CountUsers возвращает число профилей, созданных начиная с since (нулевое время - все).
func (r *AnalyticsRepository) CountUsers(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM user_profiles WHERE created_at >= $1", since)
}

// CountTrips возвращает общее число поездок.
func (r *AnalyticsRepository) CountTrips(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM trips")
}

// CountEvents возвращает число событий заданного типа.
func (r *AnalyticsRepository) CountEvents(ctx context.Context, eventType string) (int, error) {
	return r.count(ctx, "SELECT COUNT(*) FROM user_analytics WHERE event_type=$1", eventType)
}

// CountActiveUsers возвращает число пользователей, у которых были события начиная с since.
func (r *AnalyticsRepository) CountActiveUsers(ctx context.Context, since time.Time) (int, error) {
	return r.count(ctx, "SELECT COUNT(DISTINCT user_id) FROM user_analytics WHERE created_at >= $1", since)
}

// BookingTotals возвращает число бронирований и суммарную выручку.
func (r *AnalyticsRepository) BookingTotals(ctx context.Context) (int, float64, error) {
	var row struct {
		Count   int     `db:"count"`
		Revenue float64 `db:"revenue"`
	}
	err := r.db.GetContext(ctx, &row, "SELECT COUNT(*) AS count, COALESCE(SUM(total_cost), 0) AS revenue FROM bookings")
	if err != nil {
		return 0, 0, fmt.Errorf("ошибка при подсчете бронирований: %w", err)
	}
	return row.Count, row.Revenue, nil
}

// UserCreatedSince возвращает даты регистрации пользователей начиная с since.
func (r *AnalyticsRepository) UserCreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	out := []time.Time{}
	err := r.db.SelectContext(ctx, &out, "SELECT created_at FROM user_profiles WHERE created_at >= $1 ORDER BY created_at", since)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении регистраций: %w", err)
	}
	return out, nil
}

// BookingsSince возвращает бронирования (дата, стоимость) начиная с since.
func (r *AnalyticsRepository) BookingsSince(ctx context.Context, since time.Time) ([]BookingPoint, error) {
	out := []BookingPoint{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT created_at, total_cost FROM bookings WHERE created_at >= $1 ORDER BY created_at", since)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении бронирований: %w", err)
	}
	return out, nil
}

// UpsertDailyMetric пересчитывает показатели за день day (UTC) и сохраняет их в daily_metrics.
func (r *AnalyticsRepository) UpsertDailyMetric(ctx context.Context, day time.Time) (*model.DailyMetric, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	query := `INSERT INTO daily_metrics (date, new_users, active_users, total_bookings, total_trips, total_revenue, chat_interactions)
	          SELECT $1::date,
	                 (SELECT COUNT(*) FROM user_profiles WHERE created_at >= $2 AND created_at < $3),
	                 (SELECT COUNT(DISTINCT user_id) FROM user_analytics WHERE created_at >= $2 AND created_at < $3),
	                 (SELECT COUNT(*) FROM bookings WHERE created_at >= $2 AND created_at < $3),
	                 (SELECT COUNT(*) FROM trips WHERE created_at >= $2 AND created_at < $3),
	                 (SELECT COALESCE(SUM(total_cost), 0) FROM bookings WHERE created_at >= $2 AND created_at < $3),
	                 (SELECT COUNT(*) FROM user_analytics WHERE event_type = $4 AND created_at >= $2 AND created_at < $3)
	          ON CONFLICT (date) DO UPDATE SET
	                 new_users = EXCLUDED.new_users,
	                 active_users = EXCLUDED.active_users,
	                 total_bookings = EXCLUDED.total_bookings,
	                 total_trips = EXCLUDED.total_trips,
	                 total_revenue = EXCLUDED.total_revenue,
	                 chat_interactions = EXCLUDED.chat_interactions,
	                 updated_at = now()
	          RETURNING *`
	var m model.DailyMetric
	if err := r.db.QueryRowxContext(ctx, query, start.Format(time.DateOnly), start, end, model.EventChatInteraction).StructScan(&m); err != nil {
		return nil, fmt.Errorf("не удалось пересчитать показатели за %s: %w", start.Format(time.DateOnly), err)
	}
	return &m, nil
}

// ListDailyMetrics возвращает сохраненные показатели за период [from, to].
func (r *AnalyticsRepository) ListDailyMetrics(ctx context.Context, from, to time.Time) ([]model.DailyMetric, error) {
	out := []model.DailyMetric{}
	err := r.db.SelectContext(ctx, &out,
		"SELECT * FROM daily_metrics WHERE date >= $1::date AND date <= $2::date ORDER BY date",
		from.Format(time.DateOnly), to.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении показателей: %w", err)
	}
	return out, nil
}
