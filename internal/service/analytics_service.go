package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTrendDays = 30
	maxTrendDays     = 365
)

// AnalyticsService ведет журнал событий и строит отчеты для администратора.
type AnalyticsService struct {
	store AnalyticsStore
	users UserStore
	log   *zap.Logger
	now   func() time.Time
}

var _ Tracker = (*AnalyticsService)(nil)

// NewAnalyticsService создает сервис аналитики.
func NewAnalyticsService(store AnalyticsStore, users UserStore, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, users: users, log: log, now: time.Now}
}

// Track записывает событие. Ошибка записи только логируется.
func (s *AnalyticsService) Track(ctx context.Context, userID, eventType string, data model.JSONMap) {
	if userID == "" {
		return
	}
	e := &model.UserEvent{UserID: userID, EventType: eventType, EventData: data}
	if err := s.store.InsertEvent(ctx, e); err != nil {
		s.log.Warn("не удалось записать событие", zap.String("user_id", userID), zap.String("event_type", eventType), zap.Error(err))
	}
}

// Summary собирает сводные показатели. Запросы выполняются параллельно.
func (s *AnalyticsService) Summary(ctx context.Context) (*model.AnalyticsSummary, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var sum model.AnalyticsSummary
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		sum.TotalUsers, err = s.store.CountUsers(ctx, time.Time{})
		return err
	})
	g.Go(func() (err error) {
		sum.TotalBookings, sum.TotalRevenue, err = s.store.BookingTotals(ctx)
		return err
	})
	g.Go(func() (err error) {
		sum.TotalTrips, err = s.store.CountTrips(ctx)
		return err
	})
	g.Go(func() (err error) {
		sum.ChatInteractions, err = s.store.CountEvents(ctx, model.EventChatInteraction)
		return err
	})
	g.Go(func() (err error) {
		sum.NewUsersThisMonth, err = s.store.CountUsers(ctx, monthStart)
		return err
	})
	g.Go(func() (err error) {
		sum.ActiveUsersThisMonth, err = s.store.CountActiveUsers(ctx, monthStart)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sum, nil
}

// RegistrationTrend возвращает число регистраций по дням за последние days дней, от старых к новым.
func (s *AnalyticsService) RegistrationTrend(ctx context.Context, days int) ([]model.DayCount, error) {
	keys, since := s.dayKeys(days)
	created, err := s.store.UserCreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(keys))
	for _, ts := range created {
		counts[ts.UTC().Format(time.DateOnly)]++
	}
	out := make([]model.DayCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.DayCount{Date: k, Count: counts[k]})
	}
	return out, nil
}

// BookingTrend возвращает число бронирований и выручку по дням за последние days дней, от старых к новым.
func (s *AnalyticsService) BookingTrend(ctx context.Context, days int) ([]model.DayRevenue, error) {
	keys, since := s.dayKeys(days)
	points, err := s.store.BookingsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]model.DayRevenue, len(keys))
	for _, p := range points {
		k := p.CreatedAt.UTC().Format(time.DateOnly)
		d := byDay[k]
		d.Count++
		d.Revenue += p.TotalCost
		byDay[k] = d
	}
	out := make([]model.DayRevenue, 0, len(keys))
	for _, k := range keys {
		d := byDay[k]
		d.Date = k
		out = append(out, d)
	}
	return out, nil
}

// dayKeys возвращает даты последних days дней (включая сегодня) и начало первого из них.
func (s *AnalyticsService) dayKeys(days int) ([]string, time.Time) {
	if days <= 0 {
		days = defaultTrendDays
	}
	days = min(days, maxTrendDays)
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(days - 1))
	keys := make([]string, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		keys = append(keys, d.Format(time.DateOnly))
	}
	return keys, since
}

// Role возвращает admin, если у пользователя есть роль администратора, иначе user.
func (s *AnalyticsService) Role(ctx context.Context, userID string) (string, error) {
	roles, err := s.users.Roles(ctx, userID)
	if err != nil {
		return "", err
	}
	if slices.Contains(roles, model.RoleAdmin) {
		return model.RoleAdmin, nil
	}
	return model.RoleUser, nil
}

// RollupDailyMetrics пересчитывает показатели за день.
func (s *AnalyticsService) RollupDailyMetrics(ctx context.Context, day time.Time) (*model.DailyMetric, error) {
	m, err := s.store.UpsertDailyMetric(ctx, day)
	if err != nil {
		return nil, err
	}
	s.log.Info("показатели пересчитаны", zap.String("date", day.Format(time.DateOnly)))
	return m, nil
}

// DailyMetrics возвращает сохраненные показатели за период [from, to].
func (s *AnalyticsService) DailyMetrics(ctx context.Context, from, to time.Time) ([]model.DailyMetric, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: начало периода позже конца", ErrInvalidInput)
	}
	return s.store.ListDailyMetrics(ctx, from, to)
}
