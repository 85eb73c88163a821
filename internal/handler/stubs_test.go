package handler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/service"
)

type stubAuth struct {
	err error
}

func (s *stubAuth) SyncProfile(_ context.Context, id model.Identity) (*model.UserProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &model.UserProfile{ID: "user-" + id.Subject, Auth0UserID: id.Subject, Email: id.Email}, nil
}

type stubTrips struct {
	mu    sync.Mutex
	trips map[string]model.Trip
}

func (s *stubTrips) List(_ context.Context, userID string) ([]model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Trip{}
	for _, t := range s.trips {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubTrips) Get(_ context.Context, userID, id string) (*model.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[id]
	if !ok || t.UserID != userID {
		return nil, service.ErrNotFound
	}
	return &t, nil
}

func (s *stubTrips) Create(_ context.Context, userID string, t *model.Trip) error {
	if t.Status == "" {
		t.Status = model.StatusPlanning
	}
	if !model.ValidStatus(t.Status) {
		return service.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = uuid.NewString()
	t.UserID = userID
	s.trips[t.ID] = *t
	return nil
}

func (s *stubTrips) Update(ctx context.Context, userID, id string, patch model.TripPatch) (*model.Trip, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[id] = *t
	return t, nil
}

func (s *stubTrips) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trips, id)
	return nil
}

type stubBookings struct{}

func (stubBookings) List(context.Context, string) ([]model.Booking, error) { return []model.Booking{}, nil }

func (stubBookings) Get(context.Context, string, string) (*model.Booking, error) {
	return nil, service.ErrNotFound
}

func (stubBookings) Create(_ context.Context, userID string, b *model.Booking) error {
	b.ID = uuid.NewString()
	b.UserID = userID
	return nil
}

func (stubBookings) Update(context.Context, string, string, model.BookingPatch) (*model.Booking, error) {
	return nil, service.ErrNotFound
}

type stubCart struct {
	items []model.Trip
	added []service.CartItem
}

func (s *stubCart) AddListing(_ context.Context, userID string, item service.CartItem) (*model.Trip, error) {
	s.added = append(s.added, item)
	hotel := item.Listing.Name
	return &model.Trip{ID: uuid.NewString(), UserID: userID, Hotel: &hotel, Status: model.StatusPlanning}, nil
}

func (s *stubCart) Items(context.Context, string) ([]model.Trip, error) { return s.items, nil }

func (s *stubCart) Remove(context.Context, string, string) error { return service.ErrNotFound }

func (s *stubCart) Checkout(context.Context, string) ([]model.Booking, error) {
	if len(s.items) == 0 {
		return nil, service.ErrEmptyCart
	}
	return []model.Booking{{Status: model.StatusConfirmed}}, nil
}

type stubConcierge struct {
	reply    model.ChatReply
	messages []string
}

func (s *stubConcierge) Ask(_ context.Context, _ string, message string) (model.ChatReply, error) {
	if message == "" {
		return model.ChatReply{}, service.ErrEmptyMessage
	}
	s.messages = append(s.messages, message)
	return s.reply, nil
}

func (s *stubConcierge) Suggestions(ctx context.Context, userID, query string) (model.ChatReply, error) {
	return s.Ask(ctx, userID, service.SuggestionsPrompt(query))
}

func (s *stubConcierge) DestinationInfo(ctx context.Context, userID, destination string) (model.ChatReply, error) {
	return s.Ask(ctx, userID, service.DestinationPrompt(destination))
}

func (s *stubConcierge) PlanTrip(ctx context.Context, userID string, req service.PlanRequest) (model.ChatReply, error) {
	return s.Ask(ctx, userID, service.PlanPrompt(req))
}

type stubSearch struct {
	listings []model.Listing
	err      error
}

func (s *stubSearch) Search(context.Context, string, string, string, string) ([]model.Listing, error) {
	return s.listings, s.err
}

type stubAnalytics struct {
	mu     sync.Mutex
	admins map[string]bool
	events []string
	from   time.Time
	to     time.Time
	days   int
}

func (s *stubAnalytics) Track(_ context.Context, _ string, eventType string, _ model.JSONMap) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, eventType)
}

func (s *stubAnalytics) Summary(context.Context) (*model.AnalyticsSummary, error) {
	return &model.AnalyticsSummary{TotalUsers: 3}, nil
}

func (s *stubAnalytics) RegistrationTrend(_ context.Context, days int) ([]model.DayCount, error) {
	s.days = days
	return []model.DayCount{{Date: "2025-01-01", Count: 1}}, nil
}

func (s *stubAnalytics) BookingTrend(_ context.Context, days int) ([]model.DayRevenue, error) {
	s.days = days
	return []model.DayRevenue{}, nil
}

func (s *stubAnalytics) Role(_ context.Context, userID string) (string, error) {
	if s.admins[userID] {
		return model.RoleAdmin, nil
	}
	return model.RoleUser, nil
}

func (s *stubAnalytics) RollupDailyMetrics(_ context.Context, day time.Time) (*model.DailyMetric, error) {
	return &model.DailyMetric{Date: day}, nil
}

func (s *stubAnalytics) DailyMetrics(_ context.Context, from, to time.Time) ([]model.DailyMetric, error) {
	s.from, s.to = from, to
	if to.Before(from) {
		return nil, service.ErrInvalidInput
	}
	return []model.DailyMetric{}, nil
}
