package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/repository"
)

type fakeUsers struct {
	mu        sync.Mutex
	byAuth    map[string]*model.UserProfile
	roles     map[string][]string
	updateErr error
	// racer, если задан, сохраняет свой профиль перед вставкой, и Create завершается конфликтом.
	racer     *model.UserProfile
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byAuth: map[string]*model.UserProfile{}, roles: map[string][]string{}}
}

func (f *fakeUsers) Create(_ context.Context, p *model.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.racer != nil {
		cp := *f.racer
		f.byAuth[cp.Auth0UserID] = &cp
		f.racer = nil
		return errConflict
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.byAuth[p.Auth0UserID] = &cp
	return nil
}

func (f *fakeUsers) UpdateByAuthID(_ context.Context, p *model.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	old, ok := f.byAuth[p.Auth0UserID]
	if !ok {
		return sql.ErrNoRows
	}
	p.ID = old.ID
	p.CreatedAt = old.CreatedAt
	p.UpdatedAt = time.Now()
	cp := *p
	f.byAuth[p.Auth0UserID] = &cp
	return nil
}

func (f *fakeUsers) GetByAuthID(_ context.Context, authID string) (*model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byAuth[authID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeUsers) Roles(_ context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.roles[userID]...), nil
}

func (f *fakeUsers) GrantRole(_ context.Context, userID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = append(f.roles[userID], role)
	return nil
}

type fakeTrips struct {
	mu        sync.Mutex
	trips     map[string]model.Trip
	clock     time.Time
	// staleCart, если задан, возвращается из ListCart вместо текущего содержимого корзины.
	staleCart []model.Trip
}

func newFakeTrips() *fakeTrips {
	return &fakeTrips{trips: map[string]model.Trip{}, clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeTrips) sorted(userID string, keep func(model.Trip) bool) []model.Trip {
	out := []model.Trip{}
	for _, t := range f.trips {
		if t.UserID == userID && keep(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (f *fakeTrips) ListByUser(_ context.Context, userID string) ([]model.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(userID, func(model.Trip) bool { return true })
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (f *fakeTrips) ListCart(_ context.Context, userID string) ([]model.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.staleCart != nil {
		return f.staleCart, nil
	}
	return f.sorted(userID, func(t model.Trip) bool { return t.InCart() }), nil
}

func (f *fakeTrips) Get(_ context.Context, userID, id string) (*model.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok || t.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return &t, nil
}

func (f *fakeTrips) Create(_ context.Context, t *model.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Minute)
	t.ID = uuid.NewString()
	t.CreatedAt, t.UpdatedAt, t.AddedDate = f.clock, f.clock, f.clock
	f.trips[t.ID] = *t
	return nil
}

func (f *fakeTrips) Update(_ context.Context, t *model.Trip) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.trips[t.ID]
	if !ok || old.UserID != t.UserID {
		return sql.ErrNoRows
	}
	f.trips[t.ID] = *t
	return nil
}

func (f *fakeTrips) Delete(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.trips[id]
	if !ok || t.UserID != userID {
		return sql.ErrNoRows
	}
	delete(f.trips, id)
	return nil
}

type fakeBookings struct {
	mu        sync.Mutex
	bookings  map[string]model.Booking
	trips     *fakeTrips
	createErr error
}

func newFakeBookings(trips *fakeTrips) *fakeBookings {
	return &fakeBookings{bookings: map[string]model.Booking{}, trips: trips}
}

func (f *fakeBookings) ListByUser(_ context.Context, userID string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Booking{}
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) Get(_ context.Context, userID, id string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return &b, nil
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	b.ID = uuid.NewString()
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookings) Update(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.bookings[b.ID]
	if !ok || old.UserID != b.UserID {
		return sql.ErrNoRows
	}
	f.bookings[b.ID] = *b
	return nil
}

func (f *fakeBookings) CreateFromTrips(ctx context.Context, trips []model.Trip) ([]model.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := make([]model.Booking, 0, len(trips))
	for _, t := range trips {
		current, err := f.trips.Get(ctx, t.UserID, t.ID)
		if err != nil || !current.InCart() {
			continue
		}
		b := model.BookingFromTrip(t)
		if err := f.Create(ctx, &b); err != nil {
			return nil, err
		}
		t.Status = model.StatusConfirmed
		if err := f.trips.Update(ctx, &t); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

type trackedEvent struct {
	UserID string
	Type   string
	Data   model.JSONMap
}

type fakeTracker struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (f *fakeTracker) Track(_ context.Context, userID, eventType string, data model.JSONMap) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, trackedEvent{UserID: userID, Type: eventType, Data: data})
}

func (f *fakeTracker) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []string{}
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeBackend struct {
	body     []byte
	err      error
	messages []string
}

func (f *fakeBackend) Chat(_ context.Context, message string) ([]byte, error) {
	f.messages = append(f.messages, message)
	return f.body, f.err
}

type fakeSearcher struct {
	body  []byte
	err   error
	calls int
}

func (f *fakeSearcher) Search(context.Context, string, string, string) ([]byte, error) {
	f.calls++
	return f.body, f.err
}

type fakeAnalytics struct {
	mu        sync.Mutex
	events    []model.UserEvent
	insertErr error
	users     []time.Time
	bookings  []repository.BookingPoint
	counts    map[string]int
	revenue   float64
	failWith  error
}

func (f *fakeAnalytics) InsertEvent(_ context.Context, e *model.UserEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeAnalytics) get(key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil && key == "trips" {
		return 0, f.failWith
	}
	return f.counts[key], nil
}

func (f *fakeAnalytics) CountUsers(_ context.Context, since time.Time) (int, error) {
	if since.IsZero() {
		return f.get("users")
	}
	return f.get("users_month")
}

func (f *fakeAnalytics) CountTrips(context.Context) (int, error) { return f.get("trips") }

func (f *fakeAnalytics) CountEvents(_ context.Context, eventType string) (int, error) {
	return f.get("events:" + eventType)
}

func (f *fakeAnalytics) CountActiveUsers(context.Context, time.Time) (int, error) {
	return f.get("active_month")
}

func (f *fakeAnalytics) BookingTotals(context.Context) (int, float64, error) {
	n, err := f.get("bookings")
	return n, f.revenue, err
}

func (f *fakeAnalytics) UserCreatedSince(_ context.Context, since time.Time) ([]time.Time, error) {
	out := []time.Time{}
	for _, ts := range f.users {
		if !ts.Before(since) {
			out = append(out, ts)
		}
	}
	return out, nil
}

func (f *fakeAnalytics) BookingsSince(_ context.Context, since time.Time) ([]repository.BookingPoint, error) {
	out := []repository.BookingPoint{}
	for _, p := range f.bookings {
		if !p.CreatedAt.Before(since) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeAnalytics) UpsertDailyMetric(_ context.Context, day time.Time) (*model.DailyMetric, error) {
	return &model.DailyMetric{Date: day, ChatInteractions: f.counts["events:"+model.EventChatInteraction]}, nil
}

func (f *fakeAnalytics) ListDailyMetrics(_ context.Context, from, _ time.Time) ([]model.DailyMetric, error) {
	return []model.DailyMetric{{Date: from}}, nil
}

var (
	errBoom     = errors.New("boom")
	errConflict = errors.New(`duplicate key value violates unique constraint "user_profiles_auth0_user_id_key"`)
)
