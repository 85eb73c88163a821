package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
)

// TripService содержит бизнес-логику, связанную с планированием поездок.
type TripService struct {
	trips   TripStore
	tracker Tracker
}

// NewTripService создает новый сервис поездок.
func NewTripService(trips TripStore, tracker Tracker) *TripService {
	return &TripService{trips: trips, tracker: tracker}
}

// List возвращает поездки пользователя, новые первыми.
func (s *TripService) List(ctx context.Context, userID string) ([]model.Trip, error) {
	return s.trips.ListByUser(ctx, userID)
}

// Get возвращает поездку пользователя по ID.
func (s *TripService) Get(ctx context.Context, userID, id string) (*model.Trip, error) {
	t, err := s.trips.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// Create создает поездку от имени пользователя. По умолчанию статус planning, один путешественник.
func (s *TripService) Create(ctx context.Context, userID string, t *model.Trip) error {
	t.UserID = userID
	if t.Status == "" {
		t.Status = model.StatusPlanning
	}
	if t.Travelers <= 0 {
		t.Travelers = 1
	}
	if t.Activities == nil {
		t.Activities = []string{}
	}
	if err := validateTrip(t); err != nil {
		return err
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return err
	}
	s.tracker.Track(ctx, userID, model.EventTripCreated, model.JSONMap{"trip_id": t.ID, "destination": t.Destination})
	return nil
}

// Update применяет частичное обновление к поездке пользователя.
func (s *TripService) Update(ctx context.Context, userID, id string, patch model.TripPatch) (*model.Trip, error) {
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(t)
	if err := validateTrip(t); err != nil {
		return nil, err
	}
	if err := s.trips.Update(ctx, t); err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// Delete удаляет поездку пользователя.
func (s *TripService) Delete(ctx context.Context, userID, id string) error {
	return notFound(s.trips.Delete(ctx, userID, id))
}

func validateTrip(t *model.Trip) error {
	if !model.ValidStatus(t.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if strings.TrimSpace(t.Destination) == "" {
		return fmt.Errorf("%w: не указано направление", ErrInvalidInput)
	}
	if t.Travelers < 1 {
		return fmt.Errorf("%w: число путешественников должно быть положительным", ErrInvalidInput)
	}
	return nil
}
