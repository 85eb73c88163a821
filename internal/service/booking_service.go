package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
)

// BookingService содержит бизнес-логику, связанную с бронированиями.
type BookingService struct {
	bookings BookingStore
	trips    TripStore
	tracker  Tracker
}

// NewBookingService создает новый сервис бронирований.
func NewBookingService(bookings BookingStore, trips TripStore, tracker Tracker) *BookingService {
	return &BookingService{bookings: bookings, trips: trips, tracker: tracker}
}

// List возвращает бронирования пользователя, новые первыми.
func (s *BookingService) List(ctx context.Context, userID string) ([]model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Get возвращает бронирование пользователя по ID.
func (s *BookingService) Get(ctx context.Context, userID, id string) (*model.Booking, error) {
	b, err := s.bookings.Get(ctx, userID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

// Create создает бронирование. Связанная поездка, если указана, должна принадлежать пользователю.
func (s *BookingService) Create(ctx context.Context, userID string, b *model.Booking) error {
	b.UserID = userID
	if b.Status == "" {
		b.Status = model.StatusConfirmed
	}
	if b.Travelers <= 0 {
		b.Travelers = 1
	}
	if b.Activities == nil {
		b.Activities = []string{}
	}
	if err := validateBooking(b); err != nil {
		return err
	}
	if b.TripID != nil {
		if _, err := s.trips.Get(ctx, userID, *b.TripID); err != nil {
			return notFound(err)
		}
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return err
	}
	s.tracker.Track(ctx, userID, model.EventBookingCreated, model.JSONMap{"booking_id": b.ID, "total_cost": b.TotalCost})
	return nil
}

// Update применяет частичное обновление к бронированию пользователя.
func (s *BookingService) Update(ctx context.Context, userID, id string, patch model.BookingPatch) (*model.Booking, error) {
	b, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(b)
	if err := validateBooking(b); err != nil {
		return nil, err
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func validateBooking(b *model.Booking) error {
	if !model.ValidStatus(b.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, b.Status)
	}
	if strings.TrimSpace(b.Destination) == "" {
		return fmt.Errorf("%w: не указано направление", ErrInvalidInput)
	}
	if b.TotalCost < 0 {
		return fmt.Errorf("%w: отрицательная стоимость", ErrInvalidInput)
	}
	if b.Travelers < 1 {
		return fmt.Errorf("%w: число путешественников должно быть положительным", ErrInvalidInput)
	}
	return nil
}
