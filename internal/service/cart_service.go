package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
)

// CartItem - вариант жилья, добавляемый в корзину.
type CartItem struct {
	Listing   model.Listing `json:"listing"`
	Location  string        `json:"location"`
	Checkin   string        `json:"checkin"`
	Checkout  string        `json:"checkout"`
	Travelers int           `json:"travelers"`
}

// CartService - корзина Airbnb. Элементы корзины хранятся как поездки в статусе planning с указанным жильем.
type CartService struct {
	trips    TripStore
	bookings BookingStore
	tracker  Tracker
}

// NewCartService создает сервис корзины.
func NewCartService(trips TripStore, bookings BookingStore, tracker Tracker) *CartService {
	return &CartService{trips: trips, bookings: bookings, tracker: tracker}
}

// AddListing добавляет вариант жилья в корзину пользователя.
func (s *CartService) AddListing(ctx context.Context, userID string, item CartItem) (*model.Trip, error) {
	if strings.TrimSpace(item.Listing.Name) == "" {
		return nil, fmt.Errorf("%w: не указано жилье", ErrInvalidInput)
	}
	if _, _, err := parseStay(item.Checkin, item.Checkout); err != nil {
		return nil, err
	}
	if item.Travelers <= 0 {
		item.Travelers = 1
	}
	destination := strings.TrimSpace(item.Location)
	if destination == "" {
		destination = item.Listing.Name
	}
	hotel := item.Listing.Name
	cost := item.Listing.TotalPrice
	t := &model.Trip{
		UserID:        userID,
		Destination:   destination,
		Dates:         item.Checkin + " - " + item.Checkout,
		Status:        model.StatusPlanning,
		Hotel:         &hotel,
		Travelers:     item.Travelers,
		EstimatedCost: &cost,
		Activities:    []string{},
	}
	if !item.Listing.Coordinates.IsZero() {
		coords := item.Listing.Coordinates
		t.Coordinates = &coords
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Items возвращает элементы корзины в порядке добавления.
func (s *CartService) Items(ctx context.Context, userID string) ([]model.Trip, error) {
	return s.trips.ListCart(ctx, userID)
}

// Total возвращает сумму оценочных стоимостей элементов корзины.
func Total(items []model.Trip) float64 {
	var total float64
	for _, t := range items {
		if t.EstimatedCost != nil {
			total += *t.EstimatedCost
		}
	}
	return total
}

// Remove удаляет элемент из корзины. Поездки вне корзины не затрагиваются.
func (s *CartService) Remove(ctx context.Context, userID, id string) error {
	t, err := s.trips.Get(ctx, userID, id)
	if err != nil {
		return notFound(err)
	}
	if !t.InCart() {
		return ErrNotFound
	}
	return notFound(s.trips.Delete(ctx, userID, id))
}

// Checkout оформляет все элементы корзины как подтвержденные бронирования в одной транзакции.
func (s *CartService) Checkout(ctx context.Context, userID string) ([]model.Booking, error) {
	items, err := s.trips.ListCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	bookings, err := s.bookings.CreateFromTrips(ctx, items)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		// корзину уже оформил параллельный запрос
		return nil, ErrEmptyCart
	}
	var total float64
	for _, b := range bookings {
		total += b.TotalCost
	}
	s.tracker.Track(ctx, userID, model.EventCartCheckout, model.JSONMap{"items": len(bookings), "total": total})
	return bookings, nil
}

// parseStay проверяет даты заезда и выезда в формате YYYY-MM-DD; выезд должен быть позже заезда.
func parseStay(checkin, checkout string) (time.Time, time.Time, error) {
	in, err := time.Parse(time.DateOnly, strings.TrimSpace(checkin))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: дата заезда должна быть в формате YYYY-MM-DD", ErrInvalidInput)
	}
	out, err := time.Parse(time.DateOnly, strings.TrimSpace(checkout))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: дата выезда должна быть в формате YYYY-MM-DD", ErrInvalidInput)
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: дата выезда должна быть позже даты заезда", ErrInvalidInput)
	}
	return in, out, nil
}
