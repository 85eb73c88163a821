package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/parser"
)

// ListingSearcher - сервис поиска жилья.
type ListingSearcher interface {
	Search(ctx context.Context, location, checkin, checkout string) ([]byte, error)
}

// AccommodationService выполняет поиск жилья и извлекает из ответа варианты.
type AccommodationService struct {
	searcher ListingSearcher
	tracker  Tracker
}

// NewAccommodationService создает сервис поиска жилья.
func NewAccommodationService(searcher ListingSearcher, tracker Tracker) *AccommodationService {
	return &AccommodationService{searcher: searcher, tracker: tracker}
}

// Search ищет жилье в location на даты [checkin, checkout). Сбой сервиса поиска возвращается как ошибка.
func (s *AccommodationService) Search(ctx context.Context, userID, location, checkin, checkout string) ([]model.Listing, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("%w: не указано место", ErrInvalidInput)
	}
	if _, _, err := parseStay(checkin, checkout); err != nil {
		return nil, err
	}
	s.tracker.Track(ctx, userID, model.EventAirbnbSearch, model.JSONMap{
		"location": location, "checkin": checkin, "checkout": checkout,
	})
	raw, err := s.searcher.Search(ctx, location, strings.TrimSpace(checkin), strings.TrimSpace(checkout))
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка поиска жилья: %w", ErrUpstream, err)
	}
	return parser.ParseListings(raw), nil
}
