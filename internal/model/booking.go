package model

import (
	"time"

	"github.com/lib/pq"
)

// Booking представляет подтвержденное бронирование, опционально связанное с поездкой.
type Booking struct {
	ID          string         `db:"id" json:"id"`
	UserID      string         `db:"user_id" json:"user_id"`
	TripID      *string        `db:"trip_id" json:"trip_id,omitempty"`
	Destination string         `db:"destination" json:"destination"`
	Dates       string         `db:"dates" json:"dates"`
	Status      string         `db:"status" json:"status"` // "confirmed", "upcoming", "planning"
	ImageURL    *string        `db:"image_url" json:"image_url,omitempty"`
	Hotel       *string        `db:"hotel" json:"hotel,omitempty"`
	Travelers   int            `db:"travelers" json:"travelers"`
	TotalCost   float64        `db:"total_cost" json:"total_cost"`
	Activities  pq.StringArray `db:"activities" json:"activities"`
	Coordinates *Coordinates   `db:"coordinates" json:"coordinates,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// BookingPatch - частичное обновление бронирования.
type BookingPatch struct {
	Destination *string      `json:"destination"`
	Dates       *string      `json:"dates"`
	Status      *string      `json:"status"`
	ImageURL    *string      `json:"image_url"`
	Hotel       *string      `json:"hotel"`
	Travelers   *int         `json:"travelers"`
	TotalCost   *float64     `json:"total_cost"`
	Activities  []string     `json:"activities"`
	Coordinates *Coordinates `json:"coordinates"`
}

// Apply переносит заданные поля патча в бронирование.
func (p BookingPatch) Apply(b *Booking) {
	if p.Destination != nil {
		b.Destination = *p.Destination
	}
	if p.Dates != nil {
		b.Dates = *p.Dates
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.ImageURL != nil {
		b.ImageURL = p.ImageURL
	}
	if p.Hotel != nil {
		b.Hotel = p.Hotel
	}
	if p.Travelers != nil {
		b.Travelers = *p.Travelers
	}
	if p.TotalCost != nil {
		b.TotalCost = *p.TotalCost
	}
	if p.Activities != nil {
		b.Activities = p.Activities
	}
	if p.Coordinates != nil {
		b.Coordinates = p.Coordinates
	}
}

// BookingFromTrip формирует подтвержденное бронирование из поездки (оформление корзины).
func BookingFromTrip(t Trip) Booking {
	tripID := t.ID
	cost := 0.0
	switch {
	case t.TotalCost != nil:
		cost = *t.TotalCost
	case t.EstimatedCost != nil:
		cost = *t.EstimatedCost
	}
	return Booking{
		UserID:      t.UserID,
		TripID:      &tripID,
		Destination: t.Destination,
		Dates:       t.Dates,
		Status:      StatusConfirmed,
		ImageURL:    t.ImageURL,
		Hotel:       t.Hotel,
		Travelers:   t.Travelers,
		TotalCost:   cost,
		Activities:  t.Activities,
		Coordinates: t.Coordinates,
	}
}
