package model

import (
	"time"

	"github.com/lib/pq"
)

// Статусы поездок и бронирований.
const (
	StatusPlanning  = "planning"
	StatusConfirmed = "confirmed"
	StatusUpcoming  = "upcoming"
)

// ValidStatus проверяет, что статус входит в допустимый набор.
func ValidStatus(status string) bool {
	switch status {
	case StatusPlanning, StatusConfirmed, StatusUpcoming:
		return true
	}
	return false
}

// Trip представляет планируемую поездку пользователя (в том числе элемент корзины Airbnb).
type Trip struct {
	ID            string         `db:"id" json:"id"`
	UserID        string         `db:"user_id" json:"user_id"`
	Destination   string         `db:"destination" json:"destination"`
	Dates         string         `db:"dates" json:"dates"`
	Status        string         `db:"status" json:"status"` // "planning", "confirmed", "upcoming"
	ImageURL      *string        `db:"image_url" json:"image_url,omitempty"`
	Hotel         *string        `db:"hotel" json:"hotel,omitempty"` // заполнено у элементов корзины
	Travelers     int            `db:"travelers" json:"travelers"`
	EstimatedCost *float64       `db:"estimated_cost" json:"estimated_cost,omitempty"`
	TotalCost     *float64       `db:"total_cost" json:"total_cost,omitempty"`
	Activities    pq.StringArray `db:"activities" json:"activities"`
	Coordinates   *Coordinates   `db:"coordinates" json:"coordinates,omitempty"`
	AddedDate     time.Time      `db:"added_date" json:"added_date"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// TripPatch - частичное обновление поездки; nil означает "не менять".
type TripPatch struct {
	Destination   *string      `json:"destination"`
	Dates         *string      `json:"dates"`
	Status        *string      `json:"status"`
	ImageURL      *string      `json:"image_url"`
	Hotel         *string      `json:"hotel"`
	Travelers     *int         `json:"travelers"`
	EstimatedCost *float64     `json:"estimated_cost"`
	TotalCost     *float64     `json:"total_cost"`
	Activities    []string     `json:"activities"`
	Coordinates   *Coordinates `json:"coordinates"`
}

// Apply переносит заданные поля патча в поездку.
func (p TripPatch) Apply(t *Trip) {
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.Dates != nil {
		t.Dates = *p.Dates
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ImageURL != nil {
		t.ImageURL = p.ImageURL
	}
	if p.Hotel != nil {
		t.Hotel = p.Hotel
	}
	if p.Travelers != nil {
		t.Travelers = *p.Travelers
	}
	if p.EstimatedCost != nil {
		t.EstimatedCost = p.EstimatedCost
	}
	if p.TotalCost != nil {
		t.TotalCost = p.TotalCost
	}
	if p.Activities != nil {
		t.Activities = p.Activities
	}
	if p.Coordinates != nil {
		t.Coordinates = p.Coordinates
	}
}

// InCart сообщает, является ли поездка элементом корзины Airbnb.
func (t *Trip) InCart() bool {
	return t.Status == StatusPlanning && t.Hotel != nil && *t.Hotel != ""
}
