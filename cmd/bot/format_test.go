package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
)

func TestParseSearchArgs(t *testing.T) {
	tests := []struct {
		in       string
		location string
		checkin  string
		checkout string
		ok       bool
	}{
		{in: "Lisbon 2025-06-01 2025-06-05", location: "Lisbon", checkin: "2025-06-01", checkout: "2025-06-05", ok: true},
		{in: "  Rio de Janeiro 2025-01-01  2025-01-03 ", location: "Rio de Janeiro", checkin: "2025-01-01", checkout: "2025-01-03", ok: true},
		{in: "Lisbon 2025-06-01"},
		{in: ""},
	}
	for _, tt := range tests {
		location, checkin, checkout, ok := parseSearchArgs(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.location, location, tt.in)
		assert.Equal(t, tt.checkin, checkin, tt.in)
		assert.Equal(t, tt.checkout, checkout, tt.in)
	}
}

func TestFormatPlace(t *testing.T) {
	got := formatPlace(model.Place{
		Name:        "Cafe_Luso",
		Address:     "Rua *Bela*",
		Rating:      "4.5",
		Highlights:  []string{"Fado"},
		Coordinates: &model.Coordinates{Lat: 1.5, Lng: 2.25},
	})

	assert.Equal(t, "*Cafe\\_Luso*\n📍 Rua \\*Bela\\*\n⭐ 4.5\n• Fado\n[Открыть в картах](https://maps.google.com/?q=1.500000,2.250000)", got)
}

func TestFormatListing(t *testing.T) {
	rating, reviews := 4.9, 120
	got := formatListing(2, model.Listing{
		Name: "Sunny Loft", Rating: &rating, ReviewCount: &reviews, PricePerNight: 100, TotalPrice: 500,
		FreeCancellation: true, URL: "https://www.airbnb.com/rooms/1",
	})

	assert.Equal(t, "2. *Sunny Loft*\n⭐ 4.9 (120)\n💵 $100.00 за ночь, $500.00 всего\nБесплатная отмена\n[Открыть на Airbnb](https://www.airbnb.com/rooms/1)", got)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))
	assert.Nil(t, splitMessage("", 10))
	assert.Equal(t, []string{"aaaa", "bbbb"}, splitMessage("aaaa\nbbbb", 6))
	assert.Equal(t, []string{"abcdef", "ghij"}, splitMessage("abcdefghij", 6))

	parts := splitMessage(strings.Repeat("я", 5), 5)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 5)
		assert.True(t, strings.HasPrefix(p, "я"))
	}
	assert.Equal(t, strings.Repeat("я", 5), strings.Join(parts, ""))
}

func TestSessionStore(t *testing.T) {
	s := newSessionStore(sessionTTL)
	s.Save(1, searchSession{Location: "Oslo", Listings: []model.Listing{{Name: "A"}}})

	sess, l, ok := s.Listing(1, 0)
	assert.True(t, ok)
	assert.Equal(t, "Oslo", sess.Location)
	assert.Equal(t, "A", l.Name)

	_, _, ok = s.Listing(1, 1)
	assert.False(t, ok)
	_, _, ok = s.Listing(2, 0)
	assert.False(t, ok)

	s.Clear(1)
	_, _, ok = s.Listing(1, 0)
	assert.False(t, ok)
}

func TestSessionStore_Expires(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := newSessionStore(time.Hour)
	s.now = func() time.Time { return now }

	s.Save(1, searchSession{Location: "Oslo", Listings: []model.Listing{{Name: "A"}}})
	now = now.Add(30 * time.Minute)
	s.Save(2, searchSession{Location: "Rome", Listings: []model.Listing{{Name: "B"}}})

	now = now.Add(45 * time.Minute)
	_, _, ok := s.Listing(1, 0)
	assert.False(t, ok)
	_, _, ok = s.Listing(2, 0)
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	s.Save(3, searchSession{Location: "Nice"})
	assert.Len(t, s.sessions, 1)
}
