package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxMessageLen = 4096
	maxListings   = 5
	cartPrefix    = "CART_"
)

func esc(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// formatPlace - карточка места: название, адрес, рейтинг, особенности и ссылка на карту.
func formatPlace(p model.Place) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*", esc(p.Name))
	if p.Address != "" {
		fmt.Fprintf(&b, "\n📍 %s", esc(p.Address))
	}
	if p.Rating != "" {
		fmt.Fprintf(&b, "\n⭐ %s", esc(p.Rating))
	}
	for _, h := range p.Highlights {
		fmt.Fprintf(&b, "\n• %s", esc(h))
	}
	if p.Coordinates != nil {
		fmt.Fprintf(&b, "\n[Открыть в картах](https://maps.google.com/?q=%f,%f)", p.Coordinates.Lat, p.Coordinates.Lng)
	}
	return b.String()
}

// formatListing - строка с вариантом жилья в результатах поиска.
func formatListing(n int, l model.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. *%s*", n, esc(l.Name))
	if l.Rating != nil {
		fmt.Fprintf(&b, "\n⭐ %s", strconv.FormatFloat(*l.Rating, 'f', -1, 64))
		if l.ReviewCount != nil {
			fmt.Fprintf(&b, " (%d)", *l.ReviewCount)
		}
	}
	if l.PricePerNight > 0 || l.TotalPrice > 0 {
		fmt.Fprintf(&b, "\n💵 $%.2f за ночь, $%.2f всего", l.PricePerNight, l.TotalPrice)
	}
	if l.FreeCancellation {
		b.WriteString("\nБесплатная отмена")
	}
	if l.URL != "" {
		fmt.Fprintf(&b, "\n[Открыть на Airbnb](%s)", l.URL)
	}
	return b.String()
}

// formatTrip - строка поездки или элемента корзины.
func formatTrip(t model.Trip) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*", esc(t.Destination))
	if t.Hotel != nil && *t.Hotel != "" {
		fmt.Fprintf(&b, " - %s", esc(*t.Hotel))
	}
	if t.Dates != "" {
		fmt.Fprintf(&b, "\n%s", esc(t.Dates))
	}
	fmt.Fprintf(&b, "\nСтатус: %s", t.Status)
	if t.EstimatedCost != nil {
		fmt.Fprintf(&b, ", оценка $%.2f", *t.EstimatedCost)
	}
	return b.String()
}

// formatBooking - строка бронирования.
func formatBooking(bk model.Booking) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*", esc(bk.Destination))
	if bk.Hotel != nil && *bk.Hotel != "" {
		fmt.Fprintf(&b, " - %s", esc(*bk.Hotel))
	}
	if bk.Dates != "" {
		fmt.Fprintf(&b, "\n%s", esc(bk.Dates))
	}
	fmt.Fprintf(&b, "\nСтатус: %s, $%.2f", bk.Status, bk.TotalCost)
	return b.String()
}

// parseSearchArgs разбирает аргументы /search <город> <заезд> <выезд>; город может состоять из нескольких слов.
func parseSearchArgs(args string) (location, checkin, checkout string, ok bool) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		return "", "", "", false
	}
	n := len(fields)
	return strings.Join(fields[:n-2], " "), fields[n-2], fields[n-1], true
}

// splitMessage делит текст на части не длиннее limit байт, по возможности по переводам строк.
func splitMessage(text string, limit int) []string {
	var parts []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
		}
		parts = append(parts, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}
