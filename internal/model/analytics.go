package model

import "time"

// Типы событий аналитики.
const (
	EventChatInteraction = "chat_interaction"
	EventAirbnbSearch    = "airbnb_search"
	EventTripCreated     = "trip_created"
	EventBookingCreated  = "booking_created"
	EventCartCheckout    = "cart_checkout"
)

// UserEvent - запись журнала действий пользователя (таблица user_analytics).
type UserEvent struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	EventType string    `db:"event_type" json:"event_type"`
	EventData JSONMap   `db:"event_data" json:"event_data,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// DailyMetric - агрегированные показатели за день для панели администратора.
type DailyMetric struct {
	ID               string    `db:"id" json:"id"`
	Date             time.Time `db:"date" json:"date"`
	NewUsers         int       `db:"new_users" json:"new_users"`
	ActiveUsers      int       `db:"active_users" json:"active_users"`
	TotalBookings    int       `db:"total_bookings" json:"total_bookings"`
	TotalTrips       int       `db:"total_trips" json:"total_trips"`
	TotalRevenue     float64   `db:"total_revenue" json:"total_revenue"`
	ChatInteractions int       `db:"chat_interactions" json:"chat_interactions"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// AnalyticsSummary - сводка для панели администратора.
type AnalyticsSummary struct {
	TotalUsers           int     `json:"totalUsers"`
	TotalBookings        int     `json:"totalBookings"`
	TotalTrips           int     `json:"totalTrips"`
	TotalRevenue         float64 `json:"totalRevenue"`
	ChatInteractions     int     `json:"chatInteractions"`
	NewUsersThisMonth    int     `json:"newUsersThisMonth"`
	ActiveUsersThisMonth int     `json:"activeUsersThisMonth"`
}

// DayCount - точка графика регистраций.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DayRevenue - точка графика бронирований.
type DayRevenue struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}
