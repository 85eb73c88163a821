package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileSyncer синхронизирует профиль пользователя по данным токена.
type ProfileSyncer interface {
	SyncProfile(ctx context.Context, id model.Identity) (*model.UserProfile, error)
}

// TripManager - операции над поездками пользователя.
type TripManager interface {
	List(ctx context.Context, userID string) ([]model.Trip, error)
	Get(ctx context.Context, userID, id string) (*model.Trip, error)
	Create(ctx context.Context, userID string, t *model.Trip) error
	Update(ctx context.Context, userID, id string, patch model.TripPatch) (*model.Trip, error)
	Delete(ctx context.Context, userID, id string) error
}

// BookingManager - операции над бронированиями пользователя.
type BookingManager interface {
	List(ctx context.Context, userID string) ([]model.Booking, error)
	Get(ctx context.Context, userID, id string) (*model.Booking, error)
	Create(ctx context.Context, userID string, b *model.Booking) error
	Update(ctx context.Context, userID, id string, patch model.BookingPatch) (*model.Booking, error)
}

// CartManager - корзина Airbnb.
type CartManager interface {
	AddListing(ctx context.Context, userID string, item service.CartItem) (*model.Trip, error)
	Items(ctx context.Context, userID string) ([]model.Trip, error)
	Remove(ctx context.Context, userID, id string) error
	Checkout(ctx context.Context, userID string) ([]model.Booking, error)
}

// Concierge - чат-консьерж.
type Concierge interface {
	Ask(ctx context.Context, userID, message string) (model.ChatReply, error)
	Suggestions(ctx context.Context, userID, query string) (model.ChatReply, error)
	DestinationInfo(ctx context.Context, userID, destination string) (model.ChatReply, error)
	PlanTrip(ctx context.Context, userID string, req service.PlanRequest) (model.ChatReply, error)
}

// ListingSearch - поиск жилья.
type ListingSearch interface {
	Search(ctx context.Context, userID, location, checkin, checkout string) ([]model.Listing, error)
}

// Analytics - журнал событий и отчеты администратора.
type Analytics interface {
	service.Tracker
	Summary(ctx context.Context) (*model.AnalyticsSummary, error)
	RegistrationTrend(ctx context.Context, days int) ([]model.DayCount, error)
	BookingTrend(ctx context.Context, days int) ([]model.DayRevenue, error)
	Role(ctx context.Context, userID string) (string, error)
	RollupDailyMetrics(ctx context.Context, day time.Time) (*model.DailyMetric, error)
	DailyMetrics(ctx context.Context, from, to time.Time) ([]model.DailyMetric, error)
}

// Handler структурирует зависимости сервисов для обработки HTTP-запросов.
type Handler struct {
	Auth          ProfileSyncer
	Trips         TripManager
	Bookings      BookingManager
	Cart          CartManager
	Concierge     Concierge
	Accommodation ListingSearch
	Analytics     Analytics
	Tokens        *TokenVerifier
	OAuth         *OAuthFlow // nil, если провайдер идентификации не настроен
	Log           *zap.Logger
}

// Routes регистрирует маршруты API.
func (h *Handler) Routes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := router.Group("/auth")
	{
		auth.GET("/login", h.Login)
		auth.GET("/callback", h.Callback)
		auth.POST("/refresh", h.Refresh)
		auth.GET("/logout", h.Logout)
	}

	api := router.Group("/api", h.Authenticate)
	{
		api.GET("/me", h.Me)

		api.POST("/chat", h.Chat)
		api.POST("/chat/suggestions", h.ChatSuggestions)
		api.POST("/chat/destination", h.ChatDestination)
		api.POST("/chat/plan", h.ChatPlan)

		api.POST("/airbnb/search", h.SearchListings)

		api.GET("/cart", h.ListCart)
		api.POST("/cart", h.AddToCart)
		api.DELETE("/cart/:id", h.RemoveFromCart)
		api.POST("/cart/checkout", h.Checkout)

		api.GET("/trips", h.ListTrips)
		api.POST("/trips", h.CreateTrip)
		api.GET("/trips/:id", h.GetTrip)
		api.PATCH("/trips/:id", h.UpdateTrip)
		api.DELETE("/trips/:id", h.DeleteTrip)

		api.GET("/bookings", h.ListBookings)
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/:id", h.GetBooking)
		api.PATCH("/bookings/:id", h.UpdateBooking)

		api.POST("/events", h.TrackEvent)

		admin := api.Group("/admin", h.RequireAdmin)
		{
			admin.GET("/summary", h.AdminSummary)
			admin.GET("/trends/users", h.AdminUserTrend)
			admin.GET("/trends/bookings", h.AdminBookingTrend)
			admin.GET("/metrics", h.AdminMetrics)
			admin.POST("/metrics/rollup", h.AdminRollup)
		}
	}
}

// fail переводит ошибку сервиса в HTTP-ответ {"error": "..."}.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Не найдено"})
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUpstream):
		h.Log.Warn("сбой удаленного сервиса", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Сервис поиска временно недоступен"})
	default:
		h.Log.Error("ошибка обработки запроса", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID возвращает параметр :id, если это UUID; иначе отвечает 400.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		badRequest(c, "Некорректный идентификатор")
		return "", false
	}
	return id, true
}
