package handler

import (
	"net/http"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ListBookings обработчик для GET /api/bookings.
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.Bookings.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// CreateBooking обработчик для POST /api/bookings.
func (h *Handler) CreateBooking(c *gin.Context) {
	var booking model.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	if booking.TripID != nil {
		if _, err := uuid.Parse(*booking.TripID); err != nil {
			badRequest(c, "Некорректный trip_id")
			return
		}
	}
	if err := h.Bookings.Create(c.Request.Context(), currentUser(c).ID, &booking); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetBooking обработчик для GET /api/bookings/:id.
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	booking, err := h.Bookings.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBooking обработчик для PATCH /api/bookings/:id.
func (h *Handler) UpdateBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.BookingPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	booking, err := h.Bookings.Update(c.Request.Context(), currentUser(c).ID, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
