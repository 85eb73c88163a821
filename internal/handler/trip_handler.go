package handler

import (
	"net/http"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/gin-gonic/gin"
)

// ListTrips обработчик для GET /api/trips.
func (h *Handler) ListTrips(c *gin.Context) {
	trips, err := h.Trips.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

// CreateTrip обработчик для POST /api/trips.
func (h *Handler) CreateTrip(c *gin.Context) {
	var trip model.Trip
	if err := c.ShouldBindJSON(&trip); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	if err := h.Trips.Create(c.Request.Context(), currentUser(c).ID, &trip); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// GetTrip обработчик для GET /api/trips/:id.
func (h *Handler) GetTrip(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	trip, err := h.Trips.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// UpdateTrip обработчик для PATCH /api/trips/:id.
func (h *Handler) UpdateTrip(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch model.TripPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	trip, err := h.Trips.Update(c.Request.Context(), currentUser(c).ID, id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

// DeleteTrip обработчик для DELETE /api/trips/:id.
func (h *Handler) DeleteTrip(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Trips.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
