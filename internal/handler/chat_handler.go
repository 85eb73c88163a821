package handler

import (
	"net/http"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) reply(c *gin.Context, reply model.ChatReply, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Chat обработчик для POST /api/chat.
func (h *Handler) Chat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	reply, err := h.Concierge.Ask(c.Request.Context(), currentUser(c).ID, req.Message)
	h.reply(c, reply, err)
}

// ChatSuggestions обработчик для POST /api/chat/suggestions.
func (h *Handler) ChatSuggestions(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	reply, err := h.Concierge.Suggestions(c.Request.Context(), currentUser(c).ID, req.Query)
	h.reply(c, reply, err)
}

// ChatDestination обработчик для POST /api/chat/destination.
func (h *Handler) ChatDestination(c *gin.Context) {
	var req struct {
		Destination string `json:"destination"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	reply, err := h.Concierge.DestinationInfo(c.Request.Context(), currentUser(c).ID, req.Destination)
	h.reply(c, reply, err)
}

// ChatPlan обработчик для POST /api/chat/plan.
func (h *Handler) ChatPlan(c *gin.Context) {
	var req service.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	reply, err := h.Concierge.PlanTrip(c.Request.Context(), currentUser(c).ID, req)
	h.reply(c, reply, err)
}

// SearchListings обработчик для POST /api/airbnb/search.
func (h *Handler) SearchListings(c *gin.Context) {
	var req struct {
		Location string `json:"location"`
		Checkin  string `json:"checkin"`
		Checkout string `json:"checkout"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	listings, err := h.Accommodation.Search(c.Request.Context(), currentUser(c).ID, req.Location, req.Checkin, req.Checkout)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}
