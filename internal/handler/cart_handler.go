package handler

import (
	"net/http"

	"github.com/Koncii-co/koncii-wander-guide/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCart обработчик для GET /api/cart - элементы корзины и итоговая сумма.
func (h *Handler) ListCart(c *gin.Context) {
	items, err := h.Cart.Items(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": service.Total(items)})
}

// AddToCart обработчик для POST /api/cart.
func (h *Handler) AddToCart(c *gin.Context) {
	var item service.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		badRequest(c, "Некорректное тело запроса")
		return
	}
	trip, err := h.Cart.AddListing(c.Request.Context(), currentUser(c).ID, item)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, trip)
}

// RemoveFromCart обработчик для DELETE /api/cart/:id.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Cart.Remove(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout обработчик для POST /api/cart/checkout.
func (h *Handler) Checkout(c *gin.Context) {
	bookings, err := h.Cart.Checkout(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bookings": bookings})
}
