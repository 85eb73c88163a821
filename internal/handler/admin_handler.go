package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/gin-gonic/gin"
)

const defaultMetricsWindow = 30

// Me обработчик для GET /api/me - профиль текущего пользователя и его роль.
func (h *Handler) Me(c *gin.Context) {
	profile := currentUser(c)
	role, err := h.Analytics.Role(c.Request.Context(), profile.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "role": role})
}

// TrackEvent обработчик для POST /api/events - запись произвольного события клиента.
func (h *Handler) TrackEvent(c *gin.Context) {
	var req struct {
		EventType string        `json:"event_type"`
		EventData model.JSONMap `json:"event_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.EventType) == "" {
		badRequest(c, "Требуется event_type")
		return
	}
	h.Analytics.Track(c.Request.Context(), currentUser(c).ID, req.EventType, req.EventData)
	c.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

// AdminSummary обработчик для GET /api/admin/summary.
func (h *Handler) AdminSummary(c *gin.Context) {
	summary, err := h.Analytics.Summary(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AdminUserTrend обработчик для GET /api/admin/trends/users?days=N.
func (h *Handler) AdminUserTrend(c *gin.Context) {
	days, ok := queryDays(c)
	if !ok {
		return
	}
	trend, err := h.Analytics.RegistrationTrend(c.Request.Context(), days)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// AdminBookingTrend обработчик для GET /api/admin/trends/bookings?days=N.
func (h *Handler) AdminBookingTrend(c *gin.Context) {
	days, ok := queryDays(c)
	if !ok {
		return
	}
	trend, err := h.Analytics.BookingTrend(c.Request.Context(), days)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}

// AdminMetrics обработчик для GET /api/admin/metrics?from=YYYY-MM-DD&to=YYYY-MM-DD.
// По умолчанию - последние 30 дней.
func (h *Handler) AdminMetrics(c *gin.Context) {
	today := truncateDay(time.Now().UTC())
	to, ok := queryDate(c, "to", today)
	if !ok {
		return
	}
	from, ok := queryDate(c, "from", to.AddDate(0, 0, -(defaultMetricsWindow-1)))
	if !ok {
		return
	}
	metrics, err := h.Analytics.DailyMetrics(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// AdminRollup обработчик для POST /api/admin/metrics/rollup?date=YYYY-MM-DD (по умолчанию - сегодня).
func (h *Handler) AdminRollup(c *gin.Context) {
	day, ok := queryDate(c, "date", truncateDay(time.Now().UTC()))
	if !ok {
		return
	}
	metric, err := h.Analytics.RollupDailyMetrics(c.Request.Context(), day)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, metric)
}

func queryDays(c *gin.Context) (int, bool) {
	raw := c.Query("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		badRequest(c, "Параметр days должен быть неотрицательным числом")
		return 0, false
	}
	return days, true
}

func queryDate(c *gin.Context, key string, def time.Time) (time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		badRequest(c, "Параметр "+key+" должен быть в формате YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
