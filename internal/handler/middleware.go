package handler

import (
	"net/http"
	"strings"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const profileKey = "profile"

// Authenticate проверяет bearer-токен и сохраняет синхронизированный профиль в контексте запроса.
func (h *Handler) Authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется авторизация"})
		return
	}
	identity, err := h.Tokens.Verify(strings.TrimSpace(raw))
	if err != nil {
		h.Log.Debug("отклонен токен", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен"})
		return
	}
	profile, err := h.Auth.SyncProfile(c.Request.Context(), identity)
	if err != nil {
		h.fail(c, err)
		c.Abort()
		return
	}
	c.Set(profileKey, profile)
	c.Next()
}

// RequireAdmin пропускает только пользователей с ролью admin.
func (h *Handler) RequireAdmin(c *gin.Context) {
	role, err := h.Analytics.Role(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		c.Abort()
		return
	}
	if role != model.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Доступ только для администраторов"})
		return
	}
	c.Next()
}

func currentUser(c *gin.Context) *model.UserProfile {
	return c.MustGet(profileKey).(*model.UserProfile)
}
