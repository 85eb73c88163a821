package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	stateCookie = "wander_oauth_state"
	stateMaxAge = 10 * time.Minute
)

// OAuthFlow - вход через провайдера идентификации (authorization code) и обновление токенов.
type OAuthFlow struct {
	config    *oauth2.Config
	cookies   *securecookie.SecureCookie
	logoutURL func(returnTo string) string
	secure    bool
}

// NewOAuthFlow создает поток входа. hashKey подписывает cookie со state.
func NewOAuthFlow(cfg *oauth2.Config, hashKey []byte, logoutURL func(string) string) *OAuthFlow {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(int(stateMaxAge.Seconds()))
	return &OAuthFlow{
		config:    cfg,
		cookies:   sc,
		logoutURL: logoutURL,
		secure:    strings.HasPrefix(cfg.RedirectURL, "https://"),
	}
}

type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

func newTokenResponse(tok *oauth2.Token) tokenResponse {
	out := tokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
		Expiry:       tok.Expiry,
	}
	if id, ok := tok.Extra("id_token").(string); ok {
		out.IDToken = id
	}
	return out
}

func (h *Handler) oauthReady(c *gin.Context) bool {
	if h.OAuth == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Провайдер идентификации не настроен"})
		return false
	}
	return true
}

// Login перенаправляет пользователя на страницу входа провайдера.
func (h *Handler) Login(c *gin.Context) {
	if !h.oauthReady(c) {
		return
	}
	state := uuid.NewString()
	encoded, err := h.OAuth.cookies.Encode(stateCookie, state)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(stateCookie, encoded, int(stateMaxAge.Seconds()), "/auth", "", h.OAuth.secure, true)
	c.Redirect(http.StatusFound, h.OAuth.config.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// Callback проверяет state и обменивает код авторизации на токены.
func (h *Handler) Callback(c *gin.Context) {
	if !h.oauthReady(c) {
		return
	}
	if e := c.Query("error"); e != "" {
		badRequest(c, c.DefaultQuery("error_description", e))
		return
	}
	cookie, err := c.Cookie(stateCookie)
	if err != nil {
		badRequest(c, "Отсутствует state")
		return
	}
	var state string
	if err := h.OAuth.cookies.Decode(stateCookie, cookie, &state); err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			h.Log.Debug("поврежденная cookie state", zap.Error(err))
		}
		badRequest(c, "Некорректный state")
		return
	}
	if state == "" || state != c.Query("state") {
		badRequest(c, "state не совпадает")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/auth", "", h.OAuth.secure, true)

	code := c.Query("code")
	if code == "" {
		badRequest(c, "Отсутствует код авторизации")
		return
	}
	tok, err := h.OAuth.config.Exchange(c.Request.Context(), code)
	if err != nil {
		h.Log.Warn("не удалось обменять код авторизации", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Не удалось получить токен"})
		return
	}
	c.JSON(http.StatusOK, newTokenResponse(tok))
}

// Refresh выдает новый access token по refresh token.
func (h *Handler) Refresh(c *gin.Context) {
	if !h.oauthReady(c) {
		return
	}
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Требуется refresh_token")
		return
	}
	tok, err := h.OAuth.config.TokenSource(c.Request.Context(), &oauth2.Token{RefreshToken: req.RefreshToken}).Token()
	if err != nil {
		h.Log.Info("не удалось обновить токен", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Не удалось обновить токен"})
		return
	}
	c.JSON(http.StatusOK, newTokenResponse(tok))
}

// Logout перенаправляет на выход у провайдера с возвратом на return_to.
func (h *Handler) Logout(c *gin.Context) {
	if !h.oauthReady(c) {
		return
	}
	target := h.OAuth.logoutURL(c.Query("return_to"))
	if target == "" {
		c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
		return
	}
	c.Redirect(http.StatusFound, target)
}
