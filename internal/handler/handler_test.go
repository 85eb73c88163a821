package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Koncii-co/koncii-wander-guide/internal/model"
	"github.com/Koncii-co/koncii-wander-guide/internal/service"
)

const testSecret = "test-secret"

type testEnv struct {
	h         *Handler
	router    *gin.Engine
	trips     *stubTrips
	cart      *stubCart
	concierge *stubConcierge
	search    *stubSearch
	analytics *stubAnalytics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		trips:     &stubTrips{trips: map[string]model.Trip{}},
		cart:      &stubCart{},
		concierge: &stubConcierge{},
		search:    &stubSearch{},
		analytics: &stubAnalytics{admins: map[string]bool{}},
	}
	env.h = &Handler{
		Auth:          &stubAuth{},
		Trips:         env.trips,
		Bookings:      stubBookings{},
		Cart:          env.cart,
		Concierge:     env.concierge,
		Accommodation: env.search,
		Analytics:     env.analytics,
		Tokens:        NewTokenVerifier(testSecret, "", ""),
		Log:           zap.NewNop(),
	}
	env.router = gin.New()
	env.h.Routes(env.router)
	return env
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, subject string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if subject != "" {
		req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.MapClaims{"sub": subject}))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
		{name: "expired", header: "Bearer " + signToken(t, jwt.MapClaims{"sub": "a", "exp": time.Now().Add(-time.Hour).Unix()}), want: http.StatusUnauthorized},
		{name: "no subject", header: "Bearer " + signToken(t, jwt.MapClaims{"email": "x@y.z"}), want: http.StatusUnauthorized},
		{name: "valid", header: "Bearer " + signToken(t, jwt.MapClaims{"sub": "auth0|1"}), want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/trips", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	env := newTestEnv(t)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("other"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenVerifier_IssuerAndAudience(t *testing.T) {
	v := NewTokenVerifier(testSecret, "https://issuer/", "wander-api")

	good := signToken(t, jwt.MapClaims{"sub": "auth0|1", "iss": "https://issuer/", "aud": "wander-api", "name": "Ann"})
	id, err := v.Verify(good)
	require.NoError(t, err)
	assert.Equal(t, model.Identity{Subject: "auth0|1", Name: "Ann"}, id)

	_, err = v.Verify(signToken(t, jwt.MapClaims{"sub": "auth0|1", "iss": "https://other/", "aud": "wander-api"}))
	assert.Error(t, err)
	_, err = v.Verify(signToken(t, jwt.MapClaims{"sub": "auth0|1", "iss": "https://issuer/"}))
	assert.Error(t, err)
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)
	env.analytics.admins["user-auth0|boss"] = true

	w := env.do(t, http.MethodGet, "/api/me", "auth0|boss", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[map[string]any](t, w)
	assert.Equal(t, model.RoleAdmin, got["role"])
}

func TestTrips(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/trips", "auth0|1", map[string]any{"destination": "Lisbon", "activities": []string{"surf"}})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[model.Trip](t, w)
	assert.Equal(t, "user-auth0|1", created.UserID)
	assert.Equal(t, []string{"surf"}, []string(created.Activities))

	w = env.do(t, http.MethodGet, "/api/trips/"+created.ID, "auth0|1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/trips/"+created.ID, "auth0|2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Не найдено"}`, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/trips/not-a-uuid", "auth0|1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPatch, "/api/trips/"+created.ID, "auth0|1", map[string]any{"status": "upcoming"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StatusUpcoming, decode[model.Trip](t, w).Status)

	w = env.do(t, http.MethodPost, "/api/trips", "auth0|1", map[string]any{"destination": "Rome", "status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/trips/"+created.ID, "auth0|1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/api/trips/"+created.ID, "auth0|1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookings(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/bookings", "auth0|1", map[string]any{"destination": "Bali", "trip_id": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/bookings", "auth0|1", map[string]any{"destination": "Bali", "trip_id": uuid.NewString()})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodGet, "/api/bookings/"+uuid.NewString(), "auth0|1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)
	env.concierge.reply = model.ChatReply{Status: "success", Segments: []model.Segment{
		{Kind: model.SegmentText, Text: "Hello"},
		{Kind: model.SegmentPlaces, Places: []model.Place{{Name: "Alfama"}}},
	}}

	w := env.do(t, http.MethodPost, "/api/chat", "auth0|1", map[string]string{"message": "hi"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","segments":[{"kind":"text","text":"Hello"},{"kind":"places","places":[{"name":"Alfama"}]}]}`, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/chat", "auth0|1", map[string]string{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/chat/plan", "auth0|1", map[string]any{"destination": "Peru", "duration": "week"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.PlanPrompt(service.PlanRequest{Destination: "Peru", Duration: "week"}), env.concierge.messages[1])
}

func TestSearchListings(t *testing.T) {
	env := newTestEnv(t)
	env.search.listings = []model.Listing{{ID: "1", Name: "Loft"}}

	w := env.do(t, http.MethodPost, "/api/airbnb/search", "auth0|1", map[string]string{"location": "Porto", "checkin": "2025-01-01", "checkout": "2025-01-03"})
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct{ Listings []model.Listing }](t, w)
	assert.Len(t, got.Listings, 1)

	env.search.err = service.ErrUpstream
	w = env.do(t, http.MethodPost, "/api/airbnb/search", "auth0|1", map[string]string{"location": "Porto"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	env.search.err = service.ErrInvalidInput
	w = env.do(t, http.MethodPost, "/api/airbnb/search", "auth0|1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCart(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/cart/checkout", "auth0|1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/cart", "auth0|1", map[string]any{
		"listing": map[string]any{"id": "9", "name": "Cabin", "totalPrice": 300}, "checkin": "2025-02-01", "checkout": "2025-02-03",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, env.cart.added, 1)
	assert.Equal(t, 300.0, env.cart.added[0].Listing.TotalPrice)

	cost := 120.0
	env.cart.items = []model.Trip{{EstimatedCost: &cost}, {EstimatedCost: &cost}}
	w = env.do(t, http.MethodGet, "/api/cart", "auth0|1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 240.0, decode[map[string]any](t, w)["total"])

	w = env.do(t, http.MethodPost, "/api/cart/checkout", "auth0|1", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodDelete, "/api/cart/"+uuid.NewString(), "auth0|1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrackEvent(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/events", "auth0|1", map[string]any{"event_type": "page_view", "event_data": map[string]any{"page": "/trips"}})
	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"page_view"}, env.analytics.events)

	w = env.do(t, http.MethodPost, "/api/events", "auth0|1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.analytics.admins["user-auth0|boss"] = true

	w := env.do(t, http.MethodGet, "/api/admin/summary", "auth0|1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/summary", "auth0|boss", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode[map[string]any](t, w)["totalUsers"])

	w = env.do(t, http.MethodGet, "/api/admin/trends/users?days=7", "auth0|boss", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 7, env.analytics.days)

	w = env.do(t, http.MethodGet, "/api/admin/trends/bookings?days=abc", "auth0|boss", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/metrics?from=2025-01-01&to=2025-01-31", "auth0|boss", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2025-01-01", env.analytics.from.Format(time.DateOnly))

	w = env.do(t, http.MethodGet, "/api/admin/metrics?from=2025-02-01&to=2025-01-01", "auth0|boss", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/metrics/rollup?date=2025-13-01", "auth0|boss", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/admin/metrics/rollup?date=2025-01-15", "auth0|boss", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
