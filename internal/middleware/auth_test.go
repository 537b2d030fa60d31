package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-rental/internal/auth"
	"github.com/ukydev/fleet-rental/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Authenticate(t *testing.T) {
	authService, err := auth.NewService()
	require.NoError(t, err)
	m := NewAuthMiddleware(authService)

	t.Run("signin path skips auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/signin", nil)
		w := httptest.NewRecorder()
		m.Authenticate(okHandler()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("health path skips auth", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		m.Authenticate(okHandler()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		w := httptest.NewRecorder()
		m.Authenticate(okHandler()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		w := httptest.NewRecorder()
		m.Authenticate(okHandler()).ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		user := &models.User{
			ID:    primitive.NewObjectID(),
			Email: "driver@example.com",
			Role:  models.RoleCustomer,
		}
		token, err := authService.GenerateToken(user)
		require.NoError(t, err)

		var seen *models.Claims
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserFromContext(r.Context())
			require.True(t, ok)
			seen = claims
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		m.Authenticate(inner).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, seen)
		assert.Equal(t, user.ID.Hex(), seen.UserID)
		assert.Equal(t, models.RoleCustomer, seen.Role)
	})
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	authService, err := auth.NewService()
	require.NoError(t, err)
	m := NewAuthMiddleware(authService)

	serve := func(role models.Role, required models.Role) int {
		user := &models.User{ID: primitive.NewObjectID(), Email: "x@example.com", Role: role}
		token, err := authService.GenerateToken(user)
		require.NoError(t, err)

		handler := m.Authenticate(m.RequireRole(required)(okHandler()))
		req := httptest.NewRequest(http.MethodPost, "/api/bookings/abc/cancel", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, serve(models.RoleAdmin, models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serve(models.RoleCustomer, models.RoleAdmin))
	// Admin satisfies any role requirement.
	assert.Equal(t, http.StatusOK, serve(models.RoleAdmin, models.RoleCustomer))
}

func TestHasPermission(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/cars", nil)

	// No claims in context.
	assert.False(t, HasPermission(req.Context(), "manage_cars"))
}

func TestRateLimitMiddleware(t *testing.T) {
	m := NewRateLimitMiddleware()
	handler := m.RateLimit(2, 60)(okHandler())

	newReq := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
		req.RemoteAddr = "10.0.0.1:51000"
		return req
	}

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, newReq())
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, newReq())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different client is unaffected.
	other := httptest.NewRequest(http.MethodGet, "/api/cars", nil)
	other.RemoteAddr = "10.0.0.2:51000"
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, other)
	assert.Equal(t, http.StatusOK, w.Code)
}
