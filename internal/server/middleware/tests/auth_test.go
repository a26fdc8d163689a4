package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/middleware"
)

const cookieName = "clubhouse_session"

func jwtCfg() crypto.JWTConfig {
	return crypto.JWTConfig{
		Issuer:     "issuer",
		Audience:   "aud",
		SigningKey: "secret-secret-secret-secret-32bytes",
		AccessTTL:  time.Minute,
	}
}

// Вспомогательная функция для JWT
func makeToken(t *testing.T, cfg crypto.JWTConfig, sub uuid.UUID) string {
	t.Helper()
	s, err := crypto.NewAccessToken(sub.String(), cfg)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func mustNotCall(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	})
}

// Успех: Bearer
func TestAuthMiddleware_Bearer_OK(t *testing.T) {
	v := middleware.NewJWTVerifier(jwtCfg(), cookieName)
	userID := uuid.New()

	called := false
	handler := v.AuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true

		uid, ok := middleware.UserIDFromContext(r.Context())
		if !ok {
			t.Fatal("user id not found in context")
		}
		if uid != userID {
			t.Fatalf("unexpected user id: %v", uid)
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, jwtCfg(), userID))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, called)
}

// Успех: cookie сессии
func TestAuthMiddleware_Cookie_OK(t *testing.T) {
	v := middleware.NewJWTVerifier(jwtCfg(), cookieName)
	userID := uuid.New()

	var got uuid.UUID
	handler := v.AuthMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = middleware.UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: makeToken(t, jwtCfg(), userID)})
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, userID, got)
}

// Нет токена: редирект на /login
func TestAuthMiddleware_Anonymous_Redirects(t *testing.T) {
	v := middleware.NewJWTVerifier(jwtCfg(), cookieName)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	rr := httptest.NewRecorder()

	v.AuthMiddleware()(mustNotCall(t)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
	require.Equal(t, "/login", rr.Header().Get("Location"))
}

// Испорченная cookie: тоже редирект
func TestAuthMiddleware_BadCookie_Redirects(t *testing.T) {
	v := middleware.NewJWTVerifier(jwtCfg(), cookieName)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "garbage"})
	rr := httptest.NewRecorder()

	v.AuthMiddleware()(mustNotCall(t)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusSeeOther, rr.Code)
}

// Явный плохой Authorization: 401
func TestAuthMiddleware_BadBearer(t *testing.T) {
	v := middleware.NewJWTVerifier(jwtCfg(), cookieName)

	for _, hdr := range []string{"Bearer garbage", "Token abc"} {
		req := httptest.NewRequest(http.MethodGet, "/home", nil)
		req.Header.Set("Authorization", hdr)
		rr := httptest.NewRecorder()

		v.AuthMiddleware()(mustNotCall(t)).ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code, hdr)
		require.Contains(t, rr.Body.String(), `"error"`)
	}
}

// Токен истёк
func TestAuthMiddleware_Expired(t *testing.T) {
	v := middleware.NewJWTVerifier(jwtCfg(), cookieName)

	expired := jwtCfg()
	expired.AccessTTL = -time.Minute

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.Header.Set("Authorization", "Bearer "+makeToken(t, expired, uuid.New()))
	rr := httptest.NewRecorder()

	v.AuthMiddleware()(mustNotCall(t)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Contains(t, rr.Body.String(), "token expired")
}

// Проверка форматов принимаемого токена
func TestExtractBearer(t *testing.T) {
	tests := []struct {
		hdr  string
		want string
	}{
		{"Bearer token", "token"},
		{"bearer token", "token"},
		{"Bearer    token", "token"},
		{"Token token", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := middleware.ExtractBearer(tt.hdr); got != tt.want {
			t.Errorf("ExtractBearer(%q) = %q, want %q", tt.hdr, got, tt.want)
		}
	}
}
