package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/api"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/middleware"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/clubhouse/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/clubhouse/internal/shared/logger"
	"github.com/IvanChernomyrdin/clubhouse/swagger/docs"
)

type testEnv struct {
	router        http.Handler
	cfg           *config.Config
	users         *svcmocks.MockUsersRepo
	sessions      *svcmocks.MockSessionsRepo
	clubs         *svcmocks.MockClubsRepo
	memberships   *svcmocks.MockMembershipsRepo
	notifications *svcmocks.MockNotificationsRepo
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Issuer:     "issuer",
			Audience:   "audience",
			AccessTTL:  1 * time.Minute,
			RefreshTTL: 24 * time.Hour,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456", // >= 32
			},
			Sessions: config.SessionsConfig{
				RotateRefresh:  true,
				ReuseDetection: true,
			},
			Cookie: config.CookieConfig{
				AccessName:  "clubhouse_session",
				RefreshName: "clubhouse_refresh",
				SameSite:    "lax",
			},
		},
		Password: config.PasswordConfig{
			Hasher:    "argon2id",
			MinLength: 8,
			Argon2: config.Argon2Config{
				Time:      1,
				MemoryKiB: 8 * 1024,
				Threads:   1,
				KeyLen:    32,
				SaltLen:   16,
			},
		},
	}
}

// newTestEnv собирает настоящие сервисы, хендлеры и роутер поверх моков репозиториев.
func newTestEnv(t *testing.T, limiter *middleware.RateLimiter) *testEnv {
	t.Helper()

	ctrl := gomock.NewController(t)
	cfg := testConfig()

	env := &testEnv{
		cfg:           cfg,
		users:         svcmocks.NewMockUsersRepo(ctrl),
		sessions:      svcmocks.NewMockSessionsRepo(ctrl),
		clubs:         svcmocks.NewMockClubsRepo(ctrl),
		memberships:   svcmocks.NewMockMembershipsRepo(ctrl),
		notifications: svcmocks.NewMockNotificationsRepo(ctrl),
	}

	svc := service.NewServices(service.Repositories{
		Users:         env.users,
		Sessions:      env.sessions,
		Clubs:         env.clubs,
		Memberships:   env.memberships,
		Messages:      svcmocks.NewMockMessagesRepo(ctrl),
		Notifications: env.notifications,
	}, cfg)

	verifier := middleware.NewJWTVerifier(crypto.JWTConfig{
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		SigningKey: cfg.Auth.JWT.SigningKey,
		AccessTTL:  cfg.Auth.AccessTTL,
	}, cfg.Auth.Cookie.AccessName)
	httpLogger := logger.New(logger.Options{File: filepath.Join(t.TempDir(), "http.log")})

	env.router = NewRouter(api.NewHandler(svc, httpLogger, verifier, cfg), limiter)
	return env
}

func postJSON(path string, v any) *http.Request {
	body, _ := json.Marshal(v)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// регистрация, затем вход с тем же паролем: появляется сессия,
// с её cookie открывается /home
func TestRouter_SignupThenLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	email := "test@example.com"
	password := "StrongPass123"
	userID := uuid.New()

	var stored string
	env.users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User) (uuid.UUID, error) {
			stored = u.PasswordHash
			return userID, nil
		})
	env.users.EXPECT().
		GetByEmail(gomock.Any(), email).
		DoAndReturn(func(context.Context, string) (uuid.UUID, string, error) {
			return userID, stored, nil
		})
	env.sessions.EXPECT().
		Create(gomock.Any(), userID, gomock.Any(), gomock.Any()).
		Return(uuid.New(), nil)

	// signup
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, postJSON("/signup", map[string]string{
		"name": "Test", "dob": "1990-05-01", "email": email, "password": password,
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// login
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, postJSON("/login", map[string]string{"email": email, "password": password}))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	require.Equal(t, "/home", rec.Header().Get("Location"))

	access := sessionCookie(rec, "clubhouse_session")
	require.NotNil(t, access)
	require.True(t, access.HttpOnly)
	require.NotNil(t, sessionCookie(rec, "clubhouse_refresh"))

	// home с cookie сессии
	env.users.EXPECT().GetByID(gomock.Any(), userID).Return(&models.User{ID: userID, Email: email}, nil)
	env.memberships.EXPECT().ListForUser(gomock.Any(), userID).Return([]models.MemberClub{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(access)
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), email)
}

// JSON-клиент получает токены вместо редиректа
func TestRouter_Login_JSONClient(t *testing.T) {
	env := newTestEnv(t, nil)

	userID := uuid.New()
	hash, err := crypto.HashPassword("StrongPass123", crypto.Argon2Params{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	require.NoError(t, err)

	env.users.EXPECT().GetByEmail(gomock.Any(), "test@example.com").Return(userID, hash, nil)
	env.sessions.EXPECT().Create(gomock.Any(), userID, gomock.Any(), gomock.Any()).Return(uuid.New(), nil)

	req := postJSON("/login", map[string]string{"email": "Test@Example.com ", "password": "StrongPass123"})
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.RefreshToken)
	// Мини-проверка, что access похож на JWT (три части через точку)
	require.Equal(t, 2, strings.Count(resp.AccessToken, "."))
}

// неверный пароль: 401, ни cookie, ни refresh-сессии
func TestRouter_Login_WrongPassword_NoSession(t *testing.T) {
	env := newTestEnv(t, nil)

	hash, err := crypto.HashPassword("correct-password", crypto.Argon2Params{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	require.NoError(t, err)

	env.users.EXPECT().GetByEmail(gomock.Any(), "test@example.com").Return(uuid.New(), hash, nil)
	// sessions.Create не ожидается

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, postJSON("/login", map[string]string{"email": "test@example.com", "password": "wrong-password"}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), api.LoginFailedMessage)
	require.Empty(t, rec.Result().Cookies())
}

// защищённый маршрут без сессии уводит на /login
func TestRouter_Protected_RedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/home", "/community", "/messages", "/Chess"} {
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		require.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

// /community не перехватывается страницей клуба /{club}
func TestRouter_StaticRoutesBeatClubPage(t *testing.T) {
	env := newTestEnv(t, nil)
	userID := uuid.New()

	token, err := crypto.NewAccessToken(userID.String(), crypto.JWTConfig{
		Issuer:     "issuer",
		Audience:   "audience",
		SigningKey: env.cfg.Auth.JWT.SigningKey,
		AccessTTL:  time.Minute,
	})
	require.NoError(t, err)

	env.memberships.EXPECT().ListAvailable(gomock.Any(), userID).Return([]models.Club{{ID: 1, Name: "Chess"}}, nil)
	env.clubs.EXPECT().GetByName(gomock.Any(), "Chess").Return(models.Club{ID: 1, Name: "Chess"}, nil)
	env.memberships.EXPECT().IsMember(gomock.Any(), userID, int64(1)).Return(false, nil)

	for _, path := range []string{"/community", "/Chess"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Contains(t, rec.Body.String(), "Chess")
	}
}

// второй запрос сверх burst получает 429
func TestRouter_LoginRateLimited(t *testing.T) {
	env := newTestEnv(t, middleware.NewRateLimiter(1, 1, false))

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{bad json"))
		req.RemoteAddr = "192.0.2.1:5555"
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusBadRequest, send())
	require.Equal(t, http.StatusTooManyRequests, send())
}

func TestRouter_ForgotPassword_NotImplemented(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, postJSON("/forgotpassword", map[string]string{"email": "a@b.io"}))

	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

// каждый маршрут API описан в swagger-документации
func TestRouter_RoutesDocumented(t *testing.T) {
	env := newTestEnv(t, nil)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc))

	routes, ok := env.router.(chi.Routes)
	require.True(t, ok)

	walked := 0
	err := chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if route == "/" || strings.HasPrefix(route, "/swagger/") {
			return nil
		}
		walked++
		ops, ok := doc.Paths[route]
		require.Truef(t, ok, "route %s is missing in swagger docs", route)
		_, ok = ops[strings.ToLower(method)]
		require.Truef(t, ok, "%s %s is missing in swagger docs", method, route)
		return nil
	})
	require.NoError(t, err)
	require.NotZero(t, walked)
}
