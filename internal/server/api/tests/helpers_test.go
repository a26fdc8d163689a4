package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/api"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/middleware"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/clubhouse/internal/server/service/mocks"
	"github.com/IvanChernomyrdin/clubhouse/internal/shared/logger"
)

// Repos — моки всех репозиториев, которые видит Handler.
type Repos struct {
	Users         *svcmocks.MockUsersRepo
	Sessions      *svcmocks.MockSessionsRepo
	Clubs         *svcmocks.MockClubsRepo
	Memberships   *svcmocks.MockMembershipsRepo
	Messages      *svcmocks.MockMessagesRepo
	Notifications *svcmocks.MockNotificationsRepo
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

func testArgon2() crypto.Argon2Params {
	return crypto.Argon2Params{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}
}

// NewTestHandler создаёт Handler с моками и конфигом через dependency injection
func NewTestHandler(t *testing.T) (*api.Handler, Repos) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repos := Repos{
		Users:         svcmocks.NewMockUsersRepo(ctrl),
		Sessions:      svcmocks.NewMockSessionsRepo(ctrl),
		Clubs:         svcmocks.NewMockClubsRepo(ctrl),
		Memberships:   svcmocks.NewMockMembershipsRepo(ctrl),
		Messages:      svcmocks.NewMockMessagesRepo(ctrl),
		Notifications: svcmocks.NewMockNotificationsRepo(ctrl),
	}

	cfg := testConfig()
	svc := service.NewServices(service.Repositories{
		Users:         repos.Users,
		Sessions:      repos.Sessions,
		Clubs:         repos.Clubs,
		Memberships:   repos.Memberships,
		Messages:      repos.Messages,
		Notifications: repos.Notifications,
	}, cfg)

	verifier := middleware.NewJWTVerifier(crypto.JWTConfig{
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		SigningKey: cfg.Auth.JWT.SigningKey,
	}, cfg.Auth.Cookie.AccessName)
	log := logger.New(logger.Options{File: filepath.Join(t.TempDir(), "http.log")})

	return api.NewHandler(svc, log, verifier, cfg), repos
}

// jsonRequest собирает запрос JSON-клиента (без редиректов).
func jsonRequest(method, path string, v any) *http.Request {
	var body []byte
	if v != nil {
		body, _ = json.Marshal(v)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(api.ContentType, api.JsonContentType)
	req.Header.Set("Accept", api.JsonContentType)
	return req
}

// asUser кладёт пользователя сессии в контекст, как это делает AuthMiddleware.
func asUser(req *http.Request, id uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), id))
}
