package tests

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
)

func testJWTConfig() crypt.JWTConfig {
	return crypt.JWTConfig{
		Issuer:     "clubhouse",
		Audience:   "clubhouse-web",
		SigningKey: "supersecretkeysupersecretkey123456",
		AccessTTL:  5 * time.Minute,
	}
}

func TestNewAccessToken_Success(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	userID := uuid.New().String()

	tokenStr, err := crypt.NewAccessToken(userID, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				t.Fatalf("unexpected signing method: %v", token.Method)
			}
			return []byte(cfg.SigningKey), nil
		},
	)
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		t.Fatal("claims type assertion failed")
	}

	if claims.Subject != userID {
		t.Fatalf("expected subject %q, got %q", userID, claims.Subject)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %q, got %q", cfg.Issuer, claims.Issuer)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != cfg.Audience {
		t.Fatalf("expected audience %q, got %v", cfg.Audience, claims.Audience)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) <= 0 {
		t.Fatal("token already expired")
	}
}

// полный цикл выпуск -> проверка
func TestParseAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	userID := uuid.New()

	tokenStr, err := crypt.NewAccessToken(userID.String(), cfg)
	require.NoError(t, err)

	got, err := crypt.ParseAccessToken(tokenStr, cfg)
	require.NoError(t, err)
	require.Equal(t, userID, got)
}

func TestParseAccessToken_WrongKey(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	tokenStr, err := crypt.NewAccessToken(uuid.New().String(), cfg)
	require.NoError(t, err)

	other := cfg
	other.SigningKey = "anothersecretkeyanothersecretkey1234"

	_, err = crypt.ParseAccessToken(tokenStr, other)
	require.ErrorIs(t, err, crypt.ErrTokenInvalid)
}

func TestParseAccessToken_WrongAudience(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	tokenStr, err := crypt.NewAccessToken(uuid.New().String(), cfg)
	require.NoError(t, err)

	other := cfg
	other.Audience = "someone-else"

	_, err = crypt.ParseAccessToken(tokenStr, other)
	require.ErrorIs(t, err, crypt.ErrTokenInvalid)
}

// sub должен быть UUID
func TestParseAccessToken_SubjectNotUUID(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()

	tokenStr, err := crypt.NewAccessToken("user-123", cfg)
	require.NoError(t, err)

	_, err = crypt.ParseAccessToken(tokenStr, cfg)
	require.ErrorIs(t, err, crypt.ErrTokenInvalid)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()
	cfg := testJWTConfig()
	cfg.AccessTTL = -time.Minute

	tokenStr, err := crypt.NewAccessToken(uuid.New().String(), cfg)
	require.NoError(t, err)

	_, err = crypt.ParseAccessToken(tokenStr, cfg)
	require.ErrorIs(t, err, crypt.ErrTokenExpired)
}
