package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	crypt "github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
)

// refresh-токен кладётся в cookie как есть
func TestNewRefreshToken_CookieSafe(t *testing.T) {
	tok, err := crypt.NewRefreshToken()
	require.NoError(t, err)
	require.Len(t, tok, 43) // 32 байта в base64url без паддинга

	c := &http.Cookie{Name: "clubhouse_refresh", Value: tok}
	require.NoError(t, c.Valid())
	require.NotContains(t, c.String(), `"`)
}

func TestNewRefreshToken_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		tok, err := crypt.NewRefreshToken()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate refresh token")
		seen[tok] = struct{}{}
	}
}

// по хэшу ищется сессия: один токен всегда даёт один ключ, разные токены разные
func TestHashRefreshToken_LookupKey(t *testing.T) {
	a := crypt.HashRefreshToken("token-a")
	require.Len(t, a, 32)
	require.Equal(t, a, crypt.HashRefreshToken("token-a"))
	require.NotEqual(t, a, crypt.HashRefreshToken("token-b"))
	require.NotContains(t, string(a), "token-a")
}
