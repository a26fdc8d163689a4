// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
)

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userIDKey — ключ контекста, под которым хранится ID аутентифицированного пользователя.
const userIDKey ctxKey = "user_id"

// LoginPath — куда отправляется неаутентифицированный пользователь.
const LoginPath = "/login"

// JWTVerifier определяет пользователя сессии по access-токену.
//
// Токен ищется:
//   - в заголовке Authorization: Bearer <token>
//   - в cookie CookieName, если заголовка нет
type JWTVerifier struct {
	JWT        crypto.JWTConfig
	CookieName string
}

// NewJWTVerifier создаёт новый JWTVerifier с заданными параметрами.
func NewJWTVerifier(cfg crypto.JWTConfig, cookieName string) *JWTVerifier {
	return &JWTVerifier{JWT: cfg, CookieName: cookieName}
}

// UserIDFromContext извлекает userID аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - userID
//   - false, если пользователь не аутентифицирован
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// WithUserID кладёт userID в контекст так же, как это делает AuthMiddleware.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// AuthMiddleware возвращает HTTP middleware для защищённых маршрутов.
//
// Поведение:
//   - явный заголовок Authorization с плохим токеном -> 401
//   - нет заголовка и нет валидной cookie -> 303 на /login
//   - иначе userID кладётся в context.Context
func (v *JWTVerifier) AuthMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if h := r.Header.Get("Authorization"); strings.TrimSpace(h) != "" {
				tokenStr := ExtractBearer(h)
				if tokenStr == "" {
					unauthorized(w, "missing bearer token")
					return
				}
				userID, err := crypto.ParseAccessToken(tokenStr, v.JWT)
				if err != nil {
					if errors.Is(err, crypto.ErrTokenExpired) {
						unauthorized(w, "token expired")
						return
					}
					unauthorized(w, "invalid token")
					return
				}
				next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
				return
			}

			c, err := r.Cookie(v.CookieName)
			if err != nil || c.Value == "" {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			userID, err := crypto.ParseAccessToken(c.Value, v.JWT)
			if err != nil {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeJSONError(w, http.StatusUnauthorized, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
