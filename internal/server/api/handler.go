// Package api реализует HTTP-слой сервера clubhouse.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы, редиректы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - выдачу и очистку cookie сессии.
//
// Маршруты регистрирует пакет internal/server/net/http.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/middleware"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/service"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
	"github.com/IvanChernomyrdin/clubhouse/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// Куда ведут навигационные сценарии.
const (
	PathLogin     = "/login"
	PathSignup    = "/signup"
	PathHome      = "/home"
	PathCommunity = "/community"
)

// ErrorResponse стандартный формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Verifier: проверка access-токенов и middleware авторизации;
//   - Cookies: параметры cookie сессии.
type Handler struct {
	Svc      *service.Services
	Log      *logger.HTTPLogger
	Verifier *middleware.JWTVerifier
	Cookies  CookieSettings

	maxBody int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
//
// Из cfg берутся параметры cookie и лимит размера тела запроса.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, verifier *middleware.JWTVerifier, cfg *config.Config) *Handler {
	maxBody := cfg.Server.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return &Handler{
		Svc:      svc,
		Log:      log,
		Verifier: verifier,
		Cookies:  NewCookieSettings(cfg),
		maxBody:  maxBody,
	}
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decode читает JSON-тело запроса не больше maxBody байт.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return serr.ErrBadJSON
	}
	return nil
}

// wantsJSON — клиент попросил JSON вместо редиректа.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), JsonContentType)
}

// navigate завершает навигационный сценарий: браузеру 303 на target,
// JSON-клиенту status и payload.
func navigate(w http.ResponseWriter, r *http.Request, target string, status int, payload any) {
	if wantsJSON(r) {
		if payload == nil {
			w.WriteHeader(status)
			return
		}
		writeJSON(w, status, payload)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// principal возвращает пользователя сессии. Без него отвечает 401.
func principal(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return uuid.Nil, false
	}
	return userID, true
}

// fail отвечает клиенту по доменной ошибке.
//
// Неожиданные ошибки пишутся в лог с op и keysAndValues, клиенту уходит ErrInternal.
func (h *Handler) fail(w http.ResponseWriter, op string, err error, keysAndValues ...any) {
	switch {
	case errors.Is(err, serr.ErrBadJSON):
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
	case errors.Is(err, serr.ErrInvalidInput),
		errors.Is(err, serr.ErrEmptyMessage),
		errors.Is(err, serr.ErrSelfMessage):
		WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, serr.ErrInvalidCredentials),
		errors.Is(err, serr.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, err)
	case errors.Is(err, serr.ErrClubNotFound),
		errors.Is(err, serr.ErrUserNotFound),
		errors.Is(err, serr.ErrNotFound):
		WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, serr.ErrAlreadyExists):
		WriteError(w, http.StatusConflict, err)
	case errors.Is(err, serr.ErrTooManyRequests):
		WriteError(w, http.StatusTooManyRequests, err)
	case errors.Is(err, serr.ErrNotImplemented):
		WriteError(w, http.StatusNotImplemented, err)
	default:
		h.Log.Logger.Sugar().Errorw(op+" failed", append([]any{"error", err}, keysAndValues...)...)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
	}
}
