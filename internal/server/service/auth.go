package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// AuthService реализует бизнес-логику аутентификации и управления сессиями.
//
// Ответственность:
//   - регистрация пользователей
//   - аутентификация (логин)
//   - выпуск access / refresh токенов
//   - обновление access токенов по refresh
//   - rotation refresh токенов
//   - reuse detection (защита от повторного использования refresh)
//   - logout
type AuthService struct {
	users    UsersRepo
	sessions SessionsRepo

	hasher    crypto.Hasher
	minPasswd int
	jwt       crypto.JWTConfig

	refreshTTL     time.Duration
	rotateRefresh  bool
	reuseDetection bool
}

// TokenPair представляет пару access / refresh токенов.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput — данные формы регистрации.
type RegisterInput struct {
	Name     string
	DOB      string
	Email    string
	Password string
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, sessions SessionsRepo, cfg *config.Config) *AuthService {
	minLen := cfg.Password.MinLength
	if minLen <= 0 {
		minLen = 8
	}
	return &AuthService{
		users:    users,
		sessions: sessions,

		hasher:    NewHasher(cfg.Password),
		minPasswd: minLen,
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},

		refreshTTL:     cfg.Auth.RefreshTTL,
		rotateRefresh:  cfg.Auth.Sessions.RotateRefresh,
		reuseDetection: cfg.Auth.Sessions.ReuseDetection,
	}
}

// Register регистрирует нового пользователя.
//
// Валидация:
//   - email обязателен и должен быть валидным
//   - пароль обязателен и не короче password.min_length
//   - дата рождения пустая или в формате YYYY-MM-DD
//
// Возвращает:
//   - id пользователя
//   - ErrInvalidInput при некорректных данных или ErrAlreadyExists если email уже зарегистрирован
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	email := normalizeEmail(in.Email)
	password := strings.TrimSpace(in.Password)

	if !emailRe.MatchString(email) || len(password) < s.minPasswd {
		return uuid.Nil, serr.ErrInvalidInput
	}
	dob, err := parseDate(in.DOB)
	if err != nil {
		return uuid.Nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return uuid.Nil, serr.ErrInternal
	}
	return s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		DOB:          dob,
	})
}

// Login аутентифицирует пользователя и выдаёт пару токенов.
//
// Поведение:
//   - не раскрывает факт существования email
//   - при успехе создаёт refresh-сессию
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}
	// получаем юзера по email
	userID, hash, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// не палим существование email
		if errors.Is(err, serr.ErrNotFound) {
			return TokenPair{}, serr.ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	ok, err := crypto.VerifyPassword(password, hash)
	if err != nil {
		return TokenPair{}, serr.ErrInternal
	}
	if !ok {
		return TokenPair{}, serr.ErrInvalidCredentials
	}

	pair, _, err := s.issueSession(ctx, userID, time.Now())
	return pair, err
}

// Refresh обновляет access токен по refresh токену.
//
// Поддерживает:
//   - rotation refresh токенов
//   - reuse detection (отзыв всех сессий при атаке)
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrUnauthorized
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, serr.ErrInvalidInput
	}

	sess, err := s.sessions.GetByRefreshHash(ctx, crypto.HashRefreshToken(refreshToken))
	if err != nil {
		return TokenPair{}, err
	}

	now := time.Now()
	if sess.ExpiresAt.Before(now) {
		return TokenPair{}, serr.ErrUnauthorized
	}

	// если токен уже отозван, значит кто-то пытается переиспользовать
	if sess.RevokedAt != nil {
		if s.reuseDetection {
			if err := s.sessions.RevokeAllForUser(ctx, sess.UserID); err != nil {
				return TokenPair{}, err
			}
		}
		return TokenPair{}, serr.ErrUnauthorized
	}

	// rotate_refresh выключен: новый access, refresh тот же
	if !s.rotateRefresh {
		access, err := crypto.NewAccessToken(sess.UserID.String(), s.jwt)
		if err != nil {
			return TokenPair{}, serr.ErrInternal
		}
		return TokenPair{AccessToken: access, RefreshToken: refreshToken}, nil
	}

	pair, newID, err := s.issueSession(ctx, sess.UserID, now)
	if err != nil {
		return TokenPair{}, err
	}
	// пометить старый как revoked и связать с новым
	if err := s.sessions.RevokeAndReplace(ctx, sess.ID, newID); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Logout отзывает все refresh-сессии пользователя.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RevokeAllForUser(ctx, userID)
}

// issueSession выпускает access токен и новую refresh-сессию.
func (s *AuthService) issueSession(ctx context.Context, userID uuid.UUID, now time.Time) (TokenPair, uuid.UUID, error) {
	access, err := crypto.NewAccessToken(userID.String(), s.jwt)
	if err != nil {
		return TokenPair{}, uuid.Nil, serr.ErrInternal
	}
	refresh, err := crypto.NewRefreshToken()
	if err != nil {
		return TokenPair{}, uuid.Nil, serr.ErrInternal
	}
	id, err := s.sessions.Create(ctx, userID, crypto.HashRefreshToken(refresh), now.Add(s.refreshTTL))
	if err != nil {
		return TokenPair{}, uuid.Nil, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, id, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// parseDate разбирает дату в формате models.DateLayout. Пустая строка -> nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return nil, serr.ErrInvalidInput
	}
	return &t, nil
}
