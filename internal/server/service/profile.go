package service

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// username попадает в путь /view_conversation/{sender}
var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,32}$`)

// ProfileService — профиль, настройки и удаление аккаунта.
type ProfileService struct {
	users UsersRepo
}

func NewProfileService(users UsersRepo) *ProfileService {
	return &ProfileService{users: users}
}

// ProfileInput — форма страницы профиля.
type ProfileInput struct {
	Name      string
	DOB       string
	Email     string
	Bio       string
	Interests string
}

// SettingsInput — форма страницы настроек. Пустой Username сбрасывает его.
type SettingsInput struct {
	Username string
	Name     string
	DOB      string
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile перезаписывает name, dob, email, bio, interests.
//
// Ошибки: ErrInvalidInput (email, дата), ErrAlreadyExists (email занят).
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.User, error) {
	email := normalizeEmail(in.Email)
	if !emailRe.MatchString(email) {
		return nil, serr.ErrInvalidInput
	}
	dob, err := parseDate(in.DOB)
	if err != nil {
		return nil, err
	}
	return s.users.UpdateProfile(ctx, userID, models.ProfileUpdate{
		Name:      strings.TrimSpace(in.Name),
		DOB:       dob,
		Email:     email,
		Bio:       strings.TrimSpace(in.Bio),
		Interests: strings.TrimSpace(in.Interests),
	})
}

// UpdateSettings перезаписывает username, name, dob.
//
// Ошибки: ErrInvalidInput (username, дата), ErrAlreadyExists (username занят).
func (s *ProfileService) UpdateSettings(ctx context.Context, userID uuid.UUID, in SettingsInput) (*models.User, error) {
	var username *string
	if u := strings.TrimSpace(in.Username); u != "" {
		if !usernameRe.MatchString(u) {
			return nil, serr.ErrInvalidInput
		}
		username = &u
	}
	dob, err := parseDate(in.DOB)
	if err != nil {
		return nil, err
	}
	return s.users.UpdateSettings(ctx, userID, models.SettingsUpdate{
		Username: username,
		Name:     strings.TrimSpace(in.Name),
		DOB:      dob,
	})
}

// DeleteAccount удаляет пользователя и его членство в клубах.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.users.Delete(ctx, userID)
}
