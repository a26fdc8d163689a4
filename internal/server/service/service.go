// Package service содержит бизнес-логику приложения clubhouse.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/config"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/crypto"
	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users         UsersRepo
	Sessions      SessionsRepo
	Clubs         ClubsRepo
	Memberships   MembershipsRepo
	Messages      MessagesRepo
	Notifications NotificationsRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth          *AuthService
	Profile       *ProfileService
	Clubs         *ClubsService
	Messages      *MessagesService
	Notifications *NotificationsService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (параметры хеширования пароля и токенов).
func NewServices(repos Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:          NewAuthService(repos.Users, repos.Sessions, cfg),
		Profile:       NewProfileService(repos.Users),
		Clubs:         NewClubsService(repos.Clubs, repos.Memberships, repos.Notifications, repos.Users),
		Messages:      NewMessagesService(repos.Users, repos.Messages, repos.Notifications),
		Notifications: NewNotificationsService(repos.Notifications),
	}
}

// NewHasher возвращает хэшер паролей по настройке password.hasher.
func NewHasher(cfg config.PasswordConfig) crypto.Hasher {
	if cfg.Hasher == "bcrypt" {
		return crypto.BcryptHasher{Cost: cfg.Bcrypt.Cost}
	}
	return crypto.Argon2Hasher{Params: crypto.Argon2Params{
		Time:      cfg.Argon2.Time,
		MemoryKiB: cfg.Argon2.MemoryKiB,
		Threads:   cfg.Argon2.Threads,
		KeyLen:    cfg.Argon2.KeyLen,
		SaltLen:   cfg.Argon2.SaltLen,
	}}
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, u *models.User) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (uuid.UUID, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, p models.ProfileUpdate) (*models.User, error)
	UpdateSettings(ctx context.Context, id uuid.UUID, s models.SettingsUpdate) (*models.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SessionsRepo interface {
	Create(ctx context.Context, userID uuid.UUID, refreshHash []byte, expiresAt time.Time) (uuid.UUID, error)
	GetByRefreshHash(ctx context.Context, refreshHash []byte) (models.Session, error)
	RevokeAndReplace(ctx context.Context, oldID, newID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
}

// ClubsRepo — справочник клубов.
type ClubsRepo interface {
	Create(ctx context.Context, name, description string) (models.Club, error)
	GetByID(ctx context.Context, id int64) (models.Club, error)
	GetByName(ctx context.Context, name string) (models.Club, error)
	List(ctx context.Context) ([]models.Club, error)
}

// MembershipsRepo — членство пользователей в клубах.
type MembershipsRepo interface {
	Add(ctx context.Context, userID uuid.UUID, clubID int64) (bool, error)
	Remove(ctx context.Context, userID uuid.UUID, clubID int64) (bool, error)
	IsMember(ctx context.Context, userID uuid.UUID, clubID int64) (bool, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.MemberClub, error)
	ListAvailable(ctx context.Context, userID uuid.UUID) ([]models.Club, error)
}

type MessagesRepo interface {
	Create(ctx context.Context, senderID, recipientID uuid.UUID, body string) (models.Message, error)
	ListBetween(ctx context.Context, a, b uuid.UUID) ([]models.Message, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
}

type NotificationsRepo interface {
	Create(ctx context.Context, userID uuid.UUID, text string) error
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}
