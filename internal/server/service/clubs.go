package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
)

// ClubsService — клубы и членство в них.
//
// Таблица memberships единственный источник правды: community это клубы,
// в которых пользователь не состоит, my_community это клубы, в которых состоит.
type ClubsService struct {
	clubs         ClubsRepo
	memberships   MembershipsRepo
	notifications NotificationsRepo
	users         UsersRepo
}

func NewClubsService(clubs ClubsRepo, memberships MembershipsRepo, notifications NotificationsRepo, users UsersRepo) *ClubsService {
	return &ClubsService{
		clubs:         clubs,
		memberships:   memberships,
		notifications: notifications,
		users:         users,
	}
}

// JoinResult — итог вступления в клуб.
// NotifyErr — ошибка записи уведомления, вступление при этом уже сохранено.
type JoinResult struct {
	Club      models.Club
	Joined    bool // false, если пользователь уже состоял в клубе
	NotifyErr error
}

// ClubPage — страница клуба глазами текущего пользователя.
type ClubPage struct {
	Club   models.Club
	Member bool
}

// Home — данные домашней страницы.
type Home struct {
	User  *models.User
	Clubs []models.MemberClub
}

// Join добавляет пользователя в клуб по id.
//
// Повторное вступление ничего не меняет. При первом вступлении
// пользователю приходит уведомление. Сбой уведомления не отменяет
// вступление и возвращается в JoinResult.NotifyErr.
// Ошибки: ErrClubNotFound.
func (s *ClubsService) Join(ctx context.Context, userID uuid.UUID, clubID int64) (JoinResult, error) {
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return JoinResult{}, err
	}

	added, err := s.memberships.Add(ctx, userID, club.ID)
	if err != nil {
		return JoinResult{}, err
	}
	res := JoinResult{Club: club, Joined: added}
	if added {
		res.NotifyErr = s.notifications.Create(ctx, userID, fmt.Sprintf("You joined %s", club.Name))
	}
	return res, nil
}

// Leave убирает клуб из списка пользователя по имени и возвращает
// оставшиеся имена клубов. Обслуживает и notInterested, и drop_out.
//
// Если пользователь в клубе не состоял, это не ошибка.
// Ошибки: ErrInvalidInput (пустое имя), ErrClubNotFound.
func (s *ClubsService) Leave(ctx context.Context, userID uuid.UUID, clubName string) ([]string, error) {
	clubName = strings.TrimSpace(clubName)
	if clubName == "" {
		return nil, serr.ErrInvalidInput
	}
	club, err := s.clubs.GetByName(ctx, clubName)
	if err != nil {
		return nil, err
	}
	if _, err := s.memberships.Remove(ctx, userID, club.ID); err != nil {
		return nil, err
	}

	mine, err := s.memberships.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(mine))
	for _, c := range mine {
		names = append(names, c.Name)
	}
	return names, nil
}

// Community — клубы, в которых пользователь ещё не состоит.
func (s *ClubsService) Community(ctx context.Context, userID uuid.UUID) ([]models.Club, error) {
	return s.memberships.ListAvailable(ctx, userID)
}

// MyClubs — клубы пользователя в порядке вступления.
func (s *ClubsService) MyClubs(ctx context.Context, userID uuid.UUID) ([]models.MemberClub, error) {
	return s.memberships.ListForUser(ctx, userID)
}

func (s *ClubsService) Page(ctx context.Context, userID uuid.UUID, clubName string) (ClubPage, error) {
	club, err := s.clubs.GetByName(ctx, strings.TrimSpace(clubName))
	if err != nil {
		return ClubPage{}, err
	}
	member, err := s.memberships.IsMember(ctx, userID, club.ID)
	if err != nil {
		return ClubPage{}, err
	}
	return ClubPage{Club: club, Member: member}, nil
}

func (s *ClubsService) Home(ctx context.Context, userID uuid.UUID) (Home, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return Home{}, err
	}
	clubs, err := s.memberships.ListForUser(ctx, userID)
	if err != nil {
		return Home{}, err
	}
	return Home{User: u, Clubs: clubs}, nil
}
