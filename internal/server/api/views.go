package api

import (
	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/clubhouse/internal/server/models"
	dto "github.com/IvanChernomyrdin/clubhouse/internal/shared/models"
	"github.com/IvanChernomyrdin/clubhouse/internal/shared/utils"
)

// Перевод серверных моделей в модели ответа.

func userView(u *models.User) dto.User {
	v := dto.User{
		ID:        u.ID.String(),
		Email:     u.Email,
		Username:  u.Username,
		Name:      u.Name,
		Bio:       u.Bio,
		Interests: u.Interests,
	}
	if u.DOB != nil {
		v.DOB = utils.Ptr(u.DOB.Format(models.DateLayout))
	}
	return v
}

func peerView(u *models.User) dto.Peer {
	return dto.Peer{Handle: u.Handle(), Name: u.Name}
}

func clubView(c models.Club) dto.Club {
	return dto.Club{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt}
}

func clubsView(cs []models.Club) []dto.Club {
	out := make([]dto.Club, 0, len(cs))
	for _, c := range cs {
		out = append(out, clubView(c))
	}
	return out
}

func memberClubsView(cs []models.MemberClub) []dto.MemberClub {
	out := make([]dto.MemberClub, 0, len(cs))
	for _, c := range cs {
		out = append(out, dto.MemberClub{Club: clubView(c.Club), JoinedAt: c.JoinedAt})
	}
	return out
}

func conversationsView(cs []models.Conversation) []dto.Conversation {
	out := make([]dto.Conversation, 0, len(cs))
	for _, c := range cs {
		out = append(out, dto.Conversation{
			Peer:        c.PeerHandle,
			PeerName:    c.PeerName,
			LastMessage: c.LastMessage,
			LastAt:      c.LastAt,
		})
	}
	return out
}

func messagesView(msgs []models.Message, me uuid.UUID) []dto.Message {
	out := make([]dto.Message, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, dto.Message{ID: m.ID, Mine: m.SenderID == me, Body: m.Body, CreatedAt: m.CreatedAt})
	}
	return out
}

func notificationsView(ns []models.Notification) []dto.Notification {
	out := make([]dto.Notification, 0, len(ns))
	for _, n := range ns {
		out = append(out, dto.Notification{ID: n.ID, Text: n.Text, CreatedAt: n.CreatedAt, ReadAt: n.ReadAt})
	}
	return out
}
