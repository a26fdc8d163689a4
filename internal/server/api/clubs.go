package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	serr "github.com/IvanChernomyrdin/clubhouse/internal/shared/errors"
	dto "github.com/IvanChernomyrdin/clubhouse/internal/shared/models"
)

// ClubID принимает id клуба и числом, и строкой: {"club_id": 3} или {"club_id": "3"}.
type ClubID string

func (c *ClubID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = ClubID(s)
		return nil
	}
	*c = ClubID(b)
	return nil
}

// JoinRequest — тело POST /join.
type JoinRequest struct {
	ClubID ClubID `json:"club_id"`
}

// JoinResponse — ответ JSON-клиенту на POST /join.
type JoinResponse struct {
	Club   dto.Club `json:"club"`
	Joined bool     `json:"joined"`
}

// LeaveRequest — тело POST /notInterested и POST /drop_out.
type LeaveRequest struct {
	ClubName string `json:"club_name"`
}

func zapUser(id uuid.UUID) zap.Field {
	return zap.String("user_id", id.String())
}

// Home — пользователь и его клубы.
//
// @Summary      Home page
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.HomeResponse
// @Router       /home [get]
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	home, err := h.Svc.Clubs.Home(r.Context(), userID)
	if err != nil {
		h.fail(w, "home", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.HomeResponse{
		User:  userView(home.User),
		Clubs: memberClubsView(home.Clubs),
	})
}

// MyCommunity — клубы пользователя в порядке вступления.
// Этим же хендлером обслуживается /calendar.
//
// @Summary      My clubs
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.MemberClubsResponse
// @Router       /my_community [get]
// @Router       /calendar [get]
func (h *Handler) MyCommunity(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	clubs, err := h.Svc.Clubs.MyClubs(r.Context(), userID)
	if err != nil {
		h.fail(w, "my community", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.MemberClubsResponse{Clubs: memberClubsView(clubs)})
}

// Community — клубы, в которые пользователь ещё не вступил.
//
// @Summary      Clubs to join
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.ClubsResponse
// @Router       /community [get]
func (h *Handler) Community(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	clubs, err := h.Svc.Clubs.Community(r.Context(), userID)
	if err != nil {
		h.fail(w, "community", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.ClubsResponse{Clubs: clubsView(clubs)})
}

// ClubPage — страница клуба /{club}.
//
// @Summary      Club page
// @Tags         clubs
// @Produce      json
// @Security     BearerAuth
// @Param        club path string true "Club name"
// @Success      200 {object} models.ClubPageResponse
// @Failure      404 {object} ErrorResponse "club not found"
// @Router       /{club} [get]
func (h *Handler) ClubPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	page, err := h.Svc.Clubs.Page(r.Context(), userID, chi.URLParam(r, "club"))
	if err != nil {
		h.fail(w, "club page", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.ClubPageResponse{Club: clubView(page.Club), Member: page.Member})
}

// Join вступление в клуб по id.
//
// Неизвестный клуб не ошибка: запрос молча уходит на /community.
// Повторное вступление ничего не меняет.
//
// @Summary      Join club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body JoinRequest true "Club id"
// @Success      200 {object} JoinResponse
// @Success      303 "Redirect to /community"
// @Failure      400 {object} ErrorResponse "Non-numeric club id"
// @Router       /join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}
	var req JoinRequest
	if err := h.decode(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	clubID, err := strconv.ParseInt(string(req.ClubID), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	res, err := h.Svc.Clubs.Join(r.Context(), userID, clubID)
	if err != nil {
		if errors.Is(err, serr.ErrClubNotFound) {
			h.Log.Warn("join: club not found", zapUser(userID), zap.Int64("club_id", clubID))
			navigate(w, r, PathCommunity, http.StatusNoContent, nil)
			return
		}
		h.fail(w, "join", err, "user_id", userID.String(), "club_id", clubID)
		return
	}
	if res.NotifyErr != nil {
		h.Log.Warn("join: notification not saved", zapUser(userID), zap.Int64("club_id", clubID), zap.Error(res.NotifyErr))
	}

	navigate(w, r, PathCommunity, http.StatusOK, JoinResponse{Club: clubView(res.Club), Joined: res.Joined})
}

// NotInterested убирает клуб по имени из клубов пользователя
// и возвращает оставшиеся имена. Этим же хендлером обслуживается /drop_out.
//
// @Summary      Leave club
// @Tags         clubs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LeaveRequest true "Club name"
// @Success      200 {object} models.ClubNamesResponse
// @Failure      404 {object} ErrorResponse "club not found"
// @Router       /notInterested [post]
// @Router       /drop_out [post]
func (h *Handler) NotInterested(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}
	var req LeaveRequest
	if err := h.decode(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	names, err := h.Svc.Clubs.Leave(r.Context(), userID, req.ClubName)
	if err != nil {
		h.fail(w, "leave club", err, "user_id", userID.String(), "club", req.ClubName)
		return
	}
	writeJSON(w, http.StatusOK, dto.ClubNamesResponse{Clubs: names})
}
