package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	dto "github.com/IvanChernomyrdin/clubhouse/internal/shared/models"
)

// SendMessageRequest — тело POST /view_conversation/{sender}.
type SendMessageRequest struct {
	Body string `json:"body"`
}

// MarkReadResponse — сколько уведомлений помечено прочитанными.
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

// Messages — список диалогов, свежие первыми.
//
// @Summary      Conversations
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.ConversationsResponse
// @Router       /messages [get]
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	convs, err := h.Svc.Messages.Conversations(r.Context(), userID)
	if err != nil {
		h.fail(w, "list conversations", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.ConversationsResponse{Conversations: conversationsView(convs)})
}

// ViewConversation — переписка с пользователем {sender} (username или id).
//
// @Summary      View conversation
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        sender path string true "Peer username or user id"
// @Success      200 {object} models.ThreadResponse
// @Failure      404 {object} ErrorResponse
// @Router       /view_conversation/{sender} [get]
func (h *Handler) ViewConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}
	h.writeThread(w, r, userID, chi.URLParam(r, "sender"), http.StatusOK)
}

// SendMessage отправляет сообщение {sender} и возвращает обновлённую переписку.
//
// @Summary      Send message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        sender  path string             true "Peer username or user id"
// @Param        request body SendMessageRequest true "Message"
// @Success      201 {object} models.ThreadResponse
// @Failure      400 {object} ErrorResponse "Empty body or self message"
// @Failure      404 {object} ErrorResponse
// @Router       /view_conversation/{sender} [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := h.decode(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	sender := chi.URLParam(r, "sender")
	sent, err := h.Svc.Messages.Send(r.Context(), userID, sender, req.Body)
	if err != nil {
		h.fail(w, "send message", err, "user_id", userID.String(), "peer", sender)
		return
	}
	if sent.NotifyErr != nil {
		h.Log.Warn("send message: notification not saved", zapUser(userID), zap.String("peer", sender), zap.Error(sent.NotifyErr))
	}
	h.writeThread(w, r, userID, sender, http.StatusCreated)
}

func (h *Handler) writeThread(w http.ResponseWriter, r *http.Request, userID uuid.UUID, handle string, status int) {
	th, err := h.Svc.Messages.View(r.Context(), userID, handle)
	if err != nil {
		h.fail(w, "view conversation", err, "user_id", userID.String(), "peer", handle)
		return
	}
	writeJSON(w, status, dto.ThreadResponse{
		Peer:     peerView(th.Peer),
		Messages: messagesView(th.Messages, userID),
	})
}

// Notifications — последние уведомления, новые первыми.
//
// @Summary      Notifications
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.NotificationsResponse
// @Router       /notifications [get]
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	list, err := h.Svc.Notifications.List(r.Context(), userID)
	if err != nil {
		h.fail(w, "list notifications", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, dto.NotificationsResponse{Notifications: notificationsView(list)})
}

// @Summary      Mark notifications read
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} MarkReadResponse
// @Router       /notifications/read [post]
func (h *Handler) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := principal(w, r)
	if !ok {
		return
	}

	n, err := h.Svc.Notifications.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.fail(w, "mark notifications read", err, "user_id", userID.String())
		return
	}
	writeJSON(w, http.StatusOK, MarkReadResponse{Marked: n})
}
