package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/YossiBenZaken/DatingApp/internal/middleware"
	"github.com/YossiBenZaken/DatingApp/internal/models"
	"github.com/YossiBenZaken/DatingApp/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MessageHandler handles message-related HTTP requests
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

// ListMailbox handles GET /api/v1/messages?container=Inbox|Outbox|Unread
func (h *MessageHandler) ListMailbox(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	container := models.ParseContainer(r.URL.Query().Get("container"))

	page, err := h.messageService.ListMailbox(ctx, userID, container, pageRequest(r))
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("container", string(container)).
			Msg("Failed to list mailbox")
		respondAppError(w, err)
		return
	}

	addPagination(w, page)
	respondJSON(w, http.StatusOK, page.Items)
}

// GetThread handles GET /api/v1/messages/thread/{user_id}
func (h *MessageHandler) GetThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	otherUserID := chi.URLParam(r, "user_id")

	messages, err := h.messageService.Thread(ctx, userID, otherUserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get message thread")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// GetMessage handles GET /api/v1/messages/{message_id}
func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	messageID := chi.URLParam(r, "message_id")

	msg, err := h.messageService.GetMessage(ctx, messageID, userID)
	if err != nil {
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, msg)
}

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
}

// SendMessage handles POST /api/v1/messages
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.messageService.Send(ctx, userID, req.RecipientID, req.Content)
	if err != nil {
		log.Error().
			Err(err).
			Str("sender_id", userID).
			Str("recipient_id", req.RecipientID).
			Msg("Failed to send message")
		respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

// DeleteMessage handles DELETE /api/v1/messages/{message_id}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	messageID := chi.URLParam(r, "message_id")

	if err := h.messageService.Delete(ctx, messageID, userID); err != nil {
		respondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAsRead handles POST /api/v1/messages/{message_id}/read
func (h *MessageHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	messageID := chi.URLParam(r, "message_id")

	if err := h.messageService.MarkRead(ctx, messageID, userID); err != nil {
		respondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
