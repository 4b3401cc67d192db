package handlers

import (
	"errors"
	"net/http"

	"github.com/cable-im/cable/internal/apierr"
	"github.com/cable-im/cable/internal/middleware"
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

type MessageHandler struct {
	Store store.Store
}

type messagePayload struct {
	Content *string `json:"content"`
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	chatID := pathID(r, "chat_id")
	if _, err := h.Store.ChatByID(chatID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The listed resources are the messages, so absence of the
			// chat already reads as "no such objects".
			respondErr(w, apierr.NotFoundMany)
			return
		}
		respondErr(w, err)
		return
	}
	if _, err := requireMembership(h.Store, chatID, caller); err != nil {
		respondErr(w, err)
		return
	}

	messages, err := h.Store.MessagesForChat(chatID)
	if err != nil {
		respondErr(w, err)
		return
	}
	if len(messages) == 0 {
		respondErr(w, apierr.NotFoundMany)
		return
	}

	respond(w, http.StatusOK, map[string]any{"messages": newMessageViews(messages)})
}

func (h *MessageHandler) CreateMessage(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	var payload messagePayload
	if err := decodeJSON(r, &payload); err != nil {
		respondErr(w, err)
		return
	}
	if payload.Content == nil || *payload.Content == "" {
		respondErr(w, apierr.FieldRequired("content"))
		return
	}

	chatID := pathID(r, "chat_id")
	if _, err := resolveChat(h.Store, chatID); err != nil {
		respondErr(w, err)
		return
	}
	chat, err := requireMembership(h.Store, chatID, caller)
	if err != nil {
		respondErr(w, err)
		return
	}

	msg := &models.Message{
		Content:  *payload.Content,
		ChatID:   chat.ID,
		SenderID: caller.ID,
	}
	if err := h.Store.CreateMessage(msg); err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{"new_message": newMessageView(msg)})
}

// resolveAuthorizedMessage runs the two-level chain shared by the
// single-message operations: chat existence, chat membership, message
// existence, then message-belongs-to-chat.
func (h *MessageHandler) resolveAuthorizedMessage(r *http.Request, caller *models.User) (*models.Message, error) {
	chatID := pathID(r, "chat_id")
	if _, err := resolveChat(h.Store, chatID); err != nil {
		return nil, err
	}
	if _, err := requireMembership(h.Store, chatID, caller); err != nil {
		return nil, err
	}

	messageID := pathID(r, "message_id")
	if _, err := resolveMessage(h.Store, messageID); err != nil {
		return nil, err
	}
	return requireMessageInChat(h.Store, messageID, chatID)
}

func (h *MessageHandler) GetMessage(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	msg, err := h.resolveAuthorizedMessage(r, caller)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"message": newMessageView(msg)})
}

func (h *MessageHandler) UpdateMessage(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	var payload messagePayload
	if err := decodeJSON(r, &payload); err != nil {
		respondErr(w, err)
		return
	}

	msg, err := h.resolveAuthorizedMessage(r, caller)
	if err != nil {
		respondErr(w, err)
		return
	}

	if err := h.Store.UpdateMessage(msg.ID, store.MessageUpdate{Content: payload.Content}); err != nil {
		respondErr(w, err)
		return
	}

	updated, err := resolveMessage(h.Store, msg.ID)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"updated_message": newMessageView(updated)})
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	msg, err := h.resolveAuthorizedMessage(r, caller)
	if err != nil {
		respondErr(w, err)
		return
	}

	if err := h.Store.DeleteMessage(msg.ID); err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]string{"detail": "This object has been deleted."})
}
