package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"

	"github.com/cable-im/cable/internal/apierr"
	"github.com/cable-im/cable/internal/middleware"
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

type ChatHandler struct {
	Store store.Store
}

type chatPayload struct {
	EmailAddress *string `json:"email_address"`
	DisplayName  *string `json:"display_name"`
}

// validEmail rejects addresses that do not parse as a bare RFC 5322
// address, including display-name forms.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apierr.BadRequest("Malformed request body.")
	}
	return nil
}

func (h *ChatHandler) chatView(chat *models.Chat) (chatView, error) {
	participants, err := h.Store.Participants(chat.ID)
	if err != nil {
		return chatView{}, err
	}
	return newChatView(chat, participants), nil
}

func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	chats, err := h.Store.ChatsForUser(caller.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	if len(chats) == 0 {
		respondErr(w, apierr.NotFoundMany)
		return
	}

	views := make([]chatView, 0, len(chats))
	for i := range chats {
		view, err := h.chatView(&chats[i])
		if err != nil {
			respondErr(w, err)
			return
		}
		views = append(views, view)
	}

	respond(w, http.StatusOK, map[string]any{"chats": views})
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	var payload chatPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondErr(w, err)
		return
	}
	if payload.EmailAddress == nil || *payload.EmailAddress == "" {
		respondErr(w, apierr.FieldRequired("email_address"))
		return
	}
	if !validEmail(*payload.EmailAddress) {
		respondErr(w, apierr.BadRequest("email_address: Enter a valid email address."))
		return
	}
	if *payload.EmailAddress == caller.EmailAddress {
		respondErr(w, apierr.BadRequest("Email provided cannot be the same as the authenticated user's."))
		return
	}

	invitee, err := h.Store.UserByEmail(*payload.EmailAddress)
	if errors.Is(err, store.ErrNotFound) {
		// 400, not 404: the resource being created is the chat.
		respondErr(w, apierr.BadRequest("This object does not exist."))
		return
	}
	if err != nil {
		respondErr(w, err)
		return
	}

	if _, err := h.Store.ChatBetween(caller.ID, invitee.ID); err == nil {
		respondErr(w, apierr.BadRequest("This object already exists."))
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		respondErr(w, err)
		return
	}

	displayName := ""
	if payload.DisplayName != nil {
		displayName = *payload.DisplayName
	}

	chat, err := h.Store.CreateChat(displayName)
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Store.AddParticipant(chat.ID, caller.ID); err != nil {
		respondErr(w, err)
		return
	}
	if err := h.Store.AddParticipant(chat.ID, invitee.ID); err != nil {
		respondErr(w, err)
		return
	}

	view, err := h.chatView(chat)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{"new_chat": view})
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

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

	view, err := h.chatView(chat)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"chat": view})
}

func (h *ChatHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	var payload chatPayload
	if err := decodeJSON(r, &payload); err != nil {
		respondErr(w, err)
		return
	}

	chatID := pathID(r, "chat_id")
	if _, err := resolveChat(h.Store, chatID); err != nil {
		respondErr(w, err)
		return
	}
	if _, err := requireMembership(h.Store, chatID, caller); err != nil {
		respondErr(w, err)
		return
	}

	if err := h.Store.UpdateChat(chatID, store.ChatUpdate{DisplayName: payload.DisplayName}); err != nil {
		respondErr(w, err)
		return
	}

	updated, err := resolveChat(h.Store, chatID)
	if err != nil {
		respondErr(w, err)
		return
	}
	view, err := h.chatView(updated)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"updated_chat": view})
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	chatID := pathID(r, "chat_id")
	if _, err := resolveChat(h.Store, chatID); err != nil {
		respondErr(w, err)
		return
	}
	if _, err := requireMembership(h.Store, chatID, caller); err != nil {
		respondErr(w, err)
		return
	}

	if err := h.Store.DeleteChat(chatID); err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]string{"detail": "This object has been deleted."})
}
