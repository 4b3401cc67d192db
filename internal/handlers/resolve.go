package handlers

import (
	"errors"

	"github.com/cable-im/cable/internal/apierr"
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

// Resolution helpers translate store absence into the 404 side of the
// taxonomy. Existence is always resolved on the id alone, before any
// membership predicate runs, so a missing object is reported as 404 and an
// existing-but-foreign object as 401.

func resolveUser(s store.Store, id int) (*models.User, error) {
	user, err := s.UserByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFoundOne
	}
	return user, err
}

func resolveChat(s store.Store, id int) (*models.Chat, error) {
	chat, err := s.ChatByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFoundOne
	}
	return chat, err
}

func resolveMessage(s store.Store, id int) (*models.Message, error) {
	msg, err := s.MessageByID(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFoundOne
	}
	return msg, err
}

// requireSelf permits the operation only on the caller's own user record.
func requireSelf(target *models.User, caller *models.User) error {
	if caller == nil || target.ID != caller.ID {
		return apierr.Unauthorized
	}
	return nil
}

// requireMembership re-queries the chat constrained to the caller's
// participation. Absence of the constrained row means the chat exists but
// the caller is not a participant.
func requireMembership(s store.Store, chatID int, caller *models.User) (*models.Chat, error) {
	chat, err := s.ChatForUser(chatID, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.Unauthorized
	}
	return chat, err
}

// requireMessageInChat re-queries the message constrained to the resolved
// chat. A message that exists in a different chat yields 401, not 404.
func requireMessageInChat(s store.Store, messageID, chatID int) (*models.Message, error) {
	msg, err := s.MessageInChat(messageID, chatID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.Unauthorized
	}
	return msg, err
}
