package store

import (
	"errors"
	"time"

	"github.com/cable-im/cable/internal/models"
)

var (
	// ErrNotFound is returned by single-row lookups when no row matches.
	// Lookups never return a nil entity with a nil error.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("already exists")
)

// Update structs carry partial updates: only non-nil fields are applied.

type UserUpdate struct {
	UserName     *string
	EmailAddress *string
	Password     *string
	ProfileImage *string
}

type ChatUpdate struct {
	DisplayName *string
}

type MessageUpdate struct {
	Content *string
}

type Store interface {
	// User operations
	CreateUser(user *models.User) error
	Users() ([]models.User, error)
	UserByID(id int) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	UpdateUser(id int, upd UserUpdate) error
	DeleteUser(id int) error

	// Chat operations
	CreateChat(displayName string) (*models.Chat, error)
	ChatByID(id int) (*models.Chat, error)
	// ChatForUser is the membership-constrained variant of ChatByID: it
	// matches only when userID is a participant of the chat.
	ChatForUser(chatID, userID int) (*models.Chat, error)
	// ChatBetween finds a chat that has both users as participants,
	// regardless of argument order.
	ChatBetween(userA, userB int) (*models.Chat, error)
	ChatsForUser(userID int) ([]models.Chat, error)
	UpdateChat(id int, upd ChatUpdate) error
	DeleteChat(id int) error
	AddParticipant(chatID, userID int) error
	Participants(chatID int) ([]models.Participant, error)

	// Message operations
	CreateMessage(msg *models.Message) error
	MessagesForChat(chatID int) ([]models.Message, error)
	MessageByID(id int) (*models.Message, error)
	// MessageInChat is the chat-constrained variant of MessageByID.
	MessageInChat(messageID, chatID int) (*models.Message, error)
	UpdateMessage(id int, upd MessageUpdate) error
	DeleteMessage(id int) error

	// Refresh token operations
	CreateRefreshToken(token string, userID int, expires time.Time) error
	RefreshTokenByValue(token string) (*models.RefreshToken, error)
	DeleteRefreshToken(token string) error
}
