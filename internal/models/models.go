package models

import "time"

type User struct {
	ID           int
	UserName     string
	EmailAddress string
	Password     string // bcrypt hash, write-only
	ProfileImage string // URL path under /media/, empty when no image uploaded
	IsAdmin      bool
	IsStaff      bool
	DateCreated  time.Time
	DateModified time.Time
}

type Chat struct {
	ID           int
	DisplayName  string
	DateCreated  time.Time
	DateModified time.Time
}

// Participant joins a user to a chat. At most one row per (chat, user) pair.
type Participant struct {
	ID           int
	ChatID       int
	UserID       int
	User         User
	DateCreated  time.Time
	DateModified time.Time
}

type Message struct {
	ID           int
	Content      string
	ChatID       int
	SenderID     int
	DateCreated  time.Time
	DateModified time.Time
}

type RefreshToken struct {
	Token   string
	UserID  int
	Expires time.Time
}
