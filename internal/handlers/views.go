package handlers

import (
	"github.com/cable-im/cable/internal/models"
)

// View structs define the serialized field lists. The password is
// write-only and never appears in any view.

// timestampFormat matches the wire format for timestamps: ISO-8601 with
// microsecond precision and a literal Z suffix (all stored times are UTC).
const timestampFormat = "2006-01-02T15:04:05.000000Z"

type userView struct {
	ID           int     `json:"id"`
	UserName     string  `json:"user_name"`
	EmailAddress string  `json:"email_address"`
	ProfileImage *string `json:"profile_image"`
}

func newUserView(user *models.User) userView {
	view := userView{
		ID:           user.ID,
		UserName:     user.UserName,
		EmailAddress: user.EmailAddress,
	}
	if user.ProfileImage != "" {
		view.ProfileImage = &user.ProfileImage
	}
	return view
}

func newUserViews(users []models.User) []userView {
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, newUserView(&users[i]))
	}
	return views
}

type participantView struct {
	ModelUser userView `json:"model_user"`
}

type chatView struct {
	ID           int               `json:"id"`
	DisplayName  *string           `json:"display_name"`
	Participants []participantView `json:"participants"`
}

func newChatView(chat *models.Chat, participants []models.Participant) chatView {
	view := chatView{
		ID:           chat.ID,
		Participants: make([]participantView, 0, len(participants)),
	}
	if chat.DisplayName != "" {
		view.DisplayName = &chat.DisplayName
	}
	for i := range participants {
		view.Participants = append(view.Participants, participantView{
			ModelUser: newUserView(&participants[i].User),
		})
	}
	return view
}

type messageView struct {
	ID          int    `json:"id"`
	Content     string `json:"content"`
	Sender      int    `json:"sender"`
	Chat        int    `json:"chat"`
	DateCreated string `json:"date_created"`
}

func newMessageView(msg *models.Message) messageView {
	return messageView{
		ID:          msg.ID,
		Content:     msg.Content,
		Sender:      msg.SenderID,
		Chat:        msg.ChatID,
		DateCreated: msg.DateCreated.UTC().Format(timestampFormat),
	}
}

func newMessageViews(messages []models.Message) []messageView {
	views := make([]messageView, 0, len(messages))
	for i := range messages {
		views = append(views, newMessageView(&messages[i]))
	}
	return views
}
