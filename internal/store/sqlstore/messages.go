package sqlstore

import (
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

const messageColumns = "id, content, chat_id, sender_id, date_created, date_modified"

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	var msg models.Message
	err := row.Scan(&msg.ID, &msg.Content, &msg.ChatID, &msg.SenderID, &msg.DateCreated, &msg.DateModified)
	if err != nil {
		return nil, translateErr(err)
	}
	return &msg, nil
}

func (s *SQLStore) CreateMessage(msg *models.Message) error {
	ts := now()
	res, err := s.db.Exec(
		"INSERT INTO messages (content, chat_id, sender_id, date_created, date_modified) VALUES (?, ?, ?, ?, ?)",
		msg.Content, msg.ChatID, msg.SenderID, ts, ts)
	if err != nil {
		return translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	msg.ID = int(id)
	msg.DateCreated = ts
	msg.DateModified = ts
	return nil
}

func (s *SQLStore) MessagesForChat(chatID int) ([]models.Message, error) {
	rows, err := s.db.Query("SELECT "+messageColumns+" FROM messages WHERE chat_id = ? ORDER BY id", chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}

func (s *SQLStore) MessageByID(id int) (*models.Message, error) {
	return scanMessage(s.db.QueryRow("SELECT "+messageColumns+" FROM messages WHERE id = ?", id))
}

func (s *SQLStore) MessageInChat(messageID, chatID int) (*models.Message, error) {
	return scanMessage(s.db.QueryRow(
		"SELECT "+messageColumns+" FROM messages WHERE id = ? AND chat_id = ?", messageID, chatID))
}

func (s *SQLStore) UpdateMessage(id int, upd store.MessageUpdate) error {
	set := "date_modified = ?"
	args := []any{now()}

	if upd.Content != nil {
		set += ", content = ?"
		args = append(args, *upd.Content)
	}
	args = append(args, id)

	res, err := s.db.Exec("UPDATE messages SET "+set+" WHERE id = ?", args...)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *SQLStore) DeleteMessage(id int) error {
	res, err := s.db.Exec("DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
