package sqlstore

import (
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

const chatColumns = "id, display_name, date_created, date_modified"

func scanChat(row interface{ Scan(...any) error }) (*models.Chat, error) {
	var chat models.Chat
	err := row.Scan(&chat.ID, &chat.DisplayName, &chat.DateCreated, &chat.DateModified)
	if err != nil {
		return nil, translateErr(err)
	}
	return &chat, nil
}

func (s *SQLStore) CreateChat(displayName string) (*models.Chat, error) {
	ts := now()
	res, err := s.db.Exec(
		"INSERT INTO chats (display_name, date_created, date_modified) VALUES (?, ?, ?)",
		displayName, ts, ts)
	if err != nil {
		return nil, translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.Chat{ID: int(id), DisplayName: displayName, DateCreated: ts, DateModified: ts}, nil
}

func (s *SQLStore) ChatByID(id int) (*models.Chat, error) {
	return scanChat(s.db.QueryRow("SELECT "+chatColumns+" FROM chats WHERE id = ?", id))
}

func (s *SQLStore) ChatForUser(chatID, userID int) (*models.Chat, error) {
	return scanChat(s.db.QueryRow(`
		SELECT c.id, c.display_name, c.date_created, c.date_modified
		FROM chats c
		JOIN participants p ON p.chat_id = c.id
		WHERE c.id = ? AND p.user_id = ?`, chatID, userID))
}

func (s *SQLStore) ChatBetween(userA, userB int) (*models.Chat, error) {
	return scanChat(s.db.QueryRow(`
		SELECT c.id, c.display_name, c.date_created, c.date_modified
		FROM chats c
		JOIN participants pa ON pa.chat_id = c.id AND pa.user_id = ?
		JOIN participants pb ON pb.chat_id = c.id AND pb.user_id = ?
		ORDER BY c.id
		LIMIT 1`, userA, userB))
}

func (s *SQLStore) ChatsForUser(userID int) ([]models.Chat, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.display_name, c.date_created, c.date_modified
		FROM chats c
		JOIN participants p ON p.chat_id = c.id
		WHERE p.user_id = ?
		ORDER BY c.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	return chats, rows.Err()
}

func (s *SQLStore) UpdateChat(id int, upd store.ChatUpdate) error {
	set := "date_modified = ?"
	args := []any{now()}

	if upd.DisplayName != nil {
		set += ", display_name = ?"
		args = append(args, *upd.DisplayName)
	}
	args = append(args, id)

	res, err := s.db.Exec("UPDATE chats SET "+set+" WHERE id = ?", args...)
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

// DeleteChat removes the chat and cascades to its participants and messages.
func (s *SQLStore) DeleteChat(id int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE chat_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM participants WHERE chat_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM chats WHERE id = ?", id)
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
	return tx.Commit()
}

func (s *SQLStore) AddParticipant(chatID, userID int) error {
	ts := now()
	_, err := s.db.Exec(
		"INSERT INTO participants (chat_id, user_id, date_created, date_modified) VALUES (?, ?, ?, ?)",
		chatID, userID, ts, ts)
	return translateErr(err)
}

// Participants returns the chat's participants with their users populated,
// in join order.
func (s *SQLStore) Participants(chatID int) ([]models.Participant, error) {
	rows, err := s.db.Query(`
		SELECT p.id, p.chat_id, p.user_id, p.date_created, p.date_modified,
			u.id, u.user_name, u.email_address, u.password, u.profile_image,
			u.is_admin, u.is_staff, u.date_created, u.date_modified
		FROM participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.chat_id = ?
		ORDER BY p.id`, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		var p models.Participant
		err := rows.Scan(&p.ID, &p.ChatID, &p.UserID, &p.DateCreated, &p.DateModified,
			&p.User.ID, &p.User.UserName, &p.User.EmailAddress, &p.User.Password,
			&p.User.ProfileImage, &p.User.IsAdmin, &p.User.IsStaff,
			&p.User.DateCreated, &p.User.DateModified)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
