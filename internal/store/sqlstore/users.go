package sqlstore

import (
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

const userColumns = "id, user_name, email_address, password, profile_image, is_admin, is_staff, date_created, date_modified"

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.UserName, &user.EmailAddress, &user.Password,
		&user.ProfileImage, &user.IsAdmin, &user.IsStaff, &user.DateCreated, &user.DateModified)
	if err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *SQLStore) CreateUser(user *models.User) error {
	ts := now()
	res, err := s.db.Exec(
		"INSERT INTO users (user_name, email_address, password, profile_image, is_admin, is_staff, date_created, date_modified) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		user.UserName, user.EmailAddress, user.Password, user.ProfileImage, user.IsAdmin, user.IsStaff, ts, ts)
	if err != nil {
		return translateErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	user.DateCreated = ts
	user.DateModified = ts
	return nil
}

func (s *SQLStore) Users() ([]models.User, error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *SQLStore) UserByID(id int) (*models.User, error) {
	return scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

func (s *SQLStore) UserByEmail(email string) (*models.User, error) {
	return scanUser(s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE email_address = ?", email))
}

func (s *SQLStore) UpdateUser(id int, upd store.UserUpdate) error {
	set := "date_modified = ?"
	args := []any{now()}

	if upd.UserName != nil {
		set += ", user_name = ?"
		args = append(args, *upd.UserName)
	}
	if upd.EmailAddress != nil {
		set += ", email_address = ?"
		args = append(args, *upd.EmailAddress)
	}
	if upd.Password != nil {
		set += ", password = ?"
		args = append(args, *upd.Password)
	}
	if upd.ProfileImage != nil {
		set += ", profile_image = ?"
		args = append(args, *upd.ProfileImage)
	}
	args = append(args, id)

	res, err := s.db.Exec("UPDATE users SET "+set+" WHERE id = ?", args...)
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

// DeleteUser removes the user together with their participant rows and
// messages, mirroring the cascade the schema declares.
func (s *SQLStore) DeleteUser(id int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE sender_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM participants WHERE user_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM refresh_tokens WHERE user_id = ?", id); err != nil {
		return err
	}
	res, err := tx.Exec("DELETE FROM users WHERE id = ?", id)
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
