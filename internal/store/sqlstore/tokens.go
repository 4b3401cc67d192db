package sqlstore

import (
	"time"

	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

func (s *SQLStore) CreateRefreshToken(token string, userID int, expires time.Time) error {
	_, err := s.db.Exec(
		"INSERT INTO refresh_tokens (token, user_id, expires) VALUES (?, ?, ?)",
		token, userID, expires.UTC())
	return translateErr(err)
}

func (s *SQLStore) RefreshTokenByValue(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := s.db.QueryRow(
		"SELECT token, user_id, expires FROM refresh_tokens WHERE token = ?", token).
		Scan(&rt.Token, &rt.UserID, &rt.Expires)
	if err != nil {
		return nil, translateErr(err)
	}
	return &rt, nil
}

func (s *SQLStore) DeleteRefreshToken(token string) error {
	res, err := s.db.Exec("DELETE FROM refresh_tokens WHERE token = ?", token)
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
