package sqlstore

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/cable-im/cable/internal/store"
)

type SQLStore struct {
	db *sql.DB
}

func New(dataSourceName string) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	// A single connection keeps sqlite writes serialized and makes
	// :memory: databases behave under the connection pool.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLStore{db: db}
	if err := s.createTables(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) createTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_name TEXT NOT NULL,
		email_address TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		profile_image TEXT NOT NULL DEFAULT '',
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		is_staff BOOLEAN NOT NULL DEFAULT FALSE,
		date_created DATETIME NOT NULL,
		date_modified DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		display_name TEXT NOT NULL DEFAULT '',
		date_created DATETIME NOT NULL,
		date_modified DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS participants (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date_created DATETIME NOT NULL,
		date_modified DATETIME NOT NULL,
		UNIQUE (chat_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		chat_id INTEGER NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
		sender_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		date_created DATETIME NOT NULL,
		date_modified DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS refresh_tokens (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		expires DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(query)
	return err
}

// now returns the current UTC time truncated to microseconds, matching the
// precision the API serializes timestamps with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// translateErr maps driver errors to the store's sentinel errors.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return store.ErrDuplicate
	}
	return err
}
