package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cable-im/cable/internal/models"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func createTestUserModel(name, email string) *models.User {
	return &models.User{UserName: name, EmailAddress: email, Password: "hash"}
}

func createTestUser(t *testing.T, s *SQLStore, name, email string) *models.User {
	t.Helper()

	user := createTestUserModel(name, email)
	require.NoError(t, s.CreateUser(user))
	require.NotZero(t, user.ID)

	return user
}

func newTestMessage(chatID, senderID int, content string) *models.Message {
	return &models.Message{Content: content, ChatID: chatID, SenderID: senderID}
}
