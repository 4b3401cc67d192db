package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMessagesEmptyChat(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	chat := env.createChat("", martha, homer)

	rr := env.do("GET", chatPath(chat.ID)+"/messages", nil, martha)
	requireDetail(t, rr, http.StatusNotFound, "These objects do not exist.")
}

func TestListMessagesChatMissing(t *testing.T) {
	env := newTestEnv(t)
	caller := env.createUser("martha", "martha@example.com")

	rr := env.do("GET", "/api/chats/999/messages", nil, caller)
	requireDetail(t, rr, http.StatusNotFound, "These objects do not exist.")
}

func TestListMessages(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	chat := env.createChat("", martha, homer)
	env.createMessage(chat, martha, "one")
	env.createMessage(chat, homer, "two")

	rr := env.do("GET", chatPath(chat.ID)+"/messages", nil, martha)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	messages := body["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "one", messages[0].(map[string]any)["content"])
	assert.Equal(t, "two", messages[1].(map[string]any)["content"])
}

func TestCreateMessage(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	chat := env.createChat("", martha, homer)

	rr := env.do("POST", chatPath(chat.ID)+"/messages", map[string]string{"content": "hello"}, martha)
	require.Equal(t, http.StatusCreated, rr.Code)

	body := decodeBody(t, rr)
	msg := body["new_message"].(map[string]any)
	assert.Equal(t, "hello", msg["content"])
	assert.Equal(t, float64(martha.ID), msg["sender"])
	assert.Equal(t, float64(chat.ID), msg["chat"])

	// Timestamps serialize as ISO-8601 with microseconds and a Z suffix.
	_, err := time.Parse("2006-01-02T15:04:05.000000Z", msg["date_created"].(string))
	assert.NoError(t, err)
}

func TestCreateMessageContentRequired(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	chat := env.createChat("", martha, homer)

	rr := env.do("POST", chatPath(chat.ID)+"/messages", map[string]string{}, martha)
	requireDetail(t, rr, http.StatusBadRequest, "content: This field is required.")
}

func TestCreateMessageNonMember(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	outsider := env.createUser("ned", "ned@example.com")
	chat := env.createChat("", martha, homer)

	rr := env.do("POST", chatPath(chat.ID)+"/messages", map[string]string{"content": "hi"}, outsider)
	requireDetail(t, rr, http.StatusUnauthorized, "Unauthorized to use this method on this endpoint or object.")
}

func TestCreateMessageChatMissing(t *testing.T) {
	env := newTestEnv(t)
	caller := env.createUser("martha", "martha@example.com")

	rr := env.do("POST", "/api/chats/999/messages", map[string]string{"content": "hi"}, caller)
	requireDetail(t, rr, http.StatusNotFound, "This object does not exist.")
}

func TestGetMessage(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	chat := env.createChat("", martha, homer)
	msg := env.createMessage(chat, homer, "hello")

	rr := env.do("GET", messagePath(chat.ID, msg.ID), nil, martha)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	got := body["message"].(map[string]any)
	assert.Equal(t, float64(msg.ID), got["id"])
	assert.Equal(t, "hello", got["content"])
}

func TestGetMessageFromOtherChatIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	ned := env.createUser("ned", "ned@example.com")

	chatA := env.createChat("", martha, homer)
	chatB := env.createChat("", martha, ned)
	msgInB := env.createMessage(chatB, ned, "elsewhere")

	// The message exists, but under a different chat than the path names.
	rr := env.do("GET", messagePath(chatA.ID, msgInB.ID), nil, martha)
	requireDetail(t, rr, http.StatusUnauthorized, "Unauthorized to use this method on this endpoint or object.")
}

func TestGetMessageNotFound(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	chat := env.createChat("", martha, homer)

	rr := env.do("GET", messagePath(chat.ID, 999), nil, martha)
	requireDetail(t, rr, http.StatusNotFound, "This object does not exist.")
}

func TestUpdateMessageByOtherParticipant(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	chat := env.createChat("", martha, homer)
	msg := env.createMessage(chat, homer, "before")

	// Membership, not authorship, gates message edits.
	rr := env.do("PATCH", messagePath(chat.ID, msg.ID), map[string]string{"content": "after"}, martha)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	updated := body["updated_message"].(map[string]any)
	assert.Equal(t, "after", updated["content"])
	assert.Equal(t, float64(homer.ID), updated["sender"], "sender is unchanged by edits")
}

func TestDeleteMessage(t *testing.T) {
	env := newTestEnv(t)
	martha := env.createUser("martha", "martha@example.com")
	homer := env.createUser("homer", "homer@example.com")
	chat := env.createChat("", martha, homer)
	msg := env.createMessage(chat, martha, "hello")

	rr := env.do("DELETE", messagePath(chat.ID, msg.ID), nil, martha)
	requireDetail(t, rr, http.StatusOK, "This object has been deleted.")

	rr = env.do("GET", messagePath(chat.ID, msg.ID), nil, martha)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMessageEndpointsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/chats", "/api/chats/1", "/api/chats/1/messages", "/api/chats/1/messages/1"} {
		rr := env.do("GET", path, nil, nil)
		require.Equal(t, http.StatusUnauthorized, rr.Code, fmt.Sprintf("GET %s", path))
	}
}
