package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cable-im/cable/internal/auth"
	"github.com/cable-im/cable/internal/imagestore"
	"github.com/cable-im/cable/internal/middleware"
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store/sqlstore"
)

const testPassword = "testpassword"

var (
	testHashOnce sync.Once
	testHash     string
)

// testPasswordHash returns a bcrypt hash of testPassword at minimum cost,
// computed once to keep the suite fast.
func testPasswordHash(t *testing.T) string {
	t.Helper()
	testHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
		if err != nil {
			t.Fatal(err)
		}
		testHash = string(hash)
	})
	return testHash
}

type testEnv struct {
	t         *testing.T
	store     *sqlstore.SQLStore
	router    *mux.Router
	secret    []byte
	mediaRoot string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlstore.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	secret := []byte("test-secret")
	mediaRoot := t.TempDir()
	authn := &middleware.Authenticator{Store: s, Secret: secret}
	users := &UserHandler{Store: s, Images: imagestore.New(mediaRoot)}
	chats := &ChatHandler{Store: s}
	messages := &MessageHandler{Store: s}
	tokens := &TokenHandler{Store: s, Secret: secret, AccessTTL: time.Minute, RefreshTTL: time.Hour}

	return &testEnv{
		t:         t,
		store:     s,
		router:    NewRouter(authn, users, chats, messages, tokens),
		secret:    secret,
		mediaRoot: mediaRoot,
	}
}

func (e *testEnv) createUser(name, email string) *models.User {
	e.t.Helper()

	user := &models.User{UserName: name, EmailAddress: email, Password: testPasswordHash(e.t)}
	require.NoError(e.t, e.store.CreateUser(user))
	return user
}

// createChat creates a chat with two participants directly in the store.
func (e *testEnv) createChat(name string, users ...*models.User) *models.Chat {
	e.t.Helper()

	chat, err := e.store.CreateChat(name)
	require.NoError(e.t, err)
	for _, user := range users {
		require.NoError(e.t, e.store.AddParticipant(chat.ID, user.ID))
	}
	return chat
}

func (e *testEnv) createMessage(chat *models.Chat, sender *models.User, content string) *models.Message {
	e.t.Helper()

	msg := &models.Message{Content: content, ChatID: chat.ID, SenderID: sender.ID}
	require.NoError(e.t, e.store.CreateMessage(msg))
	return msg
}

// do performs a JSON request against the router, authenticated as caller
// when caller is non-nil.
func (e *testEnv) do(method, path string, body any, caller *models.User) *httptest.ResponseRecorder {
	e.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if caller != nil {
		token, err := auth.GenerateToken(caller.ID, e.secret, time.Minute)
		require.NoError(e.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// doMultipart performs a multipart/form-data request. When filename is
// non-empty, fileData is attached as the profile_image part.
func (e *testEnv) doMultipart(method, path string, fields map[string]string, filename string, fileData []byte, caller *models.User) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(e.t, mw.WriteField(key, value))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("profile_image", filename)
		require.NoError(e.t, err)
		_, err = part.Write(fileData)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if caller != nil {
		token, err := auth.GenerateToken(caller.ID, e.secret, time.Minute)
		require.NoError(e.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// doWithToken performs a request with a raw bearer token, for tests that
// exercise the token endpoints end to end.
func (e *testEnv) doWithToken(method, path, token string) *httptest.ResponseRecorder {
	e.t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func requireDetail(t *testing.T, rr *httptest.ResponseRecorder, status int, detail string) {
	t.Helper()

	require.Equal(t, status, rr.Code)
	body := decodeBody(t, rr)
	require.Equal(t, detail, body["detail"])
}

func chatPath(chatID int) string {
	return fmt.Sprintf("/api/chats/%d", chatID)
}

func messagePath(chatID, messageID int) string {
	return fmt.Sprintf("/api/chats/%d/messages/%d", chatID, messageID)
}
