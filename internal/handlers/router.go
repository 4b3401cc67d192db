package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cable-im/cable/internal/middleware"
)

// NewRouter mounts the API surface. User reads and signup are public;
// user mutations and everything under /chats require an authenticated
// caller.
func NewRouter(authn *middleware.Authenticator, users *UserHandler, chats *ChatHandler, messages *MessageHandler, tokens *TokenHandler) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/token", tokens.Obtain).Methods("POST")
	api.HandleFunc("/token/refresh", tokens.Refresh).Methods("POST")

	api.HandleFunc("/users", users.ListUsers).Methods("GET")
	api.HandleFunc("/users", users.CreateUser).Methods("POST")
	api.HandleFunc("/users/{user_id:[0-9]+}", users.GetUser).Methods("GET")
	api.Handle("/users/{user_id:[0-9]+}", authn.Middleware(http.HandlerFunc(users.UpdateUser))).Methods("PATCH")
	api.Handle("/users/{user_id:[0-9]+}", authn.Middleware(http.HandlerFunc(users.DeleteUser))).Methods("DELETE")

	protected := api.NewRoute().Subrouter()
	protected.Use(authn.Middleware)
	protected.HandleFunc("/chats", chats.ListChats).Methods("GET")
	protected.HandleFunc("/chats", chats.CreateChat).Methods("POST")
	protected.HandleFunc("/chats/{chat_id:[0-9]+}", chats.GetChat).Methods("GET")
	protected.HandleFunc("/chats/{chat_id:[0-9]+}", chats.UpdateChat).Methods("PATCH")
	protected.HandleFunc("/chats/{chat_id:[0-9]+}", chats.DeleteChat).Methods("DELETE")
	protected.HandleFunc("/chats/{chat_id:[0-9]+}/messages", messages.ListMessages).Methods("GET")
	protected.HandleFunc("/chats/{chat_id:[0-9]+}/messages", messages.CreateMessage).Methods("POST")
	protected.HandleFunc("/chats/{chat_id:[0-9]+}/messages/{message_id:[0-9]+}", messages.GetMessage).Methods("GET")
	protected.HandleFunc("/chats/{chat_id:[0-9]+}/messages/{message_id:[0-9]+}", messages.UpdateMessage).Methods("PATCH")
	protected.HandleFunc("/chats/{chat_id:[0-9]+}/messages/{message_id:[0-9]+}", messages.DeleteMessage).Methods("DELETE")

	return r
}
