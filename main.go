package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/cable-im/cable/internal/config"
	"github.com/cable-im/cable/internal/handlers"
	"github.com/cable-im/cable/internal/imagestore"
	"github.com/cable-im/cable/internal/middleware"
	"github.com/cable-im/cable/internal/store/sqlstore"
)

var addr = flag.String("addr", "", "http service address (overrides CABLE_ADDR)")

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()
	if *addr != "" {
		cfg.Addr = *addr
	}

	store, err := sqlstore.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	images := imagestore.New(cfg.MediaRoot)
	secret := []byte(cfg.JWTSecret)

	authn := &middleware.Authenticator{Store: store, Secret: secret}
	userHandler := &handlers.UserHandler{Store: store, Images: images}
	chatHandler := &handlers.ChatHandler{Store: store}
	messageHandler := &handlers.MessageHandler{Store: store}
	tokenHandler := &handlers.TokenHandler{
		Store:      store,
		Secret:     secret,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
	}

	r := handlers.NewRouter(authn, userHandler, chatHandler, messageHandler, tokenHandler)
	r.Use(loggingMiddleware)

	// Profile images
	r.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(cfg.MediaRoot))))

	log.Println("Starting server on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
