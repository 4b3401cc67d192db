package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cable-im/cable/internal/apierr"
	"github.com/cable-im/cable/internal/auth"
	"github.com/cable-im/cable/internal/store"
)

// TokenHandler issues access tokens against stored credentials and rotates
// server-stored refresh tokens.
type TokenHandler struct {
	Store      store.Store
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (h *TokenHandler) issuePair(userID int) (*tokenPair, error) {
	access, err := auth.GenerateToken(userID, h.Secret, h.AccessTTL)
	if err != nil {
		return nil, err
	}

	refresh := uuid.NewString()
	if err := h.Store.CreateRefreshToken(refresh, userID, time.Now().UTC().Add(h.RefreshTTL)); err != nil {
		return nil, err
	}

	return &tokenPair{Access: access, Refresh: refresh}, nil
}

func (h *TokenHandler) Obtain(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		EmailAddress *string `json:"email_address"`
		Password     *string `json:"password"`
	}
	if err := decodeJSON(r, &creds); err != nil {
		respondErr(w, err)
		return
	}
	if creds.EmailAddress == nil || *creds.EmailAddress == "" {
		respondErr(w, apierr.FieldRequired("email_address"))
		return
	}
	if creds.Password == nil || *creds.Password == "" {
		respondErr(w, apierr.FieldRequired("password"))
		return
	}

	user, err := h.Store.UserByEmail(*creds.EmailAddress)
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, apierr.New(http.StatusUnauthorized, "No active account found with the given credentials"))
		return
	}
	if err != nil {
		respondErr(w, err)
		return
	}
	if !auth.CheckPasswordHash(*creds.Password, user.Password) {
		respondErr(w, apierr.New(http.StatusUnauthorized, "No active account found with the given credentials"))
		return
	}

	pair, err := h.issuePair(user.ID)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, pair)
}

func (h *TokenHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh *string `json:"refresh"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}
	if req.Refresh == nil || *req.Refresh == "" {
		respondErr(w, apierr.FieldRequired("refresh"))
		return
	}

	token, err := h.Store.RefreshTokenByValue(*req.Refresh)
	if errors.Is(err, store.ErrNotFound) {
		respondErr(w, apierr.New(http.StatusUnauthorized, "Token is invalid or expired"))
		return
	}
	if err != nil {
		respondErr(w, err)
		return
	}

	// Rotation: the presented token is single-use.
	if err := h.Store.DeleteRefreshToken(token.Token); err != nil {
		respondErr(w, err)
		return
	}
	if token.Expires.Before(time.Now()) {
		respondErr(w, apierr.New(http.StatusUnauthorized, "Token is invalid or expired"))
		return
	}

	pair, err := h.issuePair(token.UserID)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, pair)
}
