package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cable-im/cable/internal/apierr"
	"github.com/cable-im/cable/internal/auth"
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

type contextKey string

const callerKey contextKey = "caller"

// Authenticator resolves the bearer token on a request into the caller's
// user record and places it in the request context. Handlers read the
// caller out once and pass it down explicitly.
type Authenticator struct {
	Store  store.Store
	Secret []byte
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			apierr.Write(w, apierr.New(http.StatusUnauthorized, "Authentication credentials were not provided."))
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			apierr.Write(w, apierr.New(http.StatusUnauthorized, "Authentication credentials were not provided."))
			return
		}
		userID, err := auth.UserIDFromToken(tokenString, a.Secret)
		if err != nil {
			apierr.Write(w, apierr.New(http.StatusUnauthorized, "Given token not valid for any token type"))
			return
		}

		caller, err := a.Store.UserByID(userID)
		if err != nil {
			// Token subject no longer exists (e.g. account deleted).
			apierr.Write(w, apierr.New(http.StatusUnauthorized, "Given token not valid for any token type"))
			return
		}

		ctx := context.WithValue(r.Context(), callerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CallerFrom returns the authenticated user, or nil on unauthenticated routes.
func CallerFrom(ctx context.Context) *models.User {
	caller, _ := ctx.Value(callerKey).(*models.User)
	return caller
}
