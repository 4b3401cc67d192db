package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cable-im/cable/internal/apierr"
)

func respond(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondErr(w http.ResponseWriter, err error) {
	apierr.Write(w, err)
}

// pathID reads a numeric path variable. Routes constrain the variables to
// digits, so a parse failure cannot happen for matched requests.
func pathID(r *http.Request, key string) int {
	id, _ := strconv.Atoi(mux.Vars(r)[key])
	return id
}
