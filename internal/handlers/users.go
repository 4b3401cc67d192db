package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/cable-im/cable/internal/apierr"
	"github.com/cable-im/cable/internal/auth"
	"github.com/cable-im/cable/internal/imagestore"
	"github.com/cable-im/cable/internal/middleware"
	"github.com/cable-im/cable/internal/models"
	"github.com/cable-im/cable/internal/store"
)

const maxImageSize = 10 << 20

type UserHandler struct {
	Store  store.Store
	Images *imagestore.Store
}

// userPayload carries the writable user fields. Pointer fields distinguish
// "absent" from "set": on update only non-nil fields are applied.
type userPayload struct {
	UserName     *string `json:"user_name"`
	EmailAddress *string `json:"email_address"`
	Password     *string `json:"password"`

	image *uploadedImage
}

type uploadedImage struct {
	filename string
	data     []byte
}

// parseUserPayload accepts either multipart/form-data (with an optional
// profile_image file part) or a plain JSON body.
func parseUserPayload(r *http.Request) (*userPayload, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageSize); err != nil {
			return nil, apierr.BadRequest("Malformed request body.")
		}

		payload := &userPayload{}
		for key, dst := range map[string]**string{
			"user_name":     &payload.UserName,
			"email_address": &payload.EmailAddress,
			"password":      &payload.Password,
		} {
			if values := r.MultipartForm.Value[key]; len(values) > 0 {
				value := values[0]
				*dst = &value
			}
		}

		if file, header, err := r.FormFile("profile_image"); err == nil {
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				return nil, err
			}
			payload.image = &uploadedImage{filename: header.Filename, data: data}
		}
		return payload, nil
	}

	payload := &userPayload{}
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil && !errors.Is(err, io.EOF) {
		return nil, apierr.BadRequest("Malformed request body.")
	}
	return payload, nil
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.Users()
	if err != nil {
		respondErr(w, err)
		return
	}
	if len(users) == 0 {
		respondErr(w, apierr.NotFoundMany)
		return
	}

	respond(w, http.StatusOK, map[string]any{"users": newUserViews(users)})
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	payload, err := parseUserPayload(r)
	if err != nil {
		respondErr(w, err)
		return
	}
	if payload.UserName == nil || *payload.UserName == "" {
		respondErr(w, apierr.FieldRequired("user_name"))
		return
	}
	if payload.EmailAddress == nil || *payload.EmailAddress == "" {
		respondErr(w, apierr.FieldRequired("email_address"))
		return
	}
	if payload.Password == nil || *payload.Password == "" {
		respondErr(w, apierr.FieldRequired("password"))
		return
	}

	hash, err := auth.HashPassword(*payload.Password)
	if err != nil {
		respondErr(w, err)
		return
	}

	user := &models.User{
		UserName:     *payload.UserName,
		EmailAddress: *payload.EmailAddress,
		Password:     hash,
	}

	if payload.image != nil {
		url, err := h.Images.Save(user.EmailAddress, payload.image.filename, bytes.NewReader(payload.image.data))
		if err != nil {
			respondErr(w, err)
			return
		}
		user.ProfileImage = url
	}

	if err := h.Store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respondErr(w, apierr.DuplicateEmail)
			return
		}
		respondErr(w, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{"new_user": newUserView(user)})
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := resolveUser(h.Store, pathID(r, "user_id"))
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"user": newUserView(user)})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	payload, err := parseUserPayload(r)
	if err != nil {
		respondErr(w, err)
		return
	}

	id := pathID(r, "user_id")
	user, err := resolveUser(h.Store, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := requireSelf(user, caller); err != nil {
		respondErr(w, err)
		return
	}

	upd := store.UserUpdate{
		UserName:     payload.UserName,
		EmailAddress: payload.EmailAddress,
	}
	if payload.Password != nil {
		hash, err := auth.HashPassword(*payload.Password)
		if err != nil {
			respondErr(w, err)
			return
		}
		upd.Password = &hash
	}
	if payload.image != nil {
		email := user.EmailAddress
		if payload.EmailAddress != nil {
			email = *payload.EmailAddress
		}
		url, err := h.Images.Save(email, payload.image.filename, bytes.NewReader(payload.image.data))
		if err != nil {
			respondErr(w, err)
			return
		}
		upd.ProfileImage = &url
	}

	if err := h.Store.UpdateUser(id, upd); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			respondErr(w, apierr.DuplicateEmail)
			return
		}
		respondErr(w, err)
		return
	}

	updated, err := resolveUser(h.Store, id)
	if err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"updated_user": newUserView(updated)})
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	id := pathID(r, "user_id")
	user, err := resolveUser(h.Store, id)
	if err != nil {
		respondErr(w, err)
		return
	}
	if err := requireSelf(user, caller); err != nil {
		respondErr(w, err)
		return
	}

	if err := h.Store.DeleteUser(id); err != nil {
		respondErr(w, err)
		return
	}

	respond(w, http.StatusOK, map[string]string{"detail": "This object has been deleted."})
}
