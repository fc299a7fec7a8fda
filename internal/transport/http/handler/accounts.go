package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/bomberman-api/internal/application/account"
	"github.com/bomberman-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// AccountHandler handles login, profile updates and friend-code lookups.
type AccountHandler struct {
	svc account.Service
}

func NewAccountHandler(svc account.Service) *AccountHandler { return &AccountHandler{svc: svc} }

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	const missing = "Email and password are required."
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, missing, err)
		return
	}
	u, err := h.svc.Login(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Envelope{Success: true, User: u})
	case errors.Is(err, domain.ErrMissingInput):
		fail(w, r, http.StatusBadRequest, missing, err)
	case errors.Is(err, domain.ErrUnauthorized):
		fail(w, r, http.StatusUnauthorized, "Invalid email or password.", err)
	default:
		fail(w, r, http.StatusInternalServerError, "Server error during login.", err)
	}
}

func (h *AccountHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	// chi matches on the raw path, so an encoded "@" arrives as %40.
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil {
		fail(w, r, http.StatusBadRequest, "Invalid email.", err)
		return
	}
	var patch map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		fail(w, r, http.StatusBadRequest, "Invalid request body.", err)
		return
	}
	err = h.svc.UpdateUser(r.Context(), email, patch)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Envelope{Success: true})
	case errors.Is(err, domain.ErrNotFound):
		fail(w, r, http.StatusNotFound, "User not found.", err)
	case errors.Is(err, domain.ErrInvalidInput):
		fail(w, r, http.StatusBadRequest, "Invalid value for a user field.", err)
	case errors.Is(err, domain.ErrMissingInput):
		fail(w, r, http.StatusBadRequest, "Invalid request body.", err)
	default:
		fail(w, r, http.StatusInternalServerError, "Server error while updating user data.", err)
	}
}

func (h *AccountHandler) ByFriendCode(w http.ResponseWriter, r *http.Request) {
	code, err := url.PathUnescape(chi.URLParam(r, "friendCode"))
	if err != nil {
		fail(w, r, http.StatusNotFound, "User not found.", err)
		return
	}
	u, err := h.svc.FindByFriendCode(r.Context(), code)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Envelope{Success: true, User: u})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrMissingInput):
		fail(w, r, http.StatusNotFound, "User not found.", err)
	default:
		fail(w, r, http.StatusInternalServerError, "Server error.", err)
	}
}

func (h *AccountHandler) ByFriendCodes(w http.ResponseWriter, r *http.Request) {
	const notArray = "friendCodes must be an array."
	codes, err := decodeFriendCodes(r)
	if err != nil {
		fail(w, r, http.StatusBadRequest, notArray, err)
		return
	}
	users, err := h.svc.FindManyByFriendCodes(r.Context(), codes)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, UsersEnvelope{Success: true, Users: users})
	case errors.Is(err, domain.ErrInvalidInput):
		fail(w, r, http.StatusBadRequest, notArray, err)
	default:
		fail(w, r, http.StatusInternalServerError, "Server error.", err)
	}
}

// decodeFriendCodes reads {"friendCodes": [...]}. A missing or non-array
// value yields a nil slice; non-string elements are dropped.
func decodeFriendCodes(r *http.Request) ([]string, error) {
	var body struct {
		FriendCodes json.RawMessage `json:"friendCodes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	var raw []interface{}
	if err := json.Unmarshal(body.FriendCodes, &raw); err != nil || raw == nil {
		return nil, nil
	}
	codes := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			codes = append(codes, s)
		}
	}
	return codes, nil
}
