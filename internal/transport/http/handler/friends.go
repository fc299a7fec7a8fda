package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bomberman-api/internal/application/friend"
	"github.com/bomberman-api/internal/domain"
)

// FriendHandler handles the friend request lifecycle.
type FriendHandler struct {
	svc friend.Service
}

func NewFriendHandler(svc friend.Service) *FriendHandler { return &FriendHandler{svc: svc} }

func (h *FriendHandler) Request(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.svc.SendRequest, "Friend request sent.")
}

func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.svc.Accept, "Friend request accepted.")
}

func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.svc.Reject, "Friend request rejected.")
}

func (h *FriendHandler) handle(w http.ResponseWriter, r *http.Request, op func(context.Context, domain.FriendRequest) error, okMsg string) {
	const missing = "Email and friend code are required."
	var req domain.FriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, r, http.StatusBadRequest, missing, err)
		return
	}
	err := op(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: okMsg})
	case errors.Is(err, domain.ErrMissingInput):
		fail(w, r, http.StatusBadRequest, missing, err)
	case errors.Is(err, domain.ErrInvalidInput):
		fail(w, r, http.StatusBadRequest, "You cannot send a friend request to yourself.", err)
	case errors.Is(err, domain.ErrNotFound):
		fail(w, r, http.StatusNotFound, "User or friend request not found.", err)
	case errors.Is(err, domain.ErrConflict):
		fail(w, r, http.StatusConflict, "A friend request or friendship already exists.", err)
	default:
		fail(w, r, http.StatusInternalServerError, "Server error.", err)
	}
}
