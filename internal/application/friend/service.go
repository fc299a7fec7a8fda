// Package friend manages the request/accept/reject lifecycle that fills the
// friends, incomingRequests and pendingRequests lists on a user.
package friend

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/bomberman-api/internal/domain"
	"github.com/bomberman-api/internal/pkg/validate"
)

// Document fields written by this package.
const (
	fieldFriends          = "friends"
	fieldIncomingRequests = "incomingRequests"
	fieldPendingRequests  = "pendingRequests"
)

type Service interface {
	SendRequest(ctx context.Context, req domain.FriendRequest) error
	Accept(ctx context.Context, req domain.FriendRequest) error
	Reject(ctx context.Context, req domain.FriendRequest) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByFriendCode(ctx context.Context, code string) (*domain.User, error)
	Update(ctx context.Context, email string, updates map[string]interface{}) error
}

type ServiceDeps struct {
	UserRepo userStore
}

type service struct {
	users userStore
}

func NewService(deps ServiceDeps) Service {
	return &service{users: deps.UserRepo}
}

// SendRequest records a request from the user at req.Email to the owner of
// req.FriendCode.
func (s *service) SendRequest(ctx context.Context, req domain.FriendRequest) error {
	from, to, err := s.resolve(ctx, req)
	if err != nil {
		return err
	}
	if from.Email == to.Email {
		return fmt.Errorf("cannot befriend yourself: %w", domain.ErrInvalidInput)
	}
	switch {
	case slices.Contains(from.Friends, to.FriendCode):
		return fmt.Errorf("already friends with %s: %w", to.FriendCode, domain.ErrConflict)
	case slices.Contains(from.PendingRequests, to.FriendCode),
		slices.Contains(from.IncomingRequests, to.FriendCode):
		return fmt.Errorf("request with %s already pending: %w", to.FriendCode, domain.ErrConflict)
	}

	if err := s.write(ctx, to.Email, map[string]interface{}{
		fieldIncomingRequests: with(to.IncomingRequests, from.FriendCode),
	}); err != nil {
		return err
	}
	return s.write(ctx, from.Email, map[string]interface{}{
		fieldPendingRequests: with(from.PendingRequests, to.FriendCode),
	})
}

// Accept turns the incoming request from req.FriendCode into a friendship on
// both sides.
func (s *service) Accept(ctx context.Context, req domain.FriendRequest) error {
	me, requester, err := s.resolveIncoming(ctx, req)
	if err != nil {
		return err
	}
	if err := s.write(ctx, me.Email, map[string]interface{}{
		fieldIncomingRequests: without(me.IncomingRequests, requester.FriendCode),
		fieldFriends:          with(me.Friends, requester.FriendCode),
	}); err != nil {
		return err
	}
	return s.write(ctx, requester.Email, map[string]interface{}{
		fieldPendingRequests: without(requester.PendingRequests, me.FriendCode),
		fieldFriends:         with(requester.Friends, me.FriendCode),
	})
}

// Reject drops the incoming request from req.FriendCode on both sides.
func (s *service) Reject(ctx context.Context, req domain.FriendRequest) error {
	me, requester, err := s.resolveIncoming(ctx, req)
	if err != nil {
		return err
	}
	if err := s.write(ctx, me.Email, map[string]interface{}{
		fieldIncomingRequests: without(me.IncomingRequests, requester.FriendCode),
	}); err != nil {
		return err
	}
	return s.write(ctx, requester.Email, map[string]interface{}{
		fieldPendingRequests: without(requester.PendingRequests, me.FriendCode),
	})
}

// resolve loads the acting user and the user owning the friend code.
func (s *service) resolve(ctx context.Context, req domain.FriendRequest) (*domain.User, *domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, nil, err
	}
	me, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, storeErr("load user", err)
	}
	other, err := s.users.GetByFriendCode(ctx, req.FriendCode)
	if err != nil {
		return nil, nil, storeErr("load friend", err)
	}
	return me, other, nil
}

func (s *service) resolveIncoming(ctx context.Context, req domain.FriendRequest) (*domain.User, *domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, nil, err
	}
	me, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, storeErr("load user", err)
	}
	if !slices.Contains(me.IncomingRequests, req.FriendCode) {
		return nil, nil, fmt.Errorf("no request from %s: %w", req.FriendCode, domain.ErrNotFound)
	}
	requester, err := s.users.GetByFriendCode(ctx, req.FriendCode)
	if err != nil {
		return nil, nil, storeErr("load requester", err)
	}
	return me, requester, nil
}

func (s *service) write(ctx context.Context, email string, updates map[string]interface{}) error {
	if err := s.users.Update(ctx, email, updates); err != nil {
		return storeErr("update "+email, err)
	}
	return nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
}

// with returns a copy of list with v appended unless already present.
func with(list []string, v string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	if !slices.Contains(out, v) {
		out = append(out, v)
	}
	return out
}

// without returns a copy of list with every v removed.
func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, x := range list {
		if x != v {
			out = append(out, x)
		}
	}
	return out
}
