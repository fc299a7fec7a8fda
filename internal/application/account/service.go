package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/bomberman-api/internal/domain"
	"github.com/bomberman-api/internal/pkg/password"
	"github.com/bomberman-api/internal/pkg/validate"
)

// fieldPassword carries a new plain password in a profile patch.
const fieldPassword = "password"

type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, email string, patch map[string]interface{}) error
	FindByFriendCode(ctx context.Context, code string) (*domain.User, error)
	FindManyByFriendCodes(ctx context.Context, codes []string) ([]domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByFriendCode(ctx context.Context, code string) (*domain.User, error)
	ListByFriendCodes(ctx context.Context, codes []string) ([]domain.User, error)
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

// Login checks req against the stored hash. Unknown emails and wrong
// passwords both yield domain.ErrUnauthorized.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrNotFound) {
		password.Burn(req.Password)
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w: %w", domain.ErrPersistence, err)
	}
	if !password.Verify(u.PasswordHash, req.Password) {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// UpdateUser overwrites each top-level field named in patch. The email key is
// ignored and a plain "password" is stored as a fresh hash. Values for typed
// fields must match their type; any other field is stored as sent.
func (s *service) UpdateUser(ctx context.Context, email string, patch map[string]interface{}) error {
	if email == "" {
		return fmt.Errorf("email: %w", domain.ErrMissingInput)
	}
	updates := make(map[string]interface{}, len(patch))
	for k, v := range patch {
		switch k {
		case domain.FieldEmail, domain.FieldPasswordHash:
			continue
		case fieldPassword:
			plain, ok := v.(string)
			if !ok || plain == "" {
				return fmt.Errorf("password must be a non-empty string: %w", domain.ErrInvalidInput)
			}
			hash, err := password.Hash(plain)
			if err != nil {
				return err
			}
			updates[domain.FieldPasswordHash] = hash
		default:
			nv, err := normalizeValue(k, v)
			if err != nil {
				return err
			}
			updates[k] = nv
		}
	}

	if len(updates) == 0 {
		_, err := s.users.GetByEmail(ctx, email)
		return wrapStoreErr("load user", err)
	}
	return wrapStoreErr("update user", s.users.Update(ctx, email, updates))
}

func (s *service) FindByFriendCode(ctx context.Context, code string) (*domain.User, error) {
	if code == "" {
		return nil, fmt.Errorf("friend code: %w", domain.ErrMissingInput)
	}
	u, err := s.users.GetByFriendCode(ctx, code)
	if err != nil {
		return nil, wrapStoreErr("find by friend code", err)
	}
	return u, nil
}

// FindManyByFriendCodes returns the owners of codes; unknown codes are
// omitted. A nil slice means the caller sent no list at all.
func (s *service) FindManyByFriendCodes(ctx context.Context, codes []string) ([]domain.User, error) {
	if codes == nil {
		return nil, fmt.Errorf("friendCodes must be an array: %w", domain.ErrInvalidInput)
	}
	if len(codes) == 0 {
		return []domain.User{}, nil
	}
	users, err := s.users.ListByFriendCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("list by friend codes: %w: %w", domain.ErrPersistence, err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// wrapStoreErr passes domain.ErrNotFound through and tags anything else as a
// persistence failure.
func wrapStoreErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
	}
}
