package friend

import (
	"context"
	"errors"
	"testing"

	"github.com/bomberman-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memUsers applies list updates to typed users.
type memUsers struct {
	byEmail   map[string]*domain.User
	updateErr error
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{byEmail: map[string]*domain.User{}}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByFriendCode(_ context.Context, code string) (*domain.User, error) {
	for _, u := range m.byEmail {
		if u.FriendCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) Update(_ context.Context, email string, updates map[string]interface{}) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	u, ok := m.byEmail[email]
	if !ok {
		return domain.ErrNotFound
	}
	for k, v := range updates {
		list := v.([]string)
		switch k {
		case fieldFriends:
			u.Friends = list
		case fieldIncomingRequests:
			u.IncomingRequests = list
		case fieldPendingRequests:
			u.PendingRequests = list
		}
	}
	return nil
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) GetByFriendCode(ctx context.Context, code string) (*domain.User, error) {
	args := m.Called(ctx, code)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, email string, updates map[string]interface{}) error {
	return m.Called(ctx, email, updates).Error(0)
}

func players() (*domain.User, *domain.User) {
	return domain.NewUser("alice@x.io", "h", "11111111"), domain.NewUser("bob@x.io", "h", "22222222")
}

func TestSendRequest_RecordsBothSides(t *testing.T) {
	alice, bob := players()
	store := newMemUsers(alice, bob)
	svc := NewService(ServiceDeps{UserRepo: store})

	err := svc.SendRequest(context.Background(), domain.FriendRequest{Email: "alice@x.io", FriendCode: "22222222"})

	require.NoError(t, err)
	assert.Equal(t, []string{"22222222"}, alice.PendingRequests)
	assert.Equal(t, []string{"11111111"}, bob.IncomingRequests)
}

func TestSendRequest_MissingFields(t *testing.T) {
	svc := NewService(ServiceDeps{UserRepo: newMemUsers()})
	err := svc.SendRequest(context.Background(), domain.FriendRequest{Email: "alice@x.io"})
	assert.ErrorIs(t, err, domain.ErrMissingInput)
}

func TestSendRequest_UnknownParties(t *testing.T) {
	alice, _ := players()
	svc := NewService(ServiceDeps{UserRepo: newMemUsers(alice)})

	err := svc.SendRequest(context.Background(), domain.FriendRequest{Email: "alice@x.io", FriendCode: "99999999"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.SendRequest(context.Background(), domain.FriendRequest{Email: "ghost@x.io", FriendCode: "11111111"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSendRequest_Self(t *testing.T) {
	alice, _ := players()
	svc := NewService(ServiceDeps{UserRepo: newMemUsers(alice)})

	err := svc.SendRequest(context.Background(), domain.FriendRequest{Email: "alice@x.io", FriendCode: "11111111"})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSendRequest_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		setup func(alice *domain.User)
	}{
		{"already friends", func(a *domain.User) { a.Friends = []string{"22222222"} }},
		{"already pending", func(a *domain.User) { a.PendingRequests = []string{"22222222"} }},
		{"incoming from target", func(a *domain.User) { a.IncomingRequests = []string{"22222222"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alice, bob := players()
			tt.setup(alice)
			svc := NewService(ServiceDeps{UserRepo: newMemUsers(alice, bob)})

			err := svc.SendRequest(context.Background(), domain.FriendRequest{Email: "alice@x.io", FriendCode: "22222222"})

			assert.ErrorIs(t, err, domain.ErrConflict)
			assert.Empty(t, bob.IncomingRequests)
		})
	}
}

func TestAccept_MakesFriends(t *testing.T) {
	alice, bob := players()
	store := newMemUsers(alice, bob)
	svc := NewService(ServiceDeps{UserRepo: store})
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, domain.FriendRequest{Email: "alice@x.io", FriendCode: "22222222"}))
	require.NoError(t, svc.Accept(ctx, domain.FriendRequest{Email: "bob@x.io", FriendCode: "11111111"}))

	assert.Equal(t, []string{"22222222"}, alice.Friends)
	assert.Equal(t, []string{"11111111"}, bob.Friends)
	assert.Empty(t, alice.PendingRequests)
	assert.Empty(t, bob.IncomingRequests)
}

func TestReject_DropsRequest(t *testing.T) {
	alice, bob := players()
	store := newMemUsers(alice, bob)
	svc := NewService(ServiceDeps{UserRepo: store})
	ctx := context.Background()

	require.NoError(t, svc.SendRequest(ctx, domain.FriendRequest{Email: "alice@x.io", FriendCode: "22222222"}))
	require.NoError(t, svc.Reject(ctx, domain.FriendRequest{Email: "bob@x.io", FriendCode: "11111111"}))

	assert.Empty(t, alice.Friends)
	assert.Empty(t, bob.Friends)
	assert.Empty(t, alice.PendingRequests)
	assert.Empty(t, bob.IncomingRequests)
}

func TestAcceptReject_NoSuchRequest(t *testing.T) {
	alice, bob := players()
	svc := NewService(ServiceDeps{UserRepo: newMemUsers(alice, bob)})
	req := domain.FriendRequest{Email: "bob@x.io", FriendCode: "11111111"}

	assert.ErrorIs(t, svc.Accept(context.Background(), req), domain.ErrNotFound)
	assert.ErrorIs(t, svc.Reject(context.Background(), req), domain.ErrNotFound)
}

func TestSendRequest_StoreFailure(t *testing.T) {
	alice, bob := players()
	store := newMemUsers(alice, bob)
	store.updateErr = errors.New("boom")
	svc := NewService(ServiceDeps{UserRepo: store})

	err := svc.SendRequest(context.Background(), domain.FriendRequest{Email: "alice@x.io", FriendCode: "22222222"})

	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestSendRequest_WritesTargetFirst(t *testing.T) {
	alice, bob := players()
	us := &mockUserStore{}
	us.On("GetByEmail", mock.Anything, "alice@x.io").Return(alice, nil)
	us.On("GetByFriendCode", mock.Anything, "22222222").Return(bob, nil)
	us.On("Update", mock.Anything, "bob@x.io", map[string]interface{}{
		fieldIncomingRequests: []string{"11111111"},
	}).Return(errors.New("boom"))

	err := NewService(ServiceDeps{UserRepo: us}).SendRequest(context.Background(), domain.FriendRequest{Email: "alice@x.io", FriendCode: "22222222"})

	assert.ErrorIs(t, err, domain.ErrPersistence)
	us.AssertNotCalled(t, "Update", mock.Anything, "alice@x.io", mock.Anything)
	us.AssertExpectations(t)
}

func TestWithWithout(t *testing.T) {
	base := []string{"a", "b"}
	assert.Equal(t, []string{"a", "b", "c"}, with(base, "c"))
	assert.Equal(t, []string{"a", "b"}, with(base, "a"))
	assert.Equal(t, []string{"b"}, without(base, "a"))
	assert.Equal(t, []string{"a", "b"}, base)
}
