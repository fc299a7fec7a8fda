package mongostore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bomberman-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

// startMongo runs a throwaway mongo:7 container and returns an indexed database.
// The test is skipped under -short or when no Docker daemon is reachable.
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	client, err := Connect(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	db := client.Database("bomberman_test")
	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestUserRepo_Integration(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()
	repo := NewUserRepo(db)

	require.NoError(t, repo.Create(ctx, domain.NewUser("a@x.com", "hash", "12345678")))

	err := repo.Create(ctx, domain.NewUser("a@x.com", "hash", "87654321"))
	assert.True(t, errors.Is(err, domain.ErrConflict))
	err = repo.Create(ctx, domain.NewUser("b@x.com", "hash", "12345678"))
	assert.True(t, errors.Is(err, domain.ErrFriendCodeTaken), "friend codes are unique")
	assert.False(t, errors.Is(err, domain.ErrConflict))

	got, err := repo.GetByFriendCode(ctx, "12345678")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, domain.DefaultLevel, got.Level)

	many, err := repo.ListByFriendCodes(ctx, []string{"12345678", "22222222"})
	require.NoError(t, err)
	assert.Len(t, many, 1)

	require.NoError(t, repo.Update(ctx, "a@x.com", map[string]interface{}{"level": 3}))
	got, err = repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Level)

	err = repo.Update(ctx, "nobody@x.com", map[string]interface{}{"level": 3})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserRepo_ExtraAndPatchedFields_Integration(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()
	repo := NewUserRepo(db)
	require.NoError(t, repo.Create(ctx, domain.NewUser("a@x.com", "hash", "12345678")))

	require.NoError(t, repo.Update(ctx, "a@x.com", map[string]interface{}{
		"skin":            "red",
		"settings":        map[string]interface{}{"volume": 0.5},
		"xp":              int64(40),
		"deathmatchStats": domain.DeathmatchStats{HighestScore: 900, EnemiesKilled: map[string]int{"balloon": 3}},
	}))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 40, got.XP)
	assert.Equal(t, 3, got.DeathmatchStats.EnemiesKilled["balloon"])
	assert.Equal(t, "red", got.Extra["skin"])
	assert.NotContains(t, got.Extra, "_id")
	body, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"settings":{"volume":0.5}`)

	many, err := repo.ListByFriendCodes(ctx, []string{"12345678"})
	require.NoError(t, err)
	require.Len(t, many, 1)
	assert.Equal(t, "red", many[0].Extra["skin"])

	// A mistyped value for a typed field makes the document unreadable,
	// which is why patches are checked before they reach the store.
	require.NoError(t, repo.Update(ctx, "a@x.com", map[string]interface{}{"xp": "ten"}))
	_, err = repo.GetByEmail(ctx, "a@x.com")
	assert.Error(t, err)
}

func TestOTPRepo_Integration(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()
	repo := NewOTPRepo(db)

	expires := time.Now().Add(10 * time.Minute).Truncate(time.Millisecond)
	require.NoError(t, repo.Upsert(ctx, &domain.OTPRecord{Email: "a@x.com", OTP: "111111", ExpiresAt: expires}))
	require.NoError(t, repo.Upsert(ctx, &domain.OTPRecord{Email: "a@x.com", OTP: "222222", ExpiresAt: expires}))

	rec, err := repo.Get(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", rec.OTP)
	assert.True(t, expires.Equal(rec.ExpiresAt))

	require.NoError(t, repo.Delete(ctx, "a@x.com"))
	_, err = repo.Get(ctx, "a@x.com")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
