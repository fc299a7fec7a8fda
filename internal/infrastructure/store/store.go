// Package store is the persistence gateway: it opens the configured document
// store driver and exposes its repositories behind driver-neutral interfaces.
package store

import (
	"context"
	"fmt"

	"github.com/bomberman-api/internal/config"
	"github.com/bomberman-api/internal/domain"
	"github.com/bomberman-api/internal/infrastructure/dynamo"
	"github.com/bomberman-api/internal/infrastructure/mongostore"
)

// Users is the users collection.
type Users interface {
	// Create inserts a new user; a taken email yields domain.ErrConflict.
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByFriendCode(ctx context.Context, code string) (*domain.User, error)
	// ListByFriendCodes skips codes that match no user.
	ListByFriendCodes(ctx context.Context, codes []string) ([]domain.User, error)
	// Update overwrites the named top-level fields; a missing user yields domain.ErrNotFound.
	Update(ctx context.Context, email string, updates map[string]interface{}) error
}

// OTPs is the otp_verifications collection. Records expire on their own via
// the store's TTL mechanism.
type OTPs interface {
	Upsert(ctx context.Context, rec *domain.OTPRecord) error
	Get(ctx context.Context, email string) (*domain.OTPRecord, error)
	Delete(ctx context.Context, email string) error
}

// Gateway owns an open store connection.
type Gateway struct {
	Users Users
	OTPs  OTPs

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Open connects to the driver named by cfg.StoreDriver and prepares its
// tables or indexes. Any error means the store is unusable.
func Open(ctx context.Context, cfg *config.Config) (*Gateway, error) {
	switch cfg.StoreDriver {
	case config.StoreDynamo:
		return openDynamo(ctx, cfg)
	case config.StoreMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Ping reports whether the store is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	if g.ping == nil {
		return nil
	}
	return g.ping(ctx)
}

// Close releases the underlying connection.
func (g *Gateway) Close(ctx context.Context) error {
	if g.close == nil {
		return nil
	}
	return g.close(ctx)
}

func openDynamo(ctx context.Context, cfg *config.Config) (*Gateway, error) {
	client, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := dynamo.Bootstrap(ctx, client, cfg.DynamoTables); err != nil {
		return nil, fmt.Errorf("bootstrap dynamo: %w", err)
	}
	return &Gateway{
		Users: dynamo.NewUserRepo(client, cfg.DynamoTables.Users),
		OTPs:  dynamo.NewOTPRepo(client, cfg.DynamoTables.OTPVerifications),
		ping: func(ctx context.Context) error {
			return dynamo.Ping(ctx, client, cfg.DynamoTables)
		},
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config) (*Gateway, error) {
	client, err := mongostore.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDatabase)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Gateway{
		Users: mongostore.NewUserRepo(db),
		OTPs:  mongostore.NewOTPRepo(db),
		ping: func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
		close: client.Disconnect,
	}, nil
}
