// Package mongostore is the MongoDB driver of the persistence gateway.
package mongostore

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CollectionUsers = "users"
	CollectionOTPs  = "otp_verifications"
)

// Connect opens a client with the stable server API and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	// Nested documents in client-defined fields decode as maps so they
	// serialise back to JSON objects.
	bsonOpts := &options.BSONOptions{DefaultDocumentM: true}
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetBSONOptions(bsonOpts))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique lookup indexes and the OTP expiry index.
// Creating an index that already exists with the same options is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(CollectionUsers)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldEmail, Value: 1}}, Options: options.Index().SetName(indexEmail).SetUnique(true)},
		{Keys: bson.D{{Key: fieldFriendCode, Value: 1}}, Options: options.Index().SetName(indexFriendCode).SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	otps := db.Collection(CollectionOTPs)
	_, err = otps.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: fieldEmail, Value: 1}}, Options: options.Index().SetUnique(true)},
		// Zero grace period: documents go once expiresAt is in the past.
		{Keys: bson.D{{Key: fieldExpiresAt, Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	if err != nil {
		return fmt.Errorf("create otp indexes: %w", err)
	}
	slog.Info("mongo indexes ready", "db", db.Name())
	return nil
}
