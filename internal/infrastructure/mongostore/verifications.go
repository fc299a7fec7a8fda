package mongostore

import (
	"context"
	"errors"
	"fmt"

	"github.com/bomberman-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OTPRepo manages one-time registration codes in the otp_verifications collection.
type OTPRepo struct {
	coll *mongo.Collection
}

func NewOTPRepo(db *mongo.Database) *OTPRepo {
	return &OTPRepo{coll: db.Collection(CollectionOTPs)}
}

// Upsert writes rec, replacing any code previously issued for the same email.
func (r *OTPRepo) Upsert(ctx context.Context, rec *domain.OTPRecord) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{fieldEmail: rec.Email},
		bson.M{"$set": bson.M{"otp": rec.OTP, fieldExpiresAt: rec.ExpiresAt}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *OTPRepo) Get(ctx context.Context, email string) (*domain.OTPRecord, error) {
	var rec domain.OTPRecord
	err := r.coll.FindOne(ctx, bson.M{fieldEmail: email}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("otp record not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *OTPRepo) Delete(ctx context.Context, email string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{fieldEmail: email})
	return err
}
