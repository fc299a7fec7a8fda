package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bomberman-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	fieldID         = "_id"
	fieldEmail      = "email"
	fieldFriendCode = "friendCode"
	fieldExpiresAt  = "expiresAt"

	indexEmail      = "email_1"
	indexFriendCode = "friendCode_1"

	duplicateKeyCode = 11000
)

// UserRepo provides typed operations on the users collection.
type UserRepo struct {
	coll *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(CollectionUsers)}
}

// Create inserts u. A duplicate email yields domain.ErrConflict and a
// duplicate friend code domain.ErrFriendCodeTaken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.coll.InsertOne(ctx, u)
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	if duplicateOn(err, indexFriendCode) {
		return fmt.Errorf("friend code %s: %w", u.FriendCode, domain.ErrFriendCodeTaken)
	}
	return fmt.Errorf("user already exists: %w", domain.ErrConflict)
}

// duplicateOn reports whether err holds a duplicate key write error on index.
func duplicateOn(err error, index string) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == duplicateKeyCode && strings.Contains(e.Message, "index: "+index+" ") {
			return true
		}
	}
	return false
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{fieldEmail: email})
}

func (r *UserRepo) GetByFriendCode(ctx context.Context, code string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{fieldFriendCode: code})
}

// ListByFriendCodes returns the users owning any of codes. Unknown codes are skipped.
func (r *UserRepo) ListByFriendCodes(ctx context.Context, codes []string) ([]domain.User, error) {
	users := []domain.User{}
	if len(codes) == 0 {
		return users, nil
	}
	cur, err := r.coll.Find(ctx, bson.M{fieldFriendCode: bson.M{"$in": codes}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for i := range users {
		dropID(&users[i])
	}
	return users, nil
}

// Update applies a $set of updates to the user keyed by email.
func (r *UserRepo) Update(ctx context.Context, email string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update")
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{fieldEmail: email}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	err := r.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	dropID(&u)
	return &u, nil
}

// dropID removes the document id the inline Extra map picks up on decode.
func dropID(u *domain.User) {
	delete(u.Extra, fieldID)
	if len(u.Extra) == 0 {
		u.Extra = nil
	}
}
