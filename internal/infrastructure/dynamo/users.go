package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/bomberman-api/internal/domain"
	"golang.org/x/sync/errgroup"
)

// maxParallelLookups bounds the GSI queries issued by ListByFriendCodes.
const maxParallelLookups = 8

// UserRepo provides typed DynamoDB operations for the users table.
// PK: email, GSI friendCode-index on friendCode.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Create inserts u. It fails with domain.ErrConflict when the email is taken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	item, err := encodeUser(u)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#pk)"),
		ExpressionAttributeNames: map[string]string{"#pk": fieldEmail},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("user already exists: %w", domain.ErrConflict)
	}
	return err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return decodeUser(out.Item)
}

func (r *UserRepo) GetByFriendCode(ctx context.Context, code string) (*domain.User, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		IndexName:                 aws.String(indexFriendCode),
		KeyConditionExpression:    aws.String("#a = :v"),
		ExpressionAttributeNames:  map[string]string{"#a": fieldFriendCode},
		ExpressionAttributeValues: map[string]types.AttributeValue{":v": &types.AttributeValueMemberS{Value: code}},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return decodeUser(out.Items[0])
}

// ListByFriendCodes returns the users owning any of codes, in input order.
// Codes without an owner are skipped. GSIs don't support BatchGetItem, so
// each code is one bounded-parallel query.
func (r *UserRepo) ListByFriendCodes(ctx context.Context, codes []string) ([]domain.User, error) {
	codes = dedupe(codes)
	found := make([]*domain.User, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for i, c := range codes {
		g.Go(func() error {
			u, err := r.GetByFriendCode(gctx, c)
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("lookup %s: %w", c, err)
			}
			found[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(codes))
	for _, u := range found {
		if u != nil {
			users = append(users, *u)
		}
	}
	return users, nil
}

// Update applies a field-level SET of updates to the user keyed by email.
// It fails with domain.ErrNotFound when no such user exists.
func (r *UserRepo) Update(ctx context.Context, email string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	ue.Names["#pk"] = fieldEmail
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldEmail, email),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(#pk)"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return err
}

// encodeUser marshals the typed fields and adds every Extra attribute.
func encodeUser(u *domain.User) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(u)
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}
	for k, v := range u.Extra {
		if domain.IsUserField(k) {
			continue
		}
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", k, err)
		}
		item[k] = av
	}
	return item, nil
}

// decodeUser reads the typed fields of item and keeps the remaining
// attributes in Extra.
func decodeUser(item map[string]types.AttributeValue) (*domain.User, error) {
	var u domain.User
	if err := attributevalue.UnmarshalMap(item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	var doc map[string]interface{}
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal user attributes: %w", err)
	}
	u.SetExtra(doc)
	return &u, nil
}
