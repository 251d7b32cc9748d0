package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/planora/server/internal/domain/users"
)

// UserRepository stores user records in a table keyed by email.
type UserRepository struct {
	client *dynamodb.Client
	table  string
}

func NewUserRepository(client *dynamodb.Client, table string) *UserRepository {
	return &UserRepository{client: client, table: table}
}

// Create inserts a user record, conditioned on the email key being absent.
// The conditional write makes duplicate signup detection atomic: two
// concurrent identical signups cannot both succeed.
func (r *UserRepository) Create(ctx context.Context, user users.User) error {
	item, err := attributevalue.MarshalMap(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return users.ErrUserExists
		}
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetByEmail fetches the record for an email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: email},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if out.Item == nil {
		return nil, users.ErrUserNotFound
	}

	var user users.User
	if err := attributevalue.UnmarshalMap(out.Item, &user); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &user, nil
}
