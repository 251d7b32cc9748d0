package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/planora/server/internal/domain/events"
)

// EventRepository stores event records in a table with a composite
// (userId, eventId) key.
type EventRepository struct {
	client *dynamodb.Client
	table  string
}

func NewEventRepository(client *dynamodb.Client, table string) *EventRepository {
	return &EventRepository{client: client, table: table}
}

// Put stores a full event record.
func (r *EventRepository) Put(ctx context.Context, event events.Event) error {
	item, err := attributevalue.MarshalMap(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put event: %w", err)
	}
	return nil
}

// ListByOwner queries the owner's partition, following the pagination
// cursor until the partition is exhausted.
func (r *EventRepository) ListByOwner(ctx context.Context, ownerEmail string) ([]events.Event, error) {
	var items []events.Event
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Query(ctx, &dynamodb.QueryInput{
			TableName:              aws.String(r.table),
			KeyConditionExpression: aws.String("userId = :uid"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":uid": &types.AttributeValueMemberS{Value: ownerEmail},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("query events: %w", err)
		}

		var page []events.Event
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal events: %w", err)
		}
		items = append(items, page...)

		if out.LastEvaluatedKey == nil {
			return items, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// ApplyPatch translates the sparse patch into an UpdateExpression keyed to
// (ownerEmail, eventID) and conditioned on the key existing, so an eventId
// from another owner's partition fails without touching anything. Returns
// the full post-update record.
func (r *EventRepository) ApplyPatch(ctx context.Context, ownerEmail, eventID string, patch events.Patch, updatedAt int64) (*events.Event, error) {
	expr, names, values := buildUpdateExpression(patch, updatedAt)

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"userId":  &types.AttributeValueMemberS{Value: ownerEmail},
			"eventId": &types.AttributeValueMemberS{Value: eventID},
		},
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       aws.String("attribute_exists(userId) AND attribute_exists(eventId)"),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}

	var updated events.Event
	if err := attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &updated, nil
}

// Delete removes the record at (ownerEmail, eventID). DynamoDB deletes are
// idempotent, which matches the contract: a missing key is not an error.
func (r *EventRepository) Delete(ctx context.Context, ownerEmail, eventID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"userId":  &types.AttributeValueMemberS{Value: ownerEmail},
			"eventId": &types.AttributeValueMemberS{Value: eventID},
		},
	})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

// ScanAll sweeps the entire table, delivering one page per Scan round trip.
// The reminder job uses this for its full-table sweep; there is no date
// index to query instead.
func (r *EventRepository) ScanAll(ctx context.Context, fn func(page []events.Event) error) error {
	var startKey map[string]types.AttributeValue

	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return fmt.Errorf("scan events: %w", err)
		}

		var page []events.Event
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return fmt.Errorf("unmarshal events: %w", err)
		}
		if err := fn(page); err != nil {
			return err
		}

		if out.LastEvaluatedKey == nil {
			return nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// patchFields fixes the order fields appear in the update expression so the
// generated expression is deterministic.
var patchFields = []struct {
	name  string
	value func(events.Patch) *string
}{
	{"title", func(p events.Patch) *string { return p.Title }},
	{"date", func(p events.Patch) *string { return p.Date }},
	{"time", func(p events.Patch) *string { return p.Time }},
	{"venue", func(p events.Patch) *string { return p.Venue }},
	{"details", func(p events.Patch) *string { return p.Details }},
}

// buildUpdateExpression renders a sparse patch as a SET expression. Every
// attribute goes through an expression name placeholder: "date" and "time"
// are DynamoDB reserved words, and escaping all of them uniformly is
// simpler than special-casing those two.
func buildUpdateExpression(patch events.Patch, updatedAt int64) (string, map[string]string, map[string]types.AttributeValue) {
	parts := []string{"#updatedAt = :updatedAt"}
	names := map[string]string{"#updatedAt": "updatedAt"}
	values := map[string]types.AttributeValue{
		":updatedAt": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", updatedAt)},
	}

	for _, field := range patchFields {
		v := field.value(patch)
		if v == nil {
			continue
		}
		placeholder := "#" + field.name
		parts = append(parts, fmt.Sprintf("%s = :%s", placeholder, field.name))
		names[placeholder] = field.name
		values[":"+field.name] = &types.AttributeValueMemberS{Value: *v}
	}

	return "SET " + strings.Join(parts, ", "), names, values
}
