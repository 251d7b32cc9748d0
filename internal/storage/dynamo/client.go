// Package dynamo implements the credential and event store adapters on a
// DynamoDB-compatible table service. Users are keyed by email; events use a
// composite (userId, eventId) key whose partition component enforces tenant
// isolation at the store level.
package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/planora/server/internal/config"
)

// NewClient builds a DynamoDB client from the ambient AWS configuration.
// A non-empty endpoint override points the client at a local or
// DynamoDB-compatible deployment.
func NewClient(ctx context.Context, cfg config.StorageConfig) (*dynamodb.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return client, nil
}
