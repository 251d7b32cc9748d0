package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/planora/server/internal/config"
)

// SNSPublisher delivers digests to an SNS topic. Subscribers (email, queue
// consumers) fan out from there; this publisher only records the structured
// attributes they filter on.
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
}

func NewSNSPublisher(ctx context.Context, cfg config.NotifyConfig, storage config.StorageConfig) (*SNSPublisher, error) {
	if cfg.TopicARN == "" {
		return nil, fmt.Errorf("SNS_TOPIC_ARN is required for the sns notify backend")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(storage.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(storage.Endpoint)
		}
	})
	return &SNSPublisher{client: client, topicARN: cfg.TopicARN}, nil
}

func (p *SNSPublisher) Publish(ctx context.Context, msg Message) error {
	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String(msg.Subject),
		Message:  aws.String(msg.Body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"user_email": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.Recipient),
			},
			"event_date": {
				DataType:    aws.String("String"),
				StringValue: aws.String(msg.EventDate),
			},
			"event_count": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(strconv.Itoa(msg.EventCount)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
