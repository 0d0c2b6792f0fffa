// Package queue provides the outbound messaging producers: the domain event
// topic publisher and the delayed redelivery requeuer.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// SNSPublisher abstracts the SNS Publish operation for testability.
// Production code uses the *sns.Client from aws-sdk-go-v2.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// DomainEventPublisher serializes domain events and publishes them to the
// outbound topic with string message attributes for subscriber filtering.
type DomainEventPublisher struct {
	client   SNSPublisher
	topicARN string
	logger   types.Logger
}

// NewDomainEventPublisher creates a publisher targeting the given topic.
func NewDomainEventPublisher(client SNSPublisher, topicARN string, logger types.Logger) *DomainEventPublisher {
	return &DomainEventPublisher{
		client:   client,
		topicARN: topicARN,
		logger:   logger,
	}
}

// Compile-time assertion that DomainEventPublisher implements types.EventPublisher.
var _ types.EventPublisher = (*DomainEventPublisher)(nil)

// Publish serializes the event to JSON and publishes it with the given
// message attributes. A marshal or publish failure is returned to the caller
// for per-event handling; it is never retried here.
func (p *DomainEventPublisher) Publish(ctx context.Context, event types.DomainEvent, attributes map[string]string) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("queue: failed to marshal domain event %s: %w", event.EventType, err)
	}

	messageAttributes := make(map[string]snsTypes.MessageAttributeValue, len(attributes))
	for key, value := range attributes {
		messageAttributes[key] = snsTypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(p.topicARN),
		Message:           aws.String(string(body)),
		MessageAttributes: messageAttributes,
	})
	if err != nil {
		return fmt.Errorf("queue: failed to publish %s to %s: %w", event.EventType, p.topicARN, err)
	}

	p.logger.Info("domain event published",
		"event_type", event.EventType,
		"occurred_at", event.OccurredAt,
	)

	return nil
}
