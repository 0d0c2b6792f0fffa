package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Requeuer sends a raw message body back to its origin queue with a
// visibility delay. The body is forwarded unmodified so the redelivered
// message is indistinguishable from the original and gets independently
// re-evaluated.
type Requeuer struct {
	client   SQSSender
	queueURL string
	logger   types.Logger
}

// NewRequeuer creates a Requeuer targeting the origin prison events queue.
func NewRequeuer(client SQSSender, queueURL string, logger types.Logger) *Requeuer {
	return &Requeuer{
		client:   client,
		queueURL: queueURL,
		logger:   logger,
	}
}

// Compile-time assertion that Requeuer implements types.Requeuer.
var _ types.Requeuer = (*Requeuer)(nil)

// Requeue sends the body with the given delay. SQS caps DelaySeconds at 900
// (15 minutes); longer delays are clamped, which is fine because the message
// is re-evaluated against the full delay window on every redelivery.
func (r *Requeuer) Requeue(ctx context.Context, body string, delay time.Duration) error {
	delaySec := int32(delay.Seconds())
	if delaySec > 900 {
		delaySec = 900
	}
	if delaySec < 0 {
		delaySec = 0
	}

	_, err := r.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(r.queueURL),
		MessageBody:  aws.String(body),
		DelaySeconds: delaySec,
	})
	if err != nil {
		return fmt.Errorf("queue: failed to requeue message to %s: %w", r.queueURL, err)
	}

	r.logger.Info("message requeued for delayed redelivery",
		"queue_url", r.queueURL,
		"delay_seconds", delaySec,
	)

	return nil
}
