// Package consumer is the queue-facing edge of the worker: it unwraps
// inbound envelopes, enforces the redelivery delay window, and hands raw
// events to the emitter.
package consumer

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// EventEmitter routes one raw event to its enrichment path.
type EventEmitter interface {
	Emit(ctx context.Context, eventType string, payload []byte) error
}

// delaySensitive marks the raw event types that must age in the queue before
// processing, so late-arriving corrections in the source system are visible
// when the enrichment lookups run.
var delaySensitive = map[string]bool{
	types.RawReception: true,
	types.RawDischarge: true,
}

// Handler consumes SQS batches of raw prison events. Each record is handled
// independently; only transient failures are reported back for queue-level
// redelivery.
type Handler struct {
	emitter         EventEmitter
	requeuer        types.Requeuer
	telemetry       types.TelemetryClient
	clock           types.Clock
	totalDelay      time.Duration
	redeliveryDelay time.Duration
	logger          types.Logger
}

// NewHandler creates a Handler. totalDelay is how old a delay-sensitive
// event must be before it is processed; redeliveryDelay is how long a
// too-young message is parked before the next evaluation.
func NewHandler(
	emitter EventEmitter,
	requeuer types.Requeuer,
	telemetry types.TelemetryClient,
	clock types.Clock,
	totalDelay time.Duration,
	redeliveryDelay time.Duration,
	logger types.Logger,
) *Handler {
	return &Handler{
		emitter:         emitter,
		requeuer:        requeuer,
		telemetry:       telemetry,
		clock:           clock,
		totalDelay:      totalDelay,
		redeliveryDelay: redeliveryDelay,
		logger:          logger,
	}
}

// Handle processes one SQS batch, returning partial batch failures for the
// records that should be redelivered. Malformed records are logged and
// acknowledged: redelivering them can never succeed.
func (h *Handler) Handle(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	var failures []events.SQSBatchItemFailure

	for _, record := range event.Records {
		// Records fed in outside the Lambda runtime may lack a message id;
		// trace propagation still needs one.
		requestID := record.MessageId
		if requestID == "" {
			requestID = uuid.NewString()
		}
		recordCtx := types.WithRequestID(ctx, requestID)
		if err := h.handleRecord(recordCtx, record); err != nil {
			h.logger.Error("failed to process queue record, leaving for redelivery",
				"message_id", record.MessageId,
				"error", err.Error(),
			)
			failures = append(failures, events.SQSBatchItemFailure{
				ItemIdentifier: record.MessageId,
			})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func (h *Handler) handleRecord(ctx context.Context, record events.SQSMessage) error {
	env, err := types.ParseEnvelope(record.Body)
	if err != nil {
		h.logger.Error("dropping malformed message envelope",
			"message_id", record.MessageId,
			"error", err.Error(),
		)
		return nil
	}

	eventType := env.EventType()
	if eventType == "" {
		h.logger.Warn("dropping message with no event type attribute",
			"message_id", record.MessageId,
		)
		return nil
	}

	if delaySensitive[eventType] {
		requeued, err := h.holdIfTooYoung(ctx, eventType, env, record.Body)
		if err != nil {
			return err
		}
		if requeued {
			return nil
		}
	}

	return h.emitter.Emit(ctx, eventType, []byte(env.Message))
}

// holdIfTooYoung requeues a delay-sensitive message that has not yet aged
// past the delay window. It reports whether the message was parked. A
// missing or unparseable publish timestamp disables the hold: processing
// immediately beats redelivering a message that can never age out.
func (h *Handler) holdIfTooYoung(ctx context.Context, eventType string, env types.MessageEnvelope, body string) (bool, error) {
	publishedAt, err := env.PublishedAt()
	if err != nil {
		h.logger.Warn("cannot evaluate delay window, processing immediately",
			"event_type", eventType,
			"error", err.Error(),
		)
		return false, nil
	}

	age := h.clock.Now().Sub(publishedAt)
	if age >= h.totalDelay {
		return false, nil
	}

	if err := h.requeuer.Requeue(ctx, body, h.redeliveryDelay); err != nil {
		return false, err
	}

	h.telemetry.EmitTelemetry(ctx, types.TelemetryMessageDelayed, map[string]string{
		types.AttrEventType:   eventType,
		types.AttrPublishedAt: publishedAt.Format(time.RFC3339),
	})
	h.logger.Info("message held for delayed redelivery",
		"event_type", eventType,
		"age", age.String(),
	)

	return true, nil
}
