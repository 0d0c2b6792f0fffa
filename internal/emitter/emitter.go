// Package emitter is the central dispatcher: it maps raw prison event types
// to enrichment paths, builds the versioned domain events, publishes them,
// and emits matching telemetry records.
package emitter

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// ReceiveReasonCalculator settles why a prisoner was received.
type ReceiveReasonCalculator interface {
	Calculate(ctx context.Context, nomsNumber string) (*types.ReceiveReason, error)
}

// ReleaseReasonCalculator settles why a prisoner was released.
type ReleaseReasonCalculator interface {
	Calculate(ctx context.Context, nomsNumber string) (*types.ReleaseReason, error)
}

// MergeDiscriminator resolves identity merges for a booking.
type MergeDiscriminator interface {
	Merges(ctx context.Context, bookingID int64) ([]types.MergeOutcome, error)
}

// handlerFunc is one enrichment path, fed the raw payload bytes.
type handlerFunc func(ctx context.Context, payload []byte) error

// Emitter routes raw events to their enrichment path. Raw event types with
// no route are deliberately ignored so upstream taxonomy growth never breaks
// this service.
type Emitter struct {
	receive      ReceiveReasonCalculator
	release      ReleaseReasonCalculator
	merges       MergeDiscriminator
	prison       types.PrisonAPI
	publisher    types.EventPublisher
	telemetry    types.TelemetryClient
	clock        types.Clock
	sourceLoc    *time.Location
	caseNotesURL string
	logger       types.Logger
	routes       map[string]handlerFunc
}

// New creates an Emitter. sourceLoc is the time zone the source system's
// naive timestamps are interpreted in; caseNotesURL (optional, no trailing
// slash) is the base for case-note detail URLs.
func New(
	receive ReceiveReasonCalculator,
	release ReleaseReasonCalculator,
	merges MergeDiscriminator,
	prison types.PrisonAPI,
	publisher types.EventPublisher,
	telemetry types.TelemetryClient,
	clock types.Clock,
	sourceLoc *time.Location,
	caseNotesURL string,
	logger types.Logger,
) *Emitter {
	e := &Emitter{
		receive:      receive,
		release:      release,
		merges:       merges,
		prison:       prison,
		publisher:    publisher,
		telemetry:    telemetry,
		clock:        clock,
		sourceLoc:    sourceLoc,
		caseNotesURL: caseNotesURL,
		logger:       logger,
	}
	e.routes = map[string]handlerFunc{
		types.RawReception:                 e.handleReception,
		types.RawDischarge:                 e.handleDischarge,
		types.RawBookingNumberChanged:      e.handleMerge,
		types.RawCellMove:                  e.handleCellMove,
		types.RawCaseNoteInserted:          e.handleCaseNote,
		types.RawCaseNoteUpdated:           e.handleCaseNote,
		types.RawRestrictionChanged:        e.handleRestriction,
		types.RawPersonRestrictionUpsert:   e.handlePersonRestriction(types.EventPersonRestrictionUpserted),
		types.RawPersonRestrictionDelete:   e.handlePersonRestriction(types.EventPersonRestrictionDeleted),
		types.RawVisitorRestrictionUpsert:  e.handleVisitorRestriction(types.EventVisitorRestrictionUpserted),
		types.RawVisitorRestrictionDelete:  e.handleVisitorRestriction(types.EventVisitorRestrictionDeleted),
		types.RawActivityChanged:           e.handleSchedule(types.EventActivitiesChanged, "A prisoner's activities have changed"),
		types.RawAppointmentChanged:        e.handleSchedule(types.EventAppointmentsChanged, "A prisoner's appointments have changed"),
		types.RawImprisonmentStatusChanged: e.handleImprisonmentStatus,
		types.RawNonAssociationDetail:      e.handleNonAssociation,
	}
	return e
}

// Emit routes one raw event. An unrecognized type is a no-op, not an error.
// A returned error is transient: the caller should leave the message for
// queue-level redelivery.
func (e *Emitter) Emit(ctx context.Context, eventType string, payload []byte) error {
	handler, ok := e.routes[eventType]
	if !ok {
		return nil
	}
	return handler(ctx, payload)
}

// newEvent assembles the common envelope of a domain event. The naive
// source timestamp becomes the deterministic occurredAt; publishedAt is
// wall-clock now.
func (e *Emitter) newEvent(
	eventType, description, naiveTimestamp string,
	ref types.PersonReference,
	info *types.AdditionalInformation,
) (types.DomainEvent, error) {
	occurredAt, err := types.FormatOccurredAt(naiveTimestamp, e.sourceLoc)
	if err != nil {
		return types.DomainEvent{}, err
	}
	return types.DomainEvent{
		Version:               1,
		EventType:             eventType,
		Description:           description,
		OccurredAt:            occurredAt,
		PublishedAt:           types.FormatPublishedAt(e.clock.Now()),
		PersonReference:       ref,
		AdditionalInformation: info,
	}, nil
}

// publish sends one finished event and emits its telemetry record. Failures
// are logged and telemetered per event, never returned: a lost event must
// not abort sibling events built in the same invocation.
func (e *Emitter) publish(ctx context.Context, event types.DomainEvent) {
	attributes := map[string]string{types.AttrEventType: event.EventType}
	if caseNoteType := event.AdditionalInformation.Get("caseNoteType"); caseNoteType != "" {
		attributes["caseNoteType"] = caseNoteType
	}

	if err := e.publisher.Publish(ctx, event, attributes); err != nil {
		e.logger.Error("failed to publish domain event, event is lost",
			"event_type", event.EventType,
			"occurred_at", event.OccurredAt,
			"error", err.Error(),
		)
		e.telemetry.EmitTelemetry(ctx, types.TelemetryPublishFailed, map[string]string{
			types.AttrEventType:  event.EventType,
			types.AttrNomsNumber: event.AdditionalInformation.Get("nomsNumber"),
		})
		return
	}

	telemetryAttrs := event.AdditionalInformation.Flatten()
	telemetryAttrs[types.AttrEventType] = event.EventType
	telemetryAttrs[types.AttrOccurredAt] = event.OccurredAt
	telemetryAttrs[types.AttrPublishedAt] = event.PublishedAt
	e.telemetry.EmitTelemetry(ctx, event.EventType, telemetryAttrs)
}

// parse unmarshals a raw payload. A malformed payload is permanent: it is
// logged and the event dropped rather than redelivered forever.
func (e *Emitter) parse(payload []byte, eventType string, v any) bool {
	if err := json.Unmarshal(payload, v); err != nil {
		e.logger.Error("failed to parse raw event payload",
			"event_type", eventType,
			"error", err.Error(),
		)
		return false
	}
	return true
}

func (e *Emitter) handleReception(ctx context.Context, payload []byte) error {
	var ev types.MovementEvent
	if !e.parse(payload, types.RawReception, &ev) {
		return nil
	}

	reason, err := e.receive.Calculate(ctx, ev.OffenderIDDisplay)
	if err != nil {
		if types.IsNotFound(err) {
			e.logger.Warn("prisoner not found for reception, skipping",
				"noms_number", ev.OffenderIDDisplay,
			)
			return nil
		}
		return err
	}

	if !reason.HasPrisonerActuallyBeenReceived() {
		e.telemetry.EmitTelemetry(ctx, types.TelemetryPrisonerNotReceived, map[string]string{
			types.AttrNomsNumber:          ev.OffenderIDDisplay,
			types.AttrReason:              string(reason.Reason),
			types.AttrProbableCause:       string(reason.ProbableCause),
			types.AttrSource:              string(reason.Source),
			types.AttrDetails:             reason.Details,
			types.AttrCurrentLocation:     string(reason.CurrentLocation),
			types.AttrCurrentPrisonStatus: string(reason.CurrentPrisonStatus),
		})
		return nil
	}

	info := types.NewAdditionalInformation().
		Add("nomsNumber", ev.OffenderIDDisplay).
		Add("reason", string(reason.Reason)).
		Add("probableCause", string(reason.ProbableCause)).
		Add("source", string(reason.Source)).
		Add("details", reason.Details).
		Add("currentLocation", string(reason.CurrentLocation)).
		Add("currentPrisonStatus", string(reason.CurrentPrisonStatus)).
		Add("prisonId", reason.PrisonID).
		Add("nomisMovementReasonCode", reason.NomisMovementReasonCode)

	event, err := e.newEvent(types.EventPrisonerReceived,
		"A prisoner has been received into prison",
		ev.EventDatetime, types.NomsReference(ev.OffenderIDDisplay), info)
	if err != nil {
		e.logger.Error("failed to build reception event", "error", err.Error())
		return nil
	}

	e.publish(ctx, event)
	return nil
}

func (e *Emitter) handleDischarge(ctx context.Context, payload []byte) error {
	var ev types.MovementEvent
	if !e.parse(payload, types.RawDischarge, &ev) {
		return nil
	}

	reason, err := e.release.Calculate(ctx, ev.OffenderIDDisplay)
	if err != nil {
		if types.IsNotFound(err) {
			e.logger.Warn("prisoner not found for discharge, skipping",
				"noms_number", ev.OffenderIDDisplay,
			)
			return nil
		}
		return err
	}

	if !reason.HasPrisonerActuallyBeenRelease() {
		e.telemetry.EmitTelemetry(ctx, types.TelemetryPrisonerNotReleased, map[string]string{
			types.AttrNomsNumber:          ev.OffenderIDDisplay,
			types.AttrReason:              string(reason.Reason),
			types.AttrDetails:             reason.Details,
			types.AttrCurrentLocation:     string(reason.CurrentLocation),
			types.AttrCurrentPrisonStatus: string(reason.CurrentPrisonStatus),
		})
		return nil
	}

	info := types.NewAdditionalInformation().
		Add("nomsNumber", ev.OffenderIDDisplay).
		Add("reason", string(reason.Reason)).
		Add("details", reason.Details).
		Add("currentLocation", string(reason.CurrentLocation)).
		Add("currentPrisonStatus", string(reason.CurrentPrisonStatus)).
		Add("prisonId", reason.PrisonID).
		Add("nomisMovementReasonCode", reason.NomisMovementReasonCode)

	event, err := e.newEvent(types.EventPrisonerReleased,
		"A prisoner has been released from prison",
		ev.EventDatetime, types.NomsReference(ev.OffenderIDDisplay), info)
	if err != nil {
		e.logger.Error("failed to build discharge event", "error", err.Error())
		return nil
	}

	e.publish(ctx, event)
	return nil
}

func (e *Emitter) handleMerge(ctx context.Context, payload []byte) error {
	var ev types.BookingNumberChangedEvent
	if !e.parse(payload, types.RawBookingNumberChanged, &ev) {
		return nil
	}

	outcomes, err := e.merges.Merges(ctx, ev.BookingID)
	if err != nil {
		return err
	}

	// Each outcome is built and published independently; one publish
	// failure never stops the siblings.
	for _, outcome := range outcomes {
		info := types.NewAdditionalInformation().
			Add("nomsNumber", outcome.RemainingNumber).
			Add("removedNomsNumber", outcome.MergedNumber).
			Add("reason", "MERGE")

		event, err := e.newEvent(types.EventPrisonerMerged,
			"A prisoner has been merged from "+outcome.MergedNumber+" to "+outcome.RemainingNumber,
			ev.EventDatetime, types.NomsReference(outcome.RemainingNumber), info)
		if err != nil {
			e.logger.Error("failed to build merge event", "error", err.Error())
			continue
		}

		e.publish(ctx, event)
	}

	return nil
}

func (e *Emitter) handleImprisonmentStatus(ctx context.Context, payload []byte) error {
	var ev types.ImprisonmentStatusChangedEvent
	if !e.parse(payload, types.RawImprisonmentStatusChanged, &ev) {
		return nil
	}

	// Only the first row of a logical status change is significant; later
	// sequence numbers duplicate the same change.
	if ev.ImprisonmentStatusSeq != 0 {
		return nil
	}

	nomsNumber, ok, err := e.prison.GetPrisonerNumberForBooking(ctx, ev.BookingID)
	if err != nil {
		return err
	}
	if !ok {
		e.logger.Warn("no prisoner number for booking, suppressing status change event",
			"booking_id", ev.BookingID,
		)
		return nil
	}

	info := types.NewAdditionalInformation().
		Add("nomsNumber", nomsNumber).
		Add("bookingId", strconv.FormatInt(ev.BookingID, 10))

	event, err := e.newEvent(types.EventImprisonmentStatusChanged,
		"A prisoner's imprisonment status has changed",
		ev.EventDatetime, types.NomsReference(nomsNumber), info)
	if err != nil {
		e.logger.Error("failed to build imprisonment status event", "error", err.Error())
		return nil
	}

	e.publish(ctx, event)
	return nil
}
