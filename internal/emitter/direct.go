package emitter

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// nonWord splits case note sub types the same way the source system keys
// them: on any non-word character.
var nonWord = regexp.MustCompile(`\W`)

// compositeCaseNoteType builds the "{type}-{firstToken(subType)}" key used
// by downstream subscription filters.
func compositeCaseNoteType(caseNoteType, caseNoteSubType string) string {
	return caseNoteType + "-" + nonWord.Split(caseNoteSubType, 2)[0]
}

func (e *Emitter) handleCellMove(ctx context.Context, payload []byte) error {
	var ev types.CellMoveEvent
	if !e.parse(payload, types.RawCellMove, &ev) {
		return nil
	}

	info := types.NewAdditionalInformation().
		Add("nomsNumber", ev.OffenderIDDisplay).
		Add("livingUnitId", strconv.FormatInt(ev.LivingUnitID, 10)).
		Add("bedAssignmentSeq", strconv.FormatInt(ev.BedAssignmentSeq, 10)).
		Add("bookingId", strconv.FormatInt(ev.BookingID, 10))

	event, err := e.newEvent(types.EventPrisonerCellMove,
		"A prisoner has been moved to a different cell",
		ev.EventDatetime, types.NomsReference(ev.OffenderIDDisplay), info)
	if err != nil {
		e.logger.Error("failed to build cell move event", "error", err.Error())
		return nil
	}

	e.publish(ctx, event)
	return nil
}

func (e *Emitter) handleCaseNote(ctx context.Context, payload []byte) error {
	var ev types.CaseNoteEvent
	if !e.parse(payload, "OFFENDER_CASE_NOTES", &ev) {
		return nil
	}

	// A case note without a prisoner number means the offender record was
	// already deleted; the separate deletion event covers it.
	if ev.OffenderIDDisplay == "" {
		e.logger.Info("case note event without prisoner number, offender deleted, suppressing",
			"case_note_id", ev.CaseNoteID,
		)
		return nil
	}

	info := types.NewAdditionalInformation().
		Add("caseNoteId", strconv.FormatInt(ev.CaseNoteID, 10)).
		Add("caseNoteType", compositeCaseNoteType(ev.CaseNoteType, ev.CaseNoteSubType)).
		Add("type", ev.CaseNoteType).
		Add("subType", ev.CaseNoteSubType)

	event, err := e.newEvent(types.EventCaseNotePublished,
		"A prison case note has been created or amended",
		ev.EventDatetime, types.NomsReference(ev.OffenderIDDisplay), info)
	if err != nil {
		e.logger.Error("failed to build case note event", "error", err.Error())
		return nil
	}
	if e.caseNotesURL != "" {
		event.DetailURL = fmt.Sprintf("%s/case-notes/%s/%d", e.caseNotesURL, ev.OffenderIDDisplay, ev.CaseNoteID)
	}

	e.publish(ctx, event)
	return nil
}

func (e *Emitter) handleRestriction(ctx context.Context, payload []byte) error {
	var ev types.RestrictionChangedEvent
	if !e.parse(payload, types.RawRestrictionChanged, &ev) {
		return nil
	}

	info := types.NewAdditionalInformation().
		Add("nomsNumber", ev.OffenderIDDisplay).
		Add("bookingId", strconv.FormatInt(ev.BookingID, 10)).
		Add("restrictionType", ev.RestrictionType).
		Add("effectiveDate", ev.EffectiveDate).
		Add("expiryDate", ev.ExpiryDate)

	event, err := e.newEvent(types.EventRestrictionChanged,
		"A prisoner restriction record has changed",
		ev.EventDatetime, types.NomsReference(ev.OffenderIDDisplay), info)
	if err != nil {
		e.logger.Error("failed to build restriction event", "error", err.Error())
		return nil
	}

	e.publish(ctx, event)
	return nil
}

func (e *Emitter) handlePersonRestriction(eventType string) handlerFunc {
	description := "A prisoner person restriction record has been created or updated"
	if eventType == types.EventPersonRestrictionDeleted {
		description = "A prisoner person restriction record has been deleted"
	}
	return func(ctx context.Context, payload []byte) error {
		var ev types.PersonRestrictionEvent
		if !e.parse(payload, eventType, &ev) {
			return nil
		}

		info := types.NewAdditionalInformation().
			Add("nomsNumber", ev.OffenderIDDisplay).
			Add("personId", strconv.FormatInt(ev.ContactPersonID, 10)).
			Add("restrictionType", ev.RestrictionType).
			Add("effectiveDate", ev.EffectiveDate).
			Add("expiryDate", ev.ExpiryDate)

		event, err := e.newEvent(eventType, description,
			ev.EventDatetime, types.NomsReference(ev.OffenderIDDisplay), info)
		if err != nil {
			e.logger.Error("failed to build person restriction event", "error", err.Error())
			return nil
		}

		e.publish(ctx, event)
		return nil
	}
}

func (e *Emitter) handleVisitorRestriction(eventType string) handlerFunc {
	description := "A prison visitor restriction record has been created or updated"
	if eventType == types.EventVisitorRestrictionDeleted {
		description = "A prison visitor restriction record has been deleted"
	}
	return func(ctx context.Context, payload []byte) error {
		var ev types.VisitorRestrictionEvent
		if !e.parse(payload, eventType, &ev) {
			return nil
		}

		personID := strconv.FormatInt(ev.PersonID, 10)
		info := types.NewAdditionalInformation().
			Add("personId", personID).
			Add("restrictionType", ev.VisitorRestrictionType).
			Add("effectiveDate", ev.EffectiveDate).
			Add("expiryDate", ev.ExpiryDate)

		event, err := e.newEvent(eventType, description,
			ev.EventDatetime, types.PersonIDReference(personID), info)
		if err != nil {
			e.logger.Error("failed to build visitor restriction event", "error", err.Error())
			return nil
		}

		e.publish(ctx, event)
		return nil
	}
}

func (e *Emitter) handleSchedule(eventType, description string) handlerFunc {
	return func(ctx context.Context, payload []byte) error {
		var ev types.ScheduleEvent
		if !e.parse(payload, eventType, &ev) {
			return nil
		}

		info := types.NewAdditionalInformation().
			Add("nomsNumber", ev.OffenderIDDisplay).
			Add("bookingId", strconv.FormatInt(ev.BookingID, 10)).
			Add("scheduleEventId", strconv.FormatInt(ev.ScheduleEventID, 10))

		event, err := e.newEvent(eventType, description,
			ev.EventDatetime, types.NomsReference(ev.OffenderIDDisplay), info)
		if err != nil {
			e.logger.Error("failed to build schedule event", "error", err.Error())
			return nil
		}

		e.publish(ctx, event)
		return nil
	}
}

func (e *Emitter) handleNonAssociation(ctx context.Context, payload []byte) error {
	var ev types.NonAssociationDetailEvent
	if !e.parse(payload, types.RawNonAssociationDetail, &ev) {
		return nil
	}

	info := types.NewAdditionalInformation().
		Add("nomsNumber", ev.OffenderIDDisplay).
		Add("bookingId", strconv.FormatInt(ev.BookingID, 10)).
		Add("nonAssociationNomsNumber", ev.NSOffenderIDDisplay).
		Add("reasonCode", ev.ReasonCode).
		Add("nonAssociationType", ev.NSType).
		Add("effectiveDate", ev.EffectiveDate).
		Add("expiryDate", ev.ExpiryDate)

	event, err := e.newEvent(types.EventNonAssociationChanged,
		"A prisoner non-association detail record has changed",
		ev.EventDatetime, types.NomsReference(ev.OffenderIDDisplay), info)
	if err != nil {
		e.logger.Error("failed to build non-association event", "error", err.Error())
		return nil
	}

	e.publish(ctx, event)
	return nil
}
