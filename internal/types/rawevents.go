package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Raw NOMIS event type strings as they arrive on the prison events queue.
// The emitter's routing table is keyed on these; anything not listed is a
// deliberate no-op so upstream taxonomy growth never breaks this service.
const (
	RawReception                 = "OFFENDER_MOVEMENT-RECEPTION"
	RawDischarge                 = "OFFENDER_MOVEMENT-DISCHARGE"
	RawBookingNumberChanged      = "BOOKING_NUMBER-CHANGED"
	RawCellMove                  = "BED_ASSIGNMENT_HISTORY-INSERTED"
	RawCaseNoteInserted          = "OFFENDER_CASE_NOTES-INSERTED"
	RawCaseNoteUpdated           = "OFFENDER_CASE_NOTES-UPDATED"
	RawRestrictionChanged        = "RESTRICTION-CHANGED"
	RawPersonRestrictionUpsert   = "PERSON_RESTRICTION-UPSERTED"
	RawPersonRestrictionDelete   = "PERSON_RESTRICTION-DELETED"
	RawVisitorRestrictionUpsert  = "VISITOR_RESTRICTION-UPSERTED"
	RawVisitorRestrictionDelete  = "VISITOR_RESTRICTION-DELETED"
	RawActivityChanged           = "ACTIVITY-CHANGED"
	RawAppointmentChanged        = "APPOINTMENT-CHANGED"
	RawImprisonmentStatusChanged = "IMPRISONMENT_STATUS-CHANGED"
	RawNonAssociationDetail      = "NON_ASSOCIATION_DETAIL-CHANGED"
)

// MessageAttribute is one attribute on the inbound queue envelope.
type MessageAttribute struct {
	Type  string `json:"Type"`
	Value string `json:"Value"`
}

// MessageEnvelope is the topic-to-queue envelope wrapping every raw prison
// event. Message is the embedded JSON payload; the attribute-level eventType
// and publishedAt (not anything inside the payload) drive routing and the
// delay decision.
type MessageEnvelope struct {
	Message           string                      `json:"Message"`
	MessageID         string                      `json:"MessageId"`
	MessageAttributes map[string]MessageAttribute `json:"MessageAttributes"`
}

// EventType returns the attribute-level event type, or "" if absent.
func (e MessageEnvelope) EventType() string {
	return e.MessageAttributes["eventType"].Value
}

// PublishedAt parses the attribute-level publish timestamp.
func (e MessageEnvelope) PublishedAt() (time.Time, error) {
	raw := e.MessageAttributes["publishedAt"].Value
	if raw == "" {
		return time.Time{}, fmt.Errorf("envelope %s: missing publishedAt attribute", e.MessageID)
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("envelope %s: bad publishedAt %q: %w", e.MessageID, raw, err)
	}
	return t, nil
}

// ParseEnvelope decodes an inbound queue message body into its envelope.
func ParseEnvelope(body string) (MessageEnvelope, error) {
	var env MessageEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return MessageEnvelope{}, fmt.Errorf("failed to parse message envelope: %w", err)
	}
	return env, nil
}

// Raw event payload variants. Each carries only the fields relevant to its
// event type; EventDatetime is always the naive local timestamp from the
// source system. JSON tags match the NOMIS change-data-capture feed.

// MovementEvent is the payload for reception and discharge events.
type MovementEvent struct {
	EventDatetime     string `json:"eventDatetime"`
	OffenderIDDisplay string `json:"offenderIdDisplay"`
	BookingID         int64  `json:"bookingId"`
	MovementSeq       int64  `json:"movementSeq"`
}

// BookingNumberChangedEvent signals a booking merge or renumber.
type BookingNumberChangedEvent struct {
	EventDatetime string `json:"eventDatetime"`
	BookingID     int64  `json:"bookingId"`
}

// CellMoveEvent is a bed assignment history insert.
type CellMoveEvent struct {
	EventDatetime     string `json:"eventDatetime"`
	OffenderIDDisplay string `json:"offenderIdDisplay"`
	BookingID         int64  `json:"bookingId"`
	BedAssignmentSeq  int64  `json:"bedAssignmentSeq"`
	LivingUnitID      int64  `json:"livingUnitId"`
}

// CaseNoteEvent is an offender case note insert or update.
type CaseNoteEvent struct {
	EventDatetime     string `json:"eventDatetime"`
	OffenderIDDisplay string `json:"offenderIdDisplay"`
	BookingID         int64  `json:"bookingId"`
	CaseNoteID        int64  `json:"caseNoteId"`
	CaseNoteType      string `json:"caseNoteType"`
	CaseNoteSubType   string `json:"caseNoteSubType"`
}

// RestrictionChangedEvent is an offender-level restriction change.
type RestrictionChangedEvent struct {
	EventDatetime     string `json:"eventDatetime"`
	OffenderIDDisplay string `json:"offenderIdDisplay"`
	BookingID         int64  `json:"bookingId"`
	RestrictionType   string `json:"restrictionType"`
	EffectiveDate     string `json:"effectiveDate"`
	ExpiryDate        string `json:"expiryDate"`
}

// PersonRestrictionEvent is a restriction between an offender and a contact.
type PersonRestrictionEvent struct {
	EventDatetime     string `json:"eventDatetime"`
	OffenderIDDisplay string `json:"offenderIdDisplay"`
	ContactPersonID   int64  `json:"contactPersonId"`
	RestrictionType   string `json:"restrictionType"`
	EffectiveDate     string `json:"effectiveDate"`
	ExpiryDate        string `json:"expiryDate"`
}

// VisitorRestrictionEvent is a restriction on a visitor, keyed by person.
type VisitorRestrictionEvent struct {
	EventDatetime          string `json:"eventDatetime"`
	PersonID               int64  `json:"personId"`
	VisitorRestrictionType string `json:"visitorRestrictionType"`
	EffectiveDate          string `json:"effectiveDate"`
	ExpiryDate             string `json:"expiryDate"`
}

// ScheduleEvent covers activity and appointment updates.
type ScheduleEvent struct {
	EventDatetime     string `json:"eventDatetime"`
	OffenderIDDisplay string `json:"offenderIdDisplay"`
	BookingID         int64  `json:"bookingId"`
	ScheduleEventID   int64  `json:"scheduleEventId"`
}

// ImprisonmentStatusChangedEvent signals a legal status change. Only the
// first row of a logical change (sequence 0) is significant; later sequence
// numbers are duplicates of the same change.
type ImprisonmentStatusChangedEvent struct {
	EventDatetime         string `json:"eventDatetime"`
	BookingID             int64  `json:"bookingId"`
	ImprisonmentStatusSeq int64  `json:"imprisonmentStatusSeq"`
}

// NonAssociationDetailEvent records a keep-apart relationship change.
type NonAssociationDetailEvent struct {
	EventDatetime       string `json:"eventDatetime"`
	OffenderIDDisplay   string `json:"offenderIdDisplay"`
	BookingID           int64  `json:"bookingId"`
	NSOffenderIDDisplay string `json:"nsOffenderIdDisplay"`
	NSBookingID         int64  `json:"nsBookingId"`
	ReasonCode          string `json:"reasonCode"`
	NSType              string `json:"nsType"`
	EffectiveDate       string `json:"effectiveDate"`
	ExpiryDate          string `json:"expiryDate"`
}
