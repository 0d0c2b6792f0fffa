package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Output domain event types published for downstream consumers.
const (
	EventPrisonerReceived           = "prison-offender-events.prisoner.received"
	EventPrisonerReleased           = "prison-offender-events.prisoner.released"
	EventPrisonerMerged             = "prison-offender-events.prisoner.merged"
	EventPrisonerCellMove           = "prison-offender-events.prisoner.cell.move"
	EventCaseNotePublished          = "prison-offender-events.prisoner.case-note.published"
	EventRestrictionChanged         = "prison-offender-events.prisoner.restriction.changed"
	EventPersonRestrictionUpserted  = "prison-offender-events.prisoner.person-restriction.upserted"
	EventPersonRestrictionDeleted   = "prison-offender-events.prisoner.person-restriction.deleted"
	EventVisitorRestrictionUpserted = "prison-offender-events.visitor.restriction.upserted"
	EventVisitorRestrictionDeleted  = "prison-offender-events.visitor.restriction.deleted"
	EventActivitiesChanged          = "prison-offender-events.prisoner.activities-changed"
	EventAppointmentsChanged        = "prison-offender-events.prisoner.appointments-changed"
	EventImprisonmentStatusChanged  = "prison-offender-events.prisoner.imprisonment-status-changed"
	EventNonAssociationChanged      = "prison-offender-events.prisoner.non-association-detail.changed"
)

// Identifier is one entry in a domain event's person reference.
type Identifier struct {
	Type  IdentifierType `json:"type"`
	Value string         `json:"value"`
}

// PersonReference carries the ordered identifiers for the person the event
// is about.
type PersonReference struct {
	Identifiers []Identifier `json:"identifiers"`
}

// NomsReference builds a person reference holding a single NOMS number.
func NomsReference(noms string) PersonReference {
	return PersonReference{Identifiers: []Identifier{{Type: IdentifierNOMS, Value: noms}}}
}

// PersonIDReference builds a person reference holding a single person id.
func PersonIDReference(personID string) PersonReference {
	return PersonReference{Identifiers: []Identifier{{Type: IdentifierPerson, Value: personID}}}
}

// AdditionalInformation is an insertion-ordered string map. Only non-empty
// values are stored, and MarshalJSON preserves insertion order so the wire
// payload stays minimal and stable under schema evolution.
type AdditionalInformation struct {
	keys   []string
	values map[string]string
}

// NewAdditionalInformation returns an empty ordered map.
func NewAdditionalInformation() *AdditionalInformation {
	return &AdditionalInformation{values: map[string]string{}}
}

// Add inserts a key/value pair, dropping empty values. Re-adding an existing
// key overwrites the value but keeps the original position.
func (a *AdditionalInformation) Add(key, value string) *AdditionalInformation {
	if value == "" {
		return a
	}
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
	return a
}

// Get returns the value for key, or "" if absent.
func (a *AdditionalInformation) Get(key string) string {
	if a == nil {
		return ""
	}
	return a.values[key]
}

// Len returns the number of stored entries.
func (a *AdditionalInformation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Flatten returns a plain map copy for telemetry attribute emission.
func (a *AdditionalInformation) Flatten() map[string]string {
	out := make(map[string]string, a.Len())
	if a == nil {
		return out
	}
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// MarshalJSON writes entries in insertion order.
func (a *AdditionalInformation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat string map, preserving the document order of keys.
func (a *AdditionalInformation) UnmarshalJSON(data []byte) error {
	a.keys = nil
	a.values = map[string]string{}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("additionalInformation: expected object")
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}
		a.Add(key, value)
	}
	return nil
}

// DomainEvent is the enriched, versioned event published downstream.
// OccurredAt is a deterministic function of the raw event timestamp;
// PublishedAt is wall-clock at send time and informational only.
type DomainEvent struct {
	Version               int                    `json:"version"`
	EventType             string                 `json:"eventType"`
	Description           string                 `json:"description"`
	DetailURL             string                 `json:"detailUrl,omitempty"`
	OccurredAt            string                 `json:"occurredAt"`
	PublishedAt           string                 `json:"publishedAt"`
	PersonReference       PersonReference        `json:"personReference"`
	AdditionalInformation *AdditionalInformation `json:"additionalInformation,omitempty"`
}

// naiveLayout is the shape of the source system's local timestamps with the
// fraction stripped.
const naiveLayout = "2006-01-02T15:04:05"

// FormatOccurredAt interprets a naive source timestamp in loc and renders it
// as an ISO-8601 offset timestamp. The sub-second fraction is carried over
// verbatim so the original precision survives the conversion.
func FormatOccurredAt(naive string, loc *time.Location) (string, error) {
	base := naive
	fraction := ""
	if i := strings.IndexByte(naive, '.'); i >= 0 {
		base = naive[:i]
		fraction = naive[i+1:]
	}
	t, err := time.ParseInLocation(naiveLayout, base, loc)
	if err != nil {
		return "", fmt.Errorf("bad event timestamp %q: %w", naive, err)
	}
	if fraction != "" {
		for _, c := range fraction {
			if c < '0' || c > '9' {
				return "", fmt.Errorf("bad event timestamp fraction %q", naive)
			}
		}
		return base + "." + fraction + t.Format("Z07:00"), nil
	}
	return base + t.Format("Z07:00"), nil
}

// FormatPublishedAt renders a publish instant with microsecond precision and
// a numeric offset.
func FormatPublishedAt(t time.Time) string {
	return t.Format("2006-01-02T15:04:05.999999Z07:00")
}
