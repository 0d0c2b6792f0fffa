package types

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestAdditionalInformation_PreservesInsertionOrder(t *testing.T) {
	info := NewAdditionalInformation().
		Add("nomsNumber", "A1234BC").
		Add("reason", "ADMISSION").
		Add("prisonId", "MDI")

	got, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"nomsNumber":"A1234BC","reason":"ADMISSION","prisonId":"MDI"}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestAdditionalInformation_DropsEmptyValues(t *testing.T) {
	info := NewAdditionalInformation().
		Add("nomsNumber", "A1234BC").
		Add("details", "").
		Add("reason", "ADMISSION")

	if info.Len() != 2 {
		t.Errorf("Len: got %d, want 2", info.Len())
	}
	got, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(got), "details") {
		t.Errorf("empty value serialized: %s", got)
	}
}

func TestAdditionalInformation_ReAddKeepsPosition(t *testing.T) {
	info := NewAdditionalInformation().
		Add("a", "1").
		Add("b", "2").
		Add("a", "3")

	got, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"a":"3","b":"2"}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestAdditionalInformation_RoundTrip(t *testing.T) {
	var info AdditionalInformation
	if err := json.Unmarshal([]byte(`{"z":"26","a":"1"}`), &info); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := json.Marshal(&info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"z":"26","a":"1"}` {
		t.Errorf("document order lost: %s", got)
	}
}

func TestFormatOccurredAt(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}

	cases := []struct {
		name  string
		naive string
		want  string
	}{
		{"summer time with microseconds", "2021-06-08T14:41:11.526762", "2021-06-08T14:41:11.526762+01:00"},
		{"winter time", "2021-01-08T09:00:00", "2021-01-08T09:00:00Z"},
		{"no fraction in summer", "2021-07-01T12:00:00", "2021-07-01T12:00:00+01:00"},
		{"trailing zeros preserved", "2021-06-08T14:41:11.000620", "2021-06-08T14:41:11.000620+01:00"},
		{"millisecond precision preserved", "2021-06-08T14:41:11.52", "2021-06-08T14:41:11.52+01:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FormatOccurredAt(tc.naive, london)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}

	t.Run("garbage timestamp", func(t *testing.T) {
		if _, err := FormatOccurredAt("not-a-timestamp", london); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("garbage fraction", func(t *testing.T) {
		if _, err := FormatOccurredAt("2021-06-08T14:41:11.52x", london); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func TestFormatPublishedAt(t *testing.T) {
	at := time.Date(2021, 6, 8, 14, 41, 11, 123456000, time.UTC)
	got := FormatPublishedAt(at)
	if got != "2021-06-08T14:41:11.123456Z" {
		t.Errorf("got %s, want 2021-06-08T14:41:11.123456Z", got)
	}
}

func TestDomainEvent_MarshalOmitsOptionalFields(t *testing.T) {
	event := DomainEvent{
		Version:         1,
		EventType:       EventPrisonerReceived,
		Description:     "A prisoner has been received into prison",
		OccurredAt:      "2021-06-08T14:41:11+01:00",
		PublishedAt:     "2021-06-08T15:30:00.000000Z",
		PersonReference: NomsReference("A1234BC"),
	}

	got, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(got), "detailUrl") {
		t.Errorf("empty detailUrl serialized: %s", got)
	}
	if strings.Contains(string(got), "additionalInformation") {
		t.Errorf("nil additionalInformation serialized: %s", got)
	}
	if !strings.Contains(string(got), `"identifiers":[{"type":"NOMS","value":"A1234BC"}]`) {
		t.Errorf("person reference missing: %s", got)
	}
}
