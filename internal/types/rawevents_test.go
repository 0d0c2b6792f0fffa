package types

import (
	"testing"
	"time"
)

func TestParseEnvelope(t *testing.T) {
	body := `{
		"Message": "{\"eventDatetime\":\"2021-06-08T14:41:11.526762\",\"offenderIdDisplay\":\"A1234BC\",\"bookingId\":1234134}",
		"MessageId": "msg-1",
		"MessageAttributes": {
			"eventType": {"Type": "String", "Value": "OFFENDER_MOVEMENT-RECEPTION"},
			"publishedAt": {"Type": "String", "Value": "2021-06-08T14:41:14+01:00"}
		}
	}`

	env, err := ParseEnvelope(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.EventType() != RawReception {
		t.Errorf("EventType: got %q, want %q", env.EventType(), RawReception)
	}
	publishedAt, err := env.PublishedAt()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2021, 6, 8, 14, 41, 14, 0, time.FixedZone("", 3600))
	if !publishedAt.Equal(want) {
		t.Errorf("PublishedAt: got %v, want %v", publishedAt, want)
	}
}

func TestParseEnvelope_MalformedBody(t *testing.T) {
	if _, err := ParseEnvelope("not json"); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestMessageEnvelope_MissingAttributes(t *testing.T) {
	env, err := ParseEnvelope(`{"Message": "{}", "MessageId": "msg-2"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.EventType() != "" {
		t.Errorf("EventType: got %q, want empty", env.EventType())
	}
	if _, err := env.PublishedAt(); err == nil {
		t.Error("expected error for missing publishedAt, got nil")
	}
}
