package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

type mockLogger struct{}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) {}
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

// mockSNSPublisher records all Publish calls for verification.
type mockSNSPublisher struct {
	calls     []*sns.PublishInput
	returnErr error
}

func (m *mockSNSPublisher) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return &sns.PublishOutput{}, nil
}

func TestDomainEventPublisher_Publish(t *testing.T) {
	sender := &mockSNSPublisher{}
	pub := NewDomainEventPublisher(sender, "arn:aws:sns:eu-west-2:123:domain-events", &mockLogger{})

	event := types.DomainEvent{
		Version:         1,
		EventType:       types.EventPrisonerReceived,
		Description:     "A prisoner has been received into prison",
		OccurredAt:      "2021-06-08T14:41:11.526762+01:00",
		PublishedAt:     "2021-06-08T15:30:00.000000Z",
		PersonReference: types.NomsReference("A1234BC"),
	}
	attrs := map[string]string{
		"eventType":    types.EventPrisonerReceived,
		"caseNoteType": "",
	}

	if err := pub.Publish(context.Background(), event, attrs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.calls) != 1 {
		t.Fatalf("expected 1 publish call, got %d", len(sender.calls))
	}

	call := sender.calls[0]
	if *call.TopicArn != "arn:aws:sns:eu-west-2:123:domain-events" {
		t.Errorf("TopicArn: got %s", *call.TopicArn)
	}

	var sent types.DomainEvent
	if err := json.Unmarshal([]byte(*call.Message), &sent); err != nil {
		t.Fatalf("failed to unmarshal sent body: %v", err)
	}
	if sent.EventType != types.EventPrisonerReceived {
		t.Errorf("EventType: got %s", sent.EventType)
	}
	if sent.OccurredAt != event.OccurredAt {
		t.Errorf("OccurredAt: got %s, want %s", sent.OccurredAt, event.OccurredAt)
	}

	attr, ok := call.MessageAttributes["eventType"]
	if !ok {
		t.Fatal("eventType message attribute missing")
	}
	if *attr.DataType != "String" {
		t.Errorf("DataType: got %s, want String", *attr.DataType)
	}
	if *attr.StringValue != types.EventPrisonerReceived {
		t.Errorf("StringValue: got %s", *attr.StringValue)
	}
}

func TestDomainEventPublisher_PublishErrorIsReturned(t *testing.T) {
	wantErr := errors.New("topic unavailable")
	pub := NewDomainEventPublisher(&mockSNSPublisher{returnErr: wantErr}, "arn:topic", &mockLogger{})

	err := pub.Publish(context.Background(), types.DomainEvent{EventType: types.EventPrisonerReleased}, nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want wrapped %v", err, wantErr)
	}
}
