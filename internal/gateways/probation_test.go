package gateways

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetRecalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/probation-case/A1234BC/recalls" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		w.Write([]byte(`[
			{"referralDate": "2021-05-12T00:00:00Z", "outcomeRecall": true},
			{"referralDate": "2021-04-01T00:00:00Z", "recallRejectedOrWithdrawn": true}
		]`))
	}))
	defer server.Close()

	client := NewProbationClient(newTestClient(t, DefaultRetryPolicy()), server.URL, &mockLogger{})
	recalls, err := client.GetRecalls(context.Background(), "A1234BC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recalls) != 2 {
		t.Fatalf("expected 2 recalls, got %d", len(recalls))
	}
	if !recalls[0].ReferralDate.Equal(time.Date(2021, 5, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ReferralDate: got %v", recalls[0].ReferralDate)
	}
	if recalls[0].OutcomeRecall == nil || !*recalls[0].OutcomeRecall {
		t.Error("OutcomeRecall: expected true")
	}
	if !recalls[0].ActiveOrCompleted() {
		t.Error("first recall should be active or completed")
	}
	if recalls[1].ActiveOrCompleted() {
		t.Error("rejected recall should not count")
	}
}

func TestGetRecalls_UnknownPrisonerIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewProbationClient(newTestClient(t, DefaultRetryPolicy()), server.URL, &mockLogger{})
	recalls, err := client.GetRecalls(context.Background(), "A1234BC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recalls) != 0 {
		t.Errorf("expected no recalls, got %d", len(recalls))
	}
}
