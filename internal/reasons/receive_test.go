package reasons

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// mockLogger implements types.Logger as a no-op for tests.
type mockLogger struct{}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) {}
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

type mockClock struct {
	now time.Time
}

func (c *mockClock) Now() time.Time { return c.now }

// mockPrisonAPI returns canned responses and records whether the movement
// history was consulted.
type mockPrisonAPI struct {
	snapshot       *types.PrisonerSnapshot
	snapshotErr    error
	movements      []types.Movement
	movementsCalls int
}

func (m *mockPrisonAPI) GetPrisonerSnapshot(_ context.Context, _ string) (*types.PrisonerSnapshot, error) {
	return m.snapshot, m.snapshotErr
}

func (m *mockPrisonAPI) GetMovements(_ context.Context, _ string) ([]types.Movement, error) {
	m.movementsCalls++
	return m.movements, nil
}

func (m *mockPrisonAPI) GetPrisonerNumberForBooking(_ context.Context, _ int64) (string, bool, error) {
	return "", false, nil
}

func (m *mockPrisonAPI) GetMergedNumbers(_ context.Context, _ int64) ([]string, error) {
	return nil, nil
}

type mockProbationAPI struct {
	recalls []types.Recall
	calls   int
}

func (m *mockProbationAPI) GetRecalls(_ context.Context, _ string) ([]types.Recall, error) {
	m.calls++
	return m.recalls, nil
}

func newReceiveCalculator(prison *mockPrisonAPI, probation *mockProbationAPI, now time.Time) *ReceiveCalculator {
	return NewReceiveCalculator(prison, probation, &mockClock{now: now}, 96*time.Hour, &mockLogger{})
}

func TestReceiveCalculator_MovementPrecedence(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name          string
		snapshot      types.PrisonerSnapshot
		wantReason    types.ReceiveReasonCode
		wantCause     types.ProbableCause
		wantProbation bool
	}{
		{
			name: "temporary absence return",
			snapshot: types.PrisonerSnapshot{
				LastMovementTypeCode: "TAP",
				Status:               "ACTIVE IN",
			},
			wantReason: types.ReceiveTemporaryAbsenceReturn,
		},
		{
			name: "return from court",
			snapshot: types.PrisonerSnapshot{
				LastMovementTypeCode: "CRT",
				Status:               "ACTIVE IN",
			},
			wantReason: types.ReceiveReturnFromCourt,
		},
		{
			name: "admission by transfer",
			snapshot: types.PrisonerSnapshot{
				LastMovementTypeCode:   "ADM",
				LastMovementReasonCode: "INT",
				Status:                 "ACTIVE IN",
			},
			wantReason: types.ReceiveTransferred,
		},
		{
			name: "admission by recall movement code",
			snapshot: types.PrisonerSnapshot{
				LastMovementTypeCode:   "ADM",
				LastMovementReasonCode: "L",
				Status:                 "ACTIVE IN",
			},
			wantReason: types.ReceiveAdmission,
			wantCause:  types.CauseRecall,
		},
		{
			name: "recall flag on snapshot",
			snapshot: types.PrisonerSnapshot{
				LastMovementTypeCode: "REL",
				Recall:               true,
				LegalStatusCode:      "REMAND",
				Status:               "ACTIVE IN",
			},
			wantReason: types.ReceiveAdmission,
			wantCause:  types.CauseRecall,
		},
		{
			name: "immigration detainee fallback",
			snapshot: types.PrisonerSnapshot{
				LegalStatusCode: "IMMIGRATION_DETAINEE",
				Status:          "ACTIVE IN",
			},
			wantReason: types.ReceiveAdmission,
			wantCause:  types.CauseImmigrationDetainee,
		},
		{
			name: "remand legal status fallback",
			snapshot: types.PrisonerSnapshot{
				LegalStatusCode: "REMAND",
				Status:          "ACTIVE IN",
			},
			wantReason: types.ReceiveAdmission,
			wantCause:  types.CauseRemand,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prison := &mockPrisonAPI{snapshot: &tc.snapshot}
			probation := &mockProbationAPI{}
			calc := newReceiveCalculator(prison, probation, now)

			got, err := calc.Calculate(context.Background(), "A1234BC")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Reason != tc.wantReason {
				t.Errorf("Reason: got %s, want %s", got.Reason, tc.wantReason)
			}
			if got.ProbableCause != tc.wantCause {
				t.Errorf("ProbableCause: got %s, want %s", got.ProbableCause, tc.wantCause)
			}
			if got.Source != types.SourcePrison {
				t.Errorf("Source: got %s, want %s", got.Source, types.SourcePrison)
			}
		})
	}
}

func TestReceiveCalculator_RemandAdmissionCrossChecksProbation(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := &types.PrisonerSnapshot{
		LastMovementTypeCode:   "ADM",
		LastMovementReasonCode: "N",
		LegalStatusCode:        "REMAND",
		Status:                 "ACTIVE IN",
		StatusReason:           "ADM-N",
	}

	t.Run("active recall wins", func(t *testing.T) {
		prison := &mockPrisonAPI{snapshot: snapshot}
		probation := &mockProbationAPI{recalls: []types.Recall{
			{ReferralDate: day(2021, 5, 12), OutcomeRecall: boolPtr(true)},
		}}
		calc := newReceiveCalculator(prison, probation, now)

		got, err := calc.Calculate(context.Background(), "A1234BC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Reason != types.ReceiveAdmission {
			t.Errorf("Reason: got %s, want ADMISSION", got.Reason)
		}
		if got.ProbableCause != types.CauseRecall {
			t.Errorf("ProbableCause: got %s, want RECALL", got.ProbableCause)
		}
		if got.Source != types.SourceProbation {
			t.Errorf("Source: got %s, want PROBATION", got.Source)
		}
		want := "ACTIVE IN:ADM-N Recall referral date 2021-05-12"
		if got.Details != want {
			t.Errorf("Details: got %q, want %q", got.Details, want)
		}
	})

	t.Run("no recall falls back to remand", func(t *testing.T) {
		prison := &mockPrisonAPI{snapshot: snapshot}
		probation := &mockProbationAPI{}
		calc := newReceiveCalculator(prison, probation, now)

		got, err := calc.Calculate(context.Background(), "A1234BC")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ProbableCause != types.CauseRemand {
			t.Errorf("ProbableCause: got %s, want REMAND", got.ProbableCause)
		}
		if got.Source != types.SourcePrison {
			t.Errorf("Source: got %s, want PRISON", got.Source)
		}
		if probation.calls != 1 {
			t.Errorf("probation calls: got %d, want 1", probation.calls)
		}
	})
}

func TestReceiveCalculator_AmbiguousLegalStatusCrossChecksProbation(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := &types.PrisonerSnapshot{
		LegalStatusCode: "SENTENCED",
		Status:          "ACTIVE IN",
	}

	prison := &mockPrisonAPI{snapshot: snapshot}
	probation := &mockProbationAPI{recalls: []types.Recall{
		{ReferralDate: day(2021, 5, 12), RecallRejectedOrWithdrawn: boolPtr(false)},
	}}
	calc := newReceiveCalculator(prison, probation, now)

	got, err := calc.Calculate(context.Background(), "A1234BC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProbableCause != types.CauseRecall {
		t.Errorf("ProbableCause: got %s, want RECALL", got.ProbableCause)
	}
	if got.Source != types.SourceProbation {
		t.Errorf("Source: got %s, want PROBATION", got.Source)
	}
}

func TestReceiveCalculator_UnambiguousStatusSkipsProbation(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := &types.PrisonerSnapshot{
		LegalStatusCode: "IMMIGRATION_DETAINEE",
		Status:          "ACTIVE IN",
	}

	prison := &mockPrisonAPI{snapshot: snapshot}
	probation := &mockProbationAPI{}
	calc := newReceiveCalculator(prison, probation, now)

	if _, err := calc.Calculate(context.Background(), "A1234BC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if probation.calls != 0 {
		t.Errorf("probation calls: got %d, want 0", probation.calls)
	}
	if prison.movementsCalls != 0 {
		t.Errorf("movement calls: got %d, want 0", prison.movementsCalls)
	}
}

func TestReceiveCalculator_NotActuallyReceived(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := &types.PrisonerSnapshot{
		LastMovementTypeCode: "CRT",
		Status:               "ACTIVE OUT",
	}

	calc := newReceiveCalculator(&mockPrisonAPI{snapshot: snapshot}, &mockProbationAPI{}, now)
	got, err := calc.Calculate(context.Background(), "A1234BC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.HasPrisonerActuallyBeenReceived() {
		t.Error("expected HasPrisonerActuallyBeenReceived=false for ACTIVE OUT")
	}
	if got.CurrentLocation != types.LocationOutsidePrison {
		t.Errorf("CurrentLocation: got %s, want OUTSIDE_PRISON", got.CurrentLocation)
	}
}

func TestReceiveCalculator_SnapshotErrorPropagates(t *testing.T) {
	wantErr := types.NewAppError(types.ErrCodeNotFoundPrisoner, "prisoner not found", nil)
	calc := newReceiveCalculator(&mockPrisonAPI{snapshotErr: wantErr}, &mockProbationAPI{}, time.Now())

	_, err := calc.Calculate(context.Background(), "A1234BC")
	if !errors.Is(err, wantErr) {
		t.Errorf("got %v, want %v", err, wantErr)
	}
	if !types.IsNotFound(err) {
		t.Error("expected not-found classification to survive")
	}
}
