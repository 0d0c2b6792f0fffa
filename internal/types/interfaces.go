package types

import (
	"context"
	"time"
)

// Logger defines the structured logging interface used throughout the
// service. slog satisfies Info/Warn/Error directly; the With method is why
// an adapter wraps it at the entrypoint.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the real system time (always UTC).
type RealClock struct{}

// Now returns the current time in UTC.
func (RealClock) Now() time.Time { return time.Now().UTC() }

// PrisonAPI is the read gateway onto the prison system.
type PrisonAPI interface {
	// GetPrisonerSnapshot fetches the current view of a prisoner. A
	// not-found AppError means the number is unknown or merged away.
	GetPrisonerSnapshot(ctx context.Context, nomsNumber string) (*PrisonerSnapshot, error)

	// GetMovements fetches the prisoner's movement history.
	GetMovements(ctx context.Context, nomsNumber string) ([]Movement, error)

	// GetPrisonerNumberForBooking resolves the current prisoner number for
	// a booking. An unknown booking returns ok=false with a nil error.
	GetPrisonerNumberForBooking(ctx context.Context, bookingID int64) (string, bool, error)

	// GetMergedNumbers fetches all historical MERGED identifiers on a
	// booking, in gateway order.
	GetMergedNumbers(ctx context.Context, bookingID int64) ([]string, error)
}

// ProbationAPI is the read gateway onto the supervision system.
type ProbationAPI interface {
	// GetRecalls fetches recall referrals for a prisoner. Unknown numbers
	// return an empty list, never an error.
	GetRecalls(ctx context.Context, nomsNumber string) ([]Recall, error)
}

// EventPublisher publishes a finished domain event to the outbound topic.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent, attributes map[string]string) error
}

// Requeuer sends a raw message body back to its origin queue with a
// visibility delay, for re-evaluation on redelivery.
type Requeuer interface {
	Requeue(ctx context.Context, body string, delay time.Duration) error
}

// TelemetryClient emits operational telemetry records. Implementations must
// never fail the caller; emission problems are logged and swallowed.
type TelemetryClient interface {
	EmitTelemetry(ctx context.Context, name string, attributes map[string]string)
}
