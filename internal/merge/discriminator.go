// Package merge detects and resolves identity merges for a booking.
package merge

import (
	"context"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// Discriminator resolves the prisoner numbers folded into a booking's
// current number.
type Discriminator struct {
	prison    types.PrisonAPI
	telemetry types.TelemetryClient
	logger    types.Logger
}

// NewDiscriminator creates a Discriminator.
func NewDiscriminator(prison types.PrisonAPI, telemetry types.TelemetryClient, logger types.Logger) *Discriminator {
	return &Discriminator{
		prison:    prison,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Merges returns one MergeOutcome per historical MERGED identifier on the
// booking, in gateway order. An unknown booking is not an error and yields
// an empty list, as does a booking with no merge history.
func (d *Discriminator) Merges(ctx context.Context, bookingID int64) ([]types.MergeOutcome, error) {
	currentNumber, ok, err := d.prison.GetPrisonerNumberForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		d.logger.Warn("booking has no current prisoner number", "booking_id", bookingID)
		return nil, nil
	}

	mergedNumbers, err := d.prison.GetMergedNumbers(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]types.MergeOutcome, 0, len(mergedNumbers))
	for _, merged := range mergedNumbers {
		outcomes = append(outcomes, types.MergeOutcome{
			MergedNumber:    merged,
			RemainingNumber: currentNumber,
		})
		d.telemetry.EmitTelemetry(ctx, types.TelemetryPrisonerMerged, map[string]string{
			"mergedNumber":    merged,
			"remainingNumber": currentNumber,
		})
	}

	return outcomes, nil
}
