package reasons

import (
	"context"
	"fmt"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// ReleaseCalculator answers "why was this prisoner released". Releases map
// directly from the last movement; no probation cross-check is needed.
type ReleaseCalculator struct {
	prison types.PrisonAPI
	logger types.Logger
}

// NewReleaseCalculator creates a ReleaseCalculator.
func NewReleaseCalculator(prison types.PrisonAPI, logger types.Logger) *ReleaseCalculator {
	return &ReleaseCalculator{prison: prison, logger: logger}
}

// Calculate fetches the prisoner's snapshot and resolves the release reason.
// The not-found contract matches the receive calculator: the caller logs and
// skips, never crashes.
func (c *ReleaseCalculator) Calculate(ctx context.Context, nomsNumber string) (*types.ReleaseReason, error) {
	snapshot, err := c.prison.GetPrisonerSnapshot(ctx, nomsNumber)
	if err != nil {
		return nil, err
	}

	reason := types.ReleaseReason{
		CurrentLocation:         snapshot.CurrentLocation(),
		CurrentPrisonStatus:     snapshot.CurrentPrisonStatus(),
		PrisonID:                snapshot.LatestLocationID,
		NomisMovementReasonCode: snapshot.LastMovementReasonCode,
	}

	switch snapshot.TypeOfMovement() {
	case types.MovementTemporaryAbsence:
		reason.Reason = types.ReleaseTemporaryAbsenceRelease
	case types.MovementCourt:
		reason.Reason = types.ReleaseSentToCourt
	case types.MovementTransfer:
		reason.Reason = types.ReleaseTransferred
	case types.MovementReleased:
		if snapshot.MovementReason() == types.ReasonHospitalisation {
			reason.Reason = types.ReleaseReleasedToHospital
		} else {
			reason.Reason = types.ReleaseReleased
			reason.Details = fmt.Sprintf("Movement reason code %s", snapshot.LastMovementReasonCode)
		}
	default:
		reason.Reason = types.ReleaseUnknown
		reason.Details = fmt.Sprintf("Movement type code %s", snapshot.LastMovementTypeCode)
	}

	return &reason, nil
}
