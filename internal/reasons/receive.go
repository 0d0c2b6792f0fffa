package reasons

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// ReceiveCalculator answers "why was this prisoner received" by classifying
// the prisoner's snapshot and, for ambiguous admissions, cross-checking the
// probation system's recall referrals.
type ReceiveCalculator struct {
	prison    types.PrisonAPI
	probation types.ProbationAPI
	clock     types.Clock
	grace     time.Duration
	logger    types.Logger
}

// NewReceiveCalculator creates a ReceiveCalculator. grace is the movement
// exclusion tolerance for the probation cross-check.
func NewReceiveCalculator(
	prison types.PrisonAPI,
	probation types.ProbationAPI,
	clock types.Clock,
	grace time.Duration,
	logger types.Logger,
) *ReceiveCalculator {
	return &ReceiveCalculator{
		prison:    prison,
		probation: probation,
		clock:     clock,
		grace:     grace,
		logger:    logger,
	}
}

// crossCheckStatuses are the legal statuses ambiguous enough to warrant
// asking the probation system before falling back to the prison view.
var crossCheckStatuses = map[types.LegalStatus]bool{
	types.LegalStatusOther:                 true,
	types.LegalStatusUnknown:               true,
	types.LegalStatusConvictedUnsentenced:  true,
	types.LegalStatusSentenced:             true,
	types.LegalStatusIndeterminateSentence: true,
}

// Calculate fetches the prisoner's snapshot and resolves the receive reason.
// A not-found error from the snapshot gateway propagates to the caller, who
// must treat it as recoverable (the offender was merged away or is unknown).
func (c *ReceiveCalculator) Calculate(ctx context.Context, nomsNumber string) (*types.ReceiveReason, error) {
	snapshot, err := c.prison.GetPrisonerSnapshot(ctx, nomsNumber)
	if err != nil {
		return nil, err
	}

	base := types.ReceiveReason{
		Source:                  types.SourcePrison,
		Details:                 statusDetails(snapshot),
		CurrentLocation:         snapshot.CurrentLocation(),
		CurrentPrisonStatus:     snapshot.CurrentPrisonStatus(),
		PrisonID:                snapshot.LatestLocationID,
		NomisMovementReasonCode: snapshot.LastMovementReasonCode,
	}

	movement := snapshot.TypeOfMovement()
	movementReason := snapshot.MovementReason()

	// Resolution precedence; first match wins.
	switch {
	case movement == types.MovementTemporaryAbsence:
		base.Reason = types.ReceiveTemporaryAbsenceReturn
		return &base, nil

	case movement == types.MovementCourt:
		base.Reason = types.ReceiveReturnFromCourt
		return &base, nil

	case movement == types.MovementAdmission && movementReason == types.ReasonTransfer:
		base.Reason = types.ReceiveTransferred
		return &base, nil

	case movement == types.MovementAdmission && movementReason == types.ReasonRecall:
		base.Reason = types.ReceiveAdmission
		base.ProbableCause = types.CauseRecall
		return &base, nil

	case movement == types.MovementAdmission && movementReason == types.ReasonRemand:
		if r, ok, err := c.probationCrossCheck(ctx, nomsNumber, base); err != nil {
			return nil, err
		} else if ok {
			return r, nil
		}
		base.Reason = types.ReceiveAdmission
		base.ProbableCause = types.CauseRemand
		return &base, nil
	}

	if snapshot.Recall {
		base.Reason = types.ReceiveAdmission
		base.ProbableCause = types.CauseRecall
		return &base, nil
	}

	legalStatus := snapshot.LegalStatus()
	if crossCheckStatuses[legalStatus] {
		if r, ok, err := c.probationCrossCheck(ctx, nomsNumber, base); err != nil {
			return nil, err
		} else if ok {
			return r, nil
		}
	}

	base.Reason = types.ReceiveAdmission
	base.ProbableCause = probableCauseOf(legalStatus)
	return &base, nil
}

// probationCrossCheck fetches the prisoner's recall referrals and movement
// history in parallel and applies the pure referral heuristic. ok is false
// when probation has nothing definitive to add.
func (c *ReceiveCalculator) probationCrossCheck(
	ctx context.Context,
	nomsNumber string,
	base types.ReceiveReason,
) (*types.ReceiveReason, bool, error) {
	var recalls []types.Recall
	var movements []types.Movement

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		recalls, err = c.probation.GetRecalls(gctx, nomsNumber)
		return err
	})
	g.Go(func() error {
		var err error
		movements, err = c.prison.GetMovements(gctx, nomsNumber)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	referralDate, ok := probationRecallReferral(recalls, movements, c.clock.Now(), c.grace)
	if !ok {
		return nil, false, nil
	}

	r := base
	r.Reason = types.ReceiveAdmission
	r.ProbableCause = types.CauseRecall
	r.Source = types.SourceProbation
	r.Details = fmt.Sprintf("%s Recall referral date %s", base.Details, referralDate.Format("2006-01-02"))

	c.logger.Info("receive reason settled by probation recall referral",
		"noms_number", nomsNumber,
		"referral_date", referralDate.Format("2006-01-02"),
	)

	return &r, true, nil
}

// probableCauseOf maps a legal status straight to a probable cause, the last
// resort when neither movement codes nor probation settle the question.
func probableCauseOf(status types.LegalStatus) types.ProbableCause {
	switch status {
	case types.LegalStatusRecall:
		return types.CauseRecall
	case types.LegalStatusCivilPrisoner, types.LegalStatusConvictedUnsentenced,
		types.LegalStatusSentenced, types.LegalStatusIndeterminateSentence:
		return types.CauseConvicted
	case types.LegalStatusImmigrationDetainee:
		return types.CauseImmigrationDetainee
	case types.LegalStatusRemand:
		return types.CauseRemand
	default:
		return types.CauseUnknown
	}
}

// statusDetails renders the snapshot's status pair as the details string.
func statusDetails(s *types.PrisonerSnapshot) string {
	return fmt.Sprintf("%s:%s", s.Status, s.StatusReason)
}
