// Package reasons holds the decision engines that settle why a prisoner was
// received or released, cross-referencing the prison and probation read APIs.
package reasons

import (
	"time"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// latestActiveRecall picks the most recent referral date among recalls that
// are active or completed. ok is false when no such recall exists.
func latestActiveRecall(recalls []types.Recall) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, r := range recalls {
		if !r.ActiveOrCompleted() {
			continue
		}
		if !found || r.ReferralDate.After(latest) {
			latest = r.ReferralDate
			found = true
		}
	}
	return latest, found
}

// probationRecallReferral decides whether the probation system's recall
// referrals prove this reception was a recall. It is a pure function of the
// candidate recalls, the prisoner's movement history, and the current time,
// so it needs no network layer to test.
//
// A referral is disproved by any "IN"-direction movement on or after the
// referral date: the prisoner was already back inside before the referral
// was raised. Movements within the grace window of now are ignored, because
// the movement being explained by this very event may already be visible
// upstream; a very recent movement does not disprove an older recall.
func probationRecallReferral(
	recalls []types.Recall,
	movements []types.Movement,
	now time.Time,
	grace time.Duration,
) (time.Time, bool) {
	referralDate, ok := latestActiveRecall(recalls)
	if !ok {
		return time.Time{}, false
	}

	cutoff := now.Add(-grace)
	for _, m := range movements {
		if m.DirectionCode != "IN" {
			continue
		}
		if m.MovementDate.After(cutoff) {
			continue
		}
		if !m.MovementDate.Before(referralDate) {
			return time.Time{}, false
		}
	}

	return referralDate, true
}
