package types

import (
	"strings"
	"time"
)

// PrisonerSnapshot is the prison API's current view of a prisoner. All
// classification methods are pure functions of the raw fields so the reason
// calculators can be tested without any network layer.
type PrisonerSnapshot struct {
	NomsNumber             string `json:"prisonerNumber"`
	LegalStatusCode        string `json:"legalStatus"`
	Recall                 bool   `json:"recall"`
	LastMovementTypeCode   string `json:"lastMovementTypeCode"`
	LastMovementReasonCode string `json:"lastMovementReasonCode"`
	// Status is the two-token NOMIS status string, e.g. "ACTIVE IN" or
	// "INACTIVE TRN".
	Status           string `json:"status"`
	LatestLocationID string `json:"latestLocationId"`
	StatusReason     string `json:"statusReason"`
}

// TypeOfMovement classifies the last movement type code.
func (s PrisonerSnapshot) TypeOfMovement() MovementType {
	return MovementTypeOf(s.LastMovementTypeCode)
}

// MovementReason classifies the last movement reason code.
func (s PrisonerSnapshot) MovementReason() MovementReason {
	return MovementReasonOf(s.LastMovementReasonCode)
}

// LegalStatus parses the raw legal status, defaulting to UNKNOWN.
func (s PrisonerSnapshot) LegalStatus() LegalStatus {
	return LegalStatusOf(s.LegalStatusCode)
}

func (s PrisonerSnapshot) statusToken(i int) string {
	tokens := strings.Fields(s.Status)
	if i >= len(tokens) {
		return ""
	}
	return tokens[i]
}

// CurrentLocation derives the prisoner's physical whereabouts from the second
// token of the status string. An "OUT" status after a release movement means
// released; after anything else it means out of prison but still on the books
// (court, temporary absence).
func (s PrisonerSnapshot) CurrentLocation() CurrentLocation {
	switch s.statusToken(1) {
	case "IN":
		return LocationInPrison
	case "TRN":
		return LocationBeingTransferred
	default:
		if s.TypeOfMovement() == MovementReleased {
			return LocationReleased
		}
		return LocationOutsidePrison
	}
}

// CurrentPrisonStatus derives prison-care status from the first status token.
func (s PrisonerSnapshot) CurrentPrisonStatus() CurrentPrisonStatus {
	if s.statusToken(0) == "ACTIVE" {
		return UnderPrisonCare
	}
	return NotUnderPrisonCare
}

// Recall is one probation recall referral for a prisoner.
type Recall struct {
	ReferralDate              time.Time `json:"referralDate"`
	RecallRejectedOrWithdrawn *bool     `json:"recallRejectedOrWithdrawn"`
	OutcomeRecall             *bool     `json:"outcomeRecall"`
}

// ActiveOrCompleted reports whether the recall should count towards a
// probation-sourced admission reason: either the outcome confirmed a recall,
// or no outcome has been recorded yet and the referral was not rejected or
// withdrawn.
func (r Recall) ActiveOrCompleted() bool {
	if r.OutcomeRecall != nil {
		return *r.OutcomeRecall
	}
	return r.RecallRejectedOrWithdrawn != nil && !*r.RecallRejectedOrWithdrawn
}

// Movement is one row of a prisoner's movement history.
type Movement struct {
	DirectionCode string    `json:"directionCode"`
	MovementDate  time.Time `json:"movementDate"`
}
