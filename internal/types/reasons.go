package types

// ReceiveReason is the settled answer to "why was this prisoner received".
type ReceiveReason struct {
	Reason                  ReceiveReasonCode
	ProbableCause           ProbableCause
	Source                  ReasonSource
	Details                 string
	CurrentLocation         CurrentLocation
	CurrentPrisonStatus     CurrentPrisonStatus
	PrisonID                string
	NomisMovementReasonCode string
}

// HasPrisonerActuallyBeenReceived reports whether the reception really took
// place. The raw event alone is not trustworthy; only the current location
// proves a reception.
func (r ReceiveReason) HasPrisonerActuallyBeenReceived() bool {
	return r.CurrentLocation == LocationInPrison
}

// ReleaseReason is the settled answer to "why was this prisoner released".
type ReleaseReason struct {
	Reason                  ReleaseReasonCode
	Details                 string
	CurrentLocation         CurrentLocation
	CurrentPrisonStatus     CurrentPrisonStatus
	PrisonID                string
	NomisMovementReasonCode string
}

// HasPrisonerActuallyBeenRelease reports whether the release really took
// place, the mirror of the reception check.
func (r ReleaseReason) HasPrisonerActuallyBeenRelease() bool {
	return r.CurrentLocation != LocationInPrison
}

// MergeOutcome records one historical prisoner number folded into the
// number that survived the merge.
type MergeOutcome struct {
	MergedNumber    string
	RemainingNumber string
}
