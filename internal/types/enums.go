package types

// MovementType classifies the prisoner's last recorded movement.
type MovementType string

const (
	MovementTemporaryAbsence MovementType = "TEMPORARY_ABSENCE"
	MovementAdmission        MovementType = "ADMISSION"
	MovementReleased         MovementType = "RELEASED"
	MovementCourt            MovementType = "COURT"
	MovementTransfer         MovementType = "TRANSFER"
	MovementOther            MovementType = "OTHER"
)

// MovementTypeOf maps a raw NOMIS movement type code to its classification.
func MovementTypeOf(code string) MovementType {
	switch code {
	case "TAP":
		return MovementTemporaryAbsence
	case "ADM":
		return MovementAdmission
	case "REL":
		return MovementReleased
	case "CRT":
		return MovementCourt
	case "TRN":
		return MovementTransfer
	default:
		return MovementOther
	}
}

// MovementReason classifies the raw movement reason code into the coarse
// classes the reason calculators dispatch on.
type MovementReason string

const (
	ReasonHospitalisation MovementReason = "HOSPITALISATION"
	ReasonTransfer        MovementReason = "TRANSFER"
	ReasonRecall          MovementReason = "RECALL"
	ReasonRemand          MovementReason = "REMAND"
	ReasonOther           MovementReason = "OTHER"
)

// MovementReasonOf maps a raw NOMIS movement reason code to its class.
func MovementReasonOf(code string) MovementReason {
	switch code {
	case "HP":
		return ReasonHospitalisation
	case "INT", "TRNCRT", "TRNTAP":
		return ReasonTransfer
	case "L", "B", "Y":
		return ReasonRecall
	case "N":
		return ReasonRemand
	default:
		return ReasonOther
	}
}

// LegalStatus is the prisoner's legal status as reported by the prison API.
type LegalStatus string

const (
	LegalStatusRecall                LegalStatus = "RECALL"
	LegalStatusCivilPrisoner         LegalStatus = "CIVIL_PRISONER"
	LegalStatusConvictedUnsentenced  LegalStatus = "CONVICTED_UNSENTENCED"
	LegalStatusSentenced             LegalStatus = "SENTENCED"
	LegalStatusIndeterminateSentence LegalStatus = "INDETERMINATE_SENTENCE"
	LegalStatusImmigrationDetainee   LegalStatus = "IMMIGRATION_DETAINEE"
	LegalStatusRemand                LegalStatus = "REMAND"
	LegalStatusDead                  LegalStatus = "DEAD"
	LegalStatusOther                 LegalStatus = "OTHER"
	LegalStatusUnknown               LegalStatus = "UNKNOWN"
)

// LegalStatusOf parses a legal status string, defaulting to UNKNOWN for
// anything unrecognised (the upstream set grows over time).
func LegalStatusOf(s string) LegalStatus {
	switch LegalStatus(s) {
	case LegalStatusRecall, LegalStatusCivilPrisoner, LegalStatusConvictedUnsentenced,
		LegalStatusSentenced, LegalStatusIndeterminateSentence, LegalStatusImmigrationDetainee,
		LegalStatusRemand, LegalStatusDead, LegalStatusOther:
		return LegalStatus(s)
	default:
		return LegalStatusUnknown
	}
}

// CurrentLocation is where the prisoner physically is right now, derived
// from the snapshot status string.
type CurrentLocation string

const (
	LocationInPrison         CurrentLocation = "IN_PRISON"
	LocationOutsidePrison    CurrentLocation = "OUTSIDE_PRISON"
	LocationBeingTransferred CurrentLocation = "BEING_TRANSFERRED"
	LocationReleased         CurrentLocation = "RELEASED"
)

// CurrentPrisonStatus says whether the prisoner remains under prison care.
type CurrentPrisonStatus string

const (
	UnderPrisonCare    CurrentPrisonStatus = "UNDER_PRISON_CARE"
	NotUnderPrisonCare CurrentPrisonStatus = "NOT_UNDER_PRISON_CARE"
)

// ReceiveReasonCode is the definitive business reason for a reception.
type ReceiveReasonCode string

const (
	ReceiveTemporaryAbsenceReturn ReceiveReasonCode = "TEMPORARY_ABSENCE_RETURN"
	ReceiveReturnFromCourt        ReceiveReasonCode = "RETURN_FROM_COURT"
	ReceiveTransferred            ReceiveReasonCode = "TRANSFERRED"
	ReceiveAdmission              ReceiveReasonCode = "ADMISSION"
)

// ProbableCause qualifies an ADMISSION receive reason.
type ProbableCause string

const (
	CauseRecall              ProbableCause = "RECALL"
	CauseRemand              ProbableCause = "REMAND"
	CauseConvicted           ProbableCause = "CONVICTED"
	CauseImmigrationDetainee ProbableCause = "IMMIGRATION_DETAINEE"
	CauseUnknown             ProbableCause = "UNKNOWN"
)

// ReasonSource identifies which upstream system settled the receive reason.
type ReasonSource string

const (
	SourcePrison    ReasonSource = "PRISON"
	SourceProbation ReasonSource = "PROBATION"
)

// ReleaseReasonCode is the definitive business reason for a release.
type ReleaseReasonCode string

const (
	ReleaseTemporaryAbsenceRelease ReleaseReasonCode = "TEMPORARY_ABSENCE_RELEASE"
	ReleaseSentToCourt             ReleaseReasonCode = "SENT_TO_COURT"
	ReleaseTransferred             ReleaseReasonCode = "TRANSFERRED"
	ReleaseReleased                ReleaseReasonCode = "RELEASED"
	ReleaseReleasedToHospital      ReleaseReasonCode = "RELEASED_TO_HOSPITAL"
	ReleaseUnknown                 ReleaseReasonCode = "UNKNOWN"
)

// IdentifierType labels entries in a domain event's person reference.
type IdentifierType string

const (
	IdentifierNOMS   IdentifierType = "NOMS"
	IdentifierPerson IdentifierType = "PERSON"
)
