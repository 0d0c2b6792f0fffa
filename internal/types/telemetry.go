package types

// Telemetry record names.
// All components MUST use these constants.
// Published domain events are telemetered under their output event type;
// these names cover the paths that produce no public event.
const (
	TelemetryPrisonerNotReceived = "prisoner-not-received"
	TelemetryPrisonerNotReleased = "prisoner-not-released"
	TelemetryPrisonerMerged      = "prisoner-merged"
	TelemetryPublishFailed       = "EventPublishFailed"
	TelemetryMessageDelayed      = "prison-event-delayed"
)

// Telemetry attribute keys shared across components.
const (
	AttrEventType           = "eventType"
	AttrNomsNumber          = "nomsNumber"
	AttrOccurredAt          = "occurredAt"
	AttrPublishedAt         = "publishedAt"
	AttrReason              = "reason"
	AttrProbableCause       = "probableCause"
	AttrSource              = "source"
	AttrDetails             = "details"
	AttrCurrentLocation     = "currentLocation"
	AttrCurrentPrisonStatus = "currentPrisonStatus"
)
