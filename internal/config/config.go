// Package config defines the global configuration structure for the prison
// offender events service. Configuration is loaded once at process
// initialization (Lambda cold start) and is immutable thereafter.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> AWS SSM Parameter Store (Lowest)
//
// Any missing required value or invalid format fails startup immediately.
package config

import "time"

// Config is the top-level configuration struct. Sub-components receive only
// the specific config subsets they require.
type Config struct {
	// System metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev preprod prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"prison-offender-events"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain configurations
	AWS           AWSConfig
	API           APIConfig
	Delay         DelayConfig
	Observability ObservabilityConfig

	// Build metadata (injected via ldflags, not env)
	Build BuildInfo
}

// AWSConfig holds AWS resource identifiers and regional configuration.
type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:"eu-west-2"`

	// DomainEventsTopicARN is the outbound topic for enriched domain events.
	DomainEventsTopicARN string `envconfig:"SNS_DOMAIN_EVENTS_TOPIC_ARN" validate:"required"`

	// PrisonEventsQueueURL is the origin queue raw events arrive on; delayed
	// messages are requeued here unmodified.
	PrisonEventsQueueURL string `envconfig:"SQS_PRISON_EVENTS" validate:"required,url"`

	// LocalStack support (empty in prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// APIConfig holds the upstream read API endpoints and client tuning.
type APIConfig struct {
	PrisonAPIBaseURL    string `envconfig:"PRISON_API_BASE_URL" validate:"required,url"`
	ProbationAPIBaseURL string `envconfig:"PROBATION_API_BASE_URL" validate:"required,url"`

	// CaseNotesDetailURL, when set, is the base URL used to build the
	// detailUrl on case-note domain events (no trailing slash).
	CaseNotesDetailURL string `envconfig:"CASE_NOTES_DETAIL_URL" validate:"omitempty,url"`

	Timeout       time.Duration `envconfig:"API_TIMEOUT" default:"30s"`
	HealthTimeout time.Duration `envconfig:"API_HEALTH_TIMEOUT" default:"1s"`
	UserAgent     string        `envconfig:"API_USER_AGENT" default:"prison-offender-events/1.0"`
}

// DelayConfig holds the timing knobs for the delayed redelivery gate and the
// probation cross-check.
type DelayConfig struct {
	// TotalDelay is how old a movement-sensitive message must be before
	// enrichment is attempted; younger messages are requeued.
	TotalDelay time.Duration `envconfig:"EVENT_TOTAL_DELAY" default:"45m"`

	// RedeliveryDelay is the visibility delay applied when requeuing.
	RedeliveryDelay time.Duration `envconfig:"EVENT_REDELIVERY_DELAY" default:"15m"`

	// RecallMovementGrace excludes very recent movements from disproving a
	// recall referral, tolerating upstream processing lag.
	RecallMovementGrace time.Duration `envconfig:"RECALL_MOVEMENT_GRACE" default:"96h"`

	// SourceTimezone is the zone the source system's naive timestamps are
	// interpreted in.
	SourceTimezone string `envconfig:"SOURCE_TIMEZONE" default:"Europe/London"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"PrisonOffenderEvents"`
}

// BuildInfo carries linker-injected build metadata.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}
