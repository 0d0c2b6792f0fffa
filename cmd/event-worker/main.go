// Package main is the entrypoint for the event worker Lambda function.
//
// The worker consumes raw prison events from the prison events SQS queue,
// holds movement events until they have aged past the delay window, enriches
// the rest against the prison and probation read APIs, and publishes the
// resulting domain events to the domain events SNS topic.
//
// Cold start:
//  1. Initialize structured logger.
//  2. Load and validate configuration (env -> dotenv -> SSM).
//  3. Load AWS SDK configuration and service clients.
//  4. Build the upstream API gateways behind circuit breakers.
//  5. Build the reason calculators, merge discriminator, and emitter.
//  6. Register the queue handler and call lambda.Start.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/config"
	"github.com/ministryofjustice/prison-offender-events-sub000/internal/consumer"
	"github.com/ministryofjustice/prison-offender-events-sub000/internal/emitter"
	"github.com/ministryofjustice/prison-offender-events-sub000/internal/gateways"
	"github.com/ministryofjustice/prison-offender-events-sub000/internal/merge"
	"github.com/ministryofjustice/prison-offender-events-sub000/internal/queue"
	"github.com/ministryofjustice/prison-offender-events-sub000/internal/reasons"
	"github.com/ministryofjustice/prison-offender-events-sub000/internal/telemetry"
	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// slogAdapter wraps *slog.Logger to implement the types.Logger interface.
// slog.Logger satisfies Info, Warn, and Error directly but With returns
// *slog.Logger, not types.Logger, so an adapter is necessary.
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, args ...any)  { a.logger.Info(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.logger.Error(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.logger.Warn(msg, args...) }
func (a *slogAdapter) With(args ...any) types.Logger {
	return &slogAdapter{logger: a.logger.With(args...)}
}

// Compile-time assertion that slogAdapter implements types.Logger.
var _ types.Logger = (*slogAdapter)(nil)

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	bootstrapLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	bootstrapLogger.Info("event worker initializing (cold start)")

	cfg, err := config.LoadConfig(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		bootstrapLogger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	typedLogger := &slogAdapter{logger: logger}

	sourceLoc, err := time.LoadLocation(cfg.Delay.SourceTimezone)
	if err != nil {
		logger.Error("failed to load source timezone",
			"timezone", cfg.Delay.SourceTimezone,
			"error", err,
		)
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWS.Region),
	)
	if err != nil {
		logger.Error("failed to load AWS SDK config", "error", err)
		os.Exit(1)
	}

	// LocalStack support: point every AWS client at the custom endpoint
	// when one is configured.
	var endpoint *string
	if cfg.AWS.EndpointURL != "" {
		endpoint = aws.String(cfg.AWS.EndpointURL)
	}
	snsClient := sns.NewFromConfig(awsCfg, func(o *sns.Options) { o.BaseEndpoint = endpoint })
	sqsClient := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) { o.BaseEndpoint = endpoint })
	cwClient := cloudwatch.NewFromConfig(awsCfg, func(o *cloudwatch.Options) { o.BaseEndpoint = endpoint })

	telemetryClient := telemetry.NewCloudWatchTelemetry(cwClient, cfg.Observability.MetricNamespace, typedLogger)
	publisher := queue.NewDomainEventPublisher(snsClient, cfg.AWS.DomainEventsTopicARN, typedLogger)
	requeuer := queue.NewRequeuer(sqsClient, cfg.AWS.PrisonEventsQueueURL, typedLogger)

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	prisonBase := gateways.NewBaseClient(httpClient, "prison-api", gateways.DefaultRetryPolicy(), cfg.API.UserAgent)
	probationBase := gateways.NewBaseClient(httpClient, "probation-api", gateways.DefaultRetryPolicy(), cfg.API.UserAgent)
	prison := gateways.NewPrisonClient(prisonBase, cfg.API.PrisonAPIBaseURL, typedLogger)
	probation := gateways.NewProbationClient(probationBase, cfg.API.ProbationAPIBaseURL, typedLogger)

	clock := types.RealClock{}
	receive := reasons.NewReceiveCalculator(prison, probation, clock, cfg.Delay.RecallMovementGrace, typedLogger)
	release := reasons.NewReleaseCalculator(prison, typedLogger)
	merges := merge.NewDiscriminator(prison, telemetryClient, typedLogger)

	em := emitter.New(
		receive,
		release,
		merges,
		prison,
		publisher,
		telemetryClient,
		clock,
		sourceLoc,
		cfg.API.CaseNotesDetailURL,
		typedLogger,
	)

	handler := consumer.NewHandler(
		em,
		requeuer,
		telemetryClient,
		clock,
		cfg.Delay.TotalDelay,
		cfg.Delay.RedeliveryDelay,
		typedLogger,
	)

	logger.Info("event worker initialized",
		"environment", cfg.Environment,
		"prison_events_queue", cfg.AWS.PrisonEventsQueueURL,
		"domain_events_topic", cfg.AWS.DomainEventsTopicARN,
		"total_delay", cfg.Delay.TotalDelay.String(),
		"version", cfg.Build.Version,
	)

	// Local mode: read a JSON SQS event from stdin instead of starting the
	// Lambda runtime, so the worker can be exercised without the AWS RIE.
	if cfg.Environment == "local" {
		logger.Info("APP_ENV=local: reading SQS event from stdin")
		payload, err := io.ReadAll(os.Stdin)
		if err != nil {
			logger.Error("failed to read stdin", "error", err)
			os.Exit(1)
		}
		var sqsEvent events.SQSEvent
		if err := json.Unmarshal(payload, &sqsEvent); err != nil {
			logger.Error("failed to parse stdin as SQS event", "error", err)
			os.Exit(1)
		}
		response, err := handler.Handle(context.Background(), sqsEvent)
		if err != nil {
			logger.Error("handler execution failed", "error", err)
			os.Exit(1)
		}
		if len(response.BatchItemFailures) > 0 {
			respJSON, _ := json.MarshalIndent(response, "", "  ")
			fmt.Fprintln(os.Stderr, string(respJSON))
		}
		logger.Info("handler execution completed",
			"records_processed", len(sqsEvent.Records),
			"failures", len(response.BatchItemFailures),
		)
		return
	}

	lambda.Start(handler.Handle)
}
