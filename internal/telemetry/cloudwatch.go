// Package telemetry emits operational telemetry records to CloudWatch.
package telemetry

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/ministryofjustice/prison-offender-events-sub000/internal/types"
)

// maxDimensions is the CloudWatch per-datum dimension limit.
const maxDimensions = 30

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchTelemetry implements types.TelemetryClient by emitting one count
// metric per telemetry record, with the record's attributes as dimensions.
// Emission failures are logged and swallowed: telemetry must never fail the
// message that produced it.
type CloudWatchTelemetry struct {
	client    CloudWatchClient
	namespace string
	logger    types.Logger
}

// NewCloudWatchTelemetry creates a telemetry client publishing to the given
// CloudWatch namespace.
func NewCloudWatchTelemetry(client CloudWatchClient, namespace string, logger types.Logger) *CloudWatchTelemetry {
	return &CloudWatchTelemetry{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Compile-time assertion that CloudWatchTelemetry implements types.TelemetryClient.
var _ types.TelemetryClient = (*CloudWatchTelemetry)(nil)

// EmitTelemetry emits a count metric named after the record, with attributes
// as dimensions in sorted key order for deterministic datums. Attributes
// beyond the CloudWatch dimension limit are dropped, keys sorting first win.
func (t *CloudWatchTelemetry) EmitTelemetry(ctx context.Context, name string, attributes map[string]string) {
	keys := make([]string, 0, len(attributes))
	for k, v := range attributes {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxDimensions {
		keys = keys[:maxDimensions]
	}

	dimensions := make([]cwtypes.Dimension, 0, len(keys))
	for _, k := range keys {
		dimensions = append(dimensions, cwtypes.Dimension{
			Name:  aws.String(k),
			Value: aws.String(attributes[k]),
		})
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(t.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: dimensions,
			},
		},
	}

	if _, err := t.client.PutMetricData(ctx, input); err != nil {
		t.logger.Error("failed to emit telemetry record",
			"name", name,
			"error", err.Error(),
		)
	}
}
