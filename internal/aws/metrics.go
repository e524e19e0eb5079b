package aws

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const metricNamespace = "Retail/Backoffice"

// Metrics emits operational counters to CloudWatch. Emission is best-effort:
// a failed put is logged and never surfaced to the caller. A nil *Metrics is
// valid and drops every emission, so callers don't need to guard.
type Metrics struct {
	client  CloudWatchAPI
	nowFunc func() time.Time
}

// NewMetrics returns a Metrics emitter bound to a CloudWatch client.
func NewMetrics(client CloudWatchAPI) *Metrics {
	return &Metrics{
		client:  client,
		nowFunc: time.Now,
	}
}

// Count emits a count-of-one metric with optional dimensions.
func (m *Metrics) Count(ctx context.Context, name string, dimensions map[string]string) {
	if m == nil || m.client == nil {
		return
	}

	datum := cwtypes.MetricDatum{
		MetricName: awsString(name),
		Unit:       cwtypes.StandardUnitCount,
		Value:      awsFloat64(1),
		Timestamp:  awsTime(m.nowFunc()),
	}
	for k, v := range dimensions {
		datum.Dimensions = append(datum.Dimensions, cwtypes.Dimension{
			Name:  awsString(k),
			Value: awsString(v),
		})
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  awsString(metricNamespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		log.Printf("[metrics] put metric %s: %v", name, err)
	}
}

func awsFloat64(f float64) *float64  { return &f }
func awsTime(t time.Time) *time.Time { return &t }
