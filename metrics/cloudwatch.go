// file: metrics/cloudwatch.go
package metrics

import (
	"time"

	"founders-fest/logger"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
)

// cloudWatchNamespace groups every metric the service publishes.
const cloudWatchNamespace = "FoundersFest"

// CloudWatch pushes each event as a single PutMetricData call from a
// background goroutine so handlers never wait on AWS.
type CloudWatch struct {
	client cloudwatchiface.CloudWatchAPI
	async  bool
}

// NewCloudWatch reuses one client for all calls.
func NewCloudWatch(sess *session.Session) *CloudWatch {
	return &CloudWatch{client: cloudwatch.New(sess), async: true}
}

func (c *CloudWatch) SubmissionReceived(kind string) {
	c.put("SubmissionsReceived", map[string]string{"Kind": kind})
}

func (c *CloudWatch) StatusChanged(kind, status string) {
	c.put("StatusChanges", map[string]string{"Kind": kind, "Status": status})
}

func (c *CloudWatch) EmailDelivery(status string) {
	c.put("EmailDeliveries", map[string]string{"Status": status})
}

func (c *CloudWatch) CollectionMutated(collection, op string) {
	c.put("CollectionMutations", map[string]string{"Collection": collection, "Op": op})
}

func (c *CloudWatch) put(metricName string, dims map[string]string) {
	if c.async {
		go c.putMetric(metricName, dims)
		return
	}
	c.putMetric(metricName, dims)
}

// putMetric publishes a count of one with the given dimensions.
func (c *CloudWatch) putMetric(metricName string, dims map[string]string) {
	dimensions := make([]*cloudwatch.Dimension, 0, len(dims))
	for name, value := range dims {
		dimensions = append(dimensions, &cloudwatch.Dimension{
			Name:  aws.String(name),
			Value: aws.String(value),
		})
	}

	_, err := c.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(cloudWatchNamespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: dimensions,
				Timestamp:  aws.Time(time.Now()),
				Value:      aws.Float64(1),
				Unit:       aws.String(cloudwatch.StandardUnitCount),
			},
		},
	})
	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
