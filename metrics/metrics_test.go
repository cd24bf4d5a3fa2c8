// file: metrics/metrics_test.go
package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_CountsAndServes(t *testing.T) {
	p := NewPrometheus()
	p.SubmissionReceived("attendees")
	p.SubmissionReceived("attendees")
	p.StatusChanged("attendees", "approved")
	p.EmailDelivery("sent")
	p.CollectionMutated("team", "add")

	assert.Equal(t, 2.0, testutil.ToFloat64(p.submissions.WithLabelValues("attendees")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.statuses.WithLabelValues("attendees", "approved")))

	w := httptest.NewRecorder()
	p.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "foundersfest_email_deliveries_total")
	assert.Contains(t, w.Body.String(), `collection="team"`)
}

type fakeCloudWatch struct {
	cloudwatchiface.CloudWatchAPI
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (f *fakeCloudWatch) PutMetricData(in *cloudwatch.PutMetricDataInput) (*cloudwatch.PutMetricDataOutput, error) {
	f.inputs = append(f.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, f.err
}

func TestCloudWatch_PutsOneDatumPerEvent(t *testing.T) {
	fake := &fakeCloudWatch{}
	cw := &CloudWatch{client: fake}

	cw.StatusChanged("stall-bookings", "rejected")
	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, cloudWatchNamespace, aws.StringValue(in.Namespace))
	require.Len(t, in.MetricData, 1)
	assert.Equal(t, "StatusChanges", aws.StringValue(in.MetricData[0].MetricName))
	assert.Len(t, in.MetricData[0].Dimensions, 2)
	assert.Equal(t, 1.0, aws.Float64Value(in.MetricData[0].Value))

	fake.err = errors.New("throttled")
	assert.NotPanics(t, func() { cw.EmailDelivery("failed") })
	assert.Len(t, fake.inputs, 2)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() {
		r.SubmissionReceived("x")
		r.StatusChanged("x", "y")
		r.EmailDelivery("sent")
		r.CollectionMutated("team", "remove")
	})
}
