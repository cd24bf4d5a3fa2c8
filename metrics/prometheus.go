// file: metrics/prometheus.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "foundersfest"

// Prometheus exposes counters for scraping.
type Prometheus struct {
	gatherer    prometheus.Gatherer
	submissions *prometheus.CounterVec
	statuses    *prometheus.CounterVec
	deliveries  *prometheus.CounterVec
	mutations   *prometheus.CounterVec
}

// NewPrometheus registers the service counters on a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	p := &Prometheus{
		gatherer: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_received_total",
			Help:      "Public form submissions stored, by entity.",
		}, []string{"kind"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Review status changes, by entity and new status.",
		}, []string{"kind", "status"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_deliveries_total",
			Help:      "Ticket email attempts, by outcome.",
		}, []string{"status"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "collection_mutations_total",
			Help:      "Admin content edits, by collection and operation.",
		}, []string{"collection", "op"}),
	}
	reg.MustRegister(p.submissions, p.statuses, p.deliveries, p.mutations)
	return p
}

func (p *Prometheus) SubmissionReceived(kind string) {
	p.submissions.WithLabelValues(kind).Inc()
}

func (p *Prometheus) StatusChanged(kind, status string) {
	p.statuses.WithLabelValues(kind, status).Inc()
}

func (p *Prometheus) EmailDelivery(status string) {
	p.deliveries.WithLabelValues(status).Inc()
}

func (p *Prometheus) CollectionMutated(collection, op string) {
	p.mutations.WithLabelValues(collection, op).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
