package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ViewRequests       *prometheus.CounterVec
	GroupingDuration   *prometheus.HistogramVec
	SessionsPerRequest prometheus.Histogram
	BulkScanTruncated  prometheus.Counter
	ResolutionDegraded prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ViewRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vigil_audit_view_requests_total",
			Help: "Total audit trail view requests by view mode",
		}, []string{"view_mode"}),
		GroupingDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vigil_audit_grouping_duration_seconds",
			Help:    "Duration of the in-memory grouping pass by view mode",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}, []string{"view_mode"}),
		SessionsPerRequest: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vigil_audit_activity_sessions",
			Help:    "Number of activity sessions produced per request",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		BulkScanTruncated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigil_audit_bulk_scan_truncated_total",
			Help: "Requests whose activity bulk fetch hit the scan cap",
		}),
		ResolutionDegraded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vigil_audit_actor_resolution_degraded_total",
			Help: "Requests served with degraded actor resolution",
		}),
	}
}

func (m *Metrics) IncrementViewRequests(viewMode string) {
	m.ViewRequests.WithLabelValues(viewMode).Inc()
}

func (m *Metrics) ObserveGrouping(viewMode string, start time.Time) {
	m.GroupingDuration.WithLabelValues(viewMode).Observe(time.Since(start).Seconds())
}
