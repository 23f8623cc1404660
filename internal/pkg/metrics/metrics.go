package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - счётчики синхронизации и HTTP
type Metrics struct {
	SavesTotal          *prometheus.CounterVec
	LocalWriteFailures  prometheus.Counter
	SweepsTotal         *prometheus.CounterVec
	RecordsSynced       prometheus.Counter
	RecordsFailed       prometheus.Counter
	RecordsSkipped      prometheus.Counter
	SweepDuration       prometheus.Histogram
	PendingRecords      prometheus.Gauge
	ConnectivityOnline  prometheus.Gauge
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New регистрирует метрики в reg. В тестах передавайте prometheus.NewRegistry(),
// чтобы повторная регистрация не паниковала.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SavesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Operation saves by terminal path and fallback reason",
		}, []string{"path", "reason"}),
		LocalWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "local_write_failures_total",
			Help:      "Saves that could not be written to the local store",
		}),
		SweepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweeps_total",
			Help:      "Reconciliation sweeps by outcome",
		}, []string{"outcome"}),
		RecordsSynced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_synced_total",
			Help:      "Local records accepted by the remote store",
		}),
		RecordsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_failed_total",
			Help:      "Local records that failed to sync and stay pending",
		}),
		RecordsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Local records owned by another identity",
		}),
		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time taken by a reconciliation sweep",
			Buckets:   prometheus.DefBuckets,
		}),
		PendingRecords: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_records",
			Help:      "Unsynced records seen by the last sweep",
		}),
		ConnectivityOnline: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connectivity_online",
			Help:      "1 when the node considers itself online",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}
