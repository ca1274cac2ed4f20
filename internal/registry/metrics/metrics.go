// Package metrics exposes Prometheus instrumentation for the registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all registry counters and histograms.
type Metrics struct {
	CertificatesIssued  prometheus.Counter
	CertificatesRevoked prometheus.Counter
	IssuersRegistered   prometheus.Counter
	RolesGranted        prometheus.Counter

	OperationRejected *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec

	JournalAppendFailures prometheus.Counter
	StreamPublishFailures prometheus.Counter

	VerifyCacheHits   prometheus.Counter
	VerifyCacheMisses prometheus.Counter
}

// New creates and registers all registry metrics on the default registerer.
func New() *Metrics {
	return newWith(prometheus.DefaultRegisterer)
}

// NewForTesting registers on a private registry so parallel tests do not
// collide on metric names.
func NewForTesting() *Metrics {
	return newWith(prometheus.NewRegistry())
}

func newWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CertificatesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_certificates_issued_total",
			Help: "Total credentials minted.",
		}),
		CertificatesRevoked: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_certificates_revoked_total",
			Help: "Total credentials revoked.",
		}),
		IssuersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_issuers_registered_total",
			Help: "Total issuing institutions registered.",
		}),
		RolesGranted: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_roles_granted_total",
			Help: "Total role grants, excluding idempotent re-grants.",
		}),
		OperationRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "certledger_operation_rejected_total",
			Help: "Rejected mutations by operation and error code.",
		}, []string{"operation", "code"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certledger_operation_duration_seconds",
			Help:    "Latency of registry mutations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		JournalAppendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_journal_append_failures_total",
			Help: "Committed events that could not be journaled.",
		}),
		StreamPublishFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_stream_publish_failures_total",
			Help: "Committed events that could not be published to the stream.",
		}),
		VerifyCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_verify_cache_hits_total",
			Help: "Fingerprint verifications served from cache.",
		}),
		VerifyCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "certledger_verify_cache_misses_total",
			Help: "Fingerprint verifications that fell through to the ledger.",
		}),
	}
}
