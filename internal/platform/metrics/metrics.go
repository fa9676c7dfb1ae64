package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the wallet.
type Metrics struct {
	SignUpsInitiated  prometheus.Counter
	SignInsInitiated  prometheus.Counter
	SessionsConfirmed *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge
	OTPIssued         prometheus.Counter
	OTPFailures       prometheus.Counter
	SeedsRotated      prometheus.Counter

	CredentialsSaved   prometheus.Counter
	CredentialsDeleted prometheus.Counter
	CredentialLists    *prometheus.CounterVec

	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		SignUpsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_signups_initiated_total",
			Help: "Total number of sign-up flows initiated",
		}),
		SignInsInitiated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_signins_initiated_total",
			Help: "Total number of sign-in flows initiated",
		}),
		SessionsConfirmed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "walletgate_sessions_confirmed_total",
			Help: "Total number of sessions established, labeled by flow",
		}, []string{"flow"}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "walletgate_active_sessions",
			Help: "Current number of authenticated sessions",
		}),
		OTPIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_otp_issued_total",
			Help: "Total number of OTP challenges issued",
		}),
		OTPFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_otp_failures_total",
			Help: "Total number of failed OTP verifications",
		}),
		SeedsRotated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_seeds_rotated_total",
			Help: "Total number of encrypted seed rotations",
		}),
		CredentialsSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_credentials_saved_total",
			Help: "Total number of credential records saved",
		}),
		CredentialsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletgate_credentials_deleted_total",
			Help: "Total number of credential records deleted",
		}),
		CredentialLists: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "walletgate_credential_lists_total",
			Help: "Total number of credential list operations, labeled by filter use",
		}, []string{"filtered"}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "walletgate_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
