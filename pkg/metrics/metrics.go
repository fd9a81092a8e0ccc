package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AuthAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taskhub", Name: "auth_accepted_total", Help: "Number of requests passed by an authentication gate."},
		[]string{"gate"},
	)
	AuthRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taskhub", Name: "auth_rejected_total", Help: "Number of requests rejected by an authentication gate, by reason."},
		[]string{"gate", "reason"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taskhub", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taskhub", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(AuthAccepted)
	reg.MustRegister(AuthRejected)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
