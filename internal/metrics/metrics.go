package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LookupRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "userservice_lookup_requests_total",
		Help: "Total number of user lookup requests received.",
	})

	LookupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userservice_lookup_failures_total",
		Help: "Total number of failed user lookups, labelled by reason.",
	}, []string{"reason"})
)
