package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for the validations counter.
const (
	directionRequest  = "request"
	directionResponse = "response"

	outcomeValid   = "valid"
	outcomeInvalid = "invalid"
)

// middlewareMetrics holds the middleware's Prometheus collectors. The failure
// counter is labeled with the documented path template, never the concrete
// request path, so cardinality stays bounded by the document.
type middlewareMetrics struct {
	validations *prometheus.CounterVec
	failures    *prometheus.CounterVec
}

func newMiddlewareMetrics(reg prometheus.Registerer) *middlewareMetrics {
	return &middlewareMetrics{
		validations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "oastest",
			Name:      "validations_total",
			Help:      "Total number of request and response validations by outcome.",
		}, []string{"direction", "outcome"}),
		failures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "oastest",
			Name:      "validation_failures_total",
			Help:      "Total number of failed validations by documented operation.",
		}, []string{"method", "path"}),
	}
}
