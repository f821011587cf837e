package rpc

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	LabelSuccess = "success"
	LabelKind    = "kind"
)

type Metrics struct {
	CallDuration metrics.Histogram
	CallFailures metrics.Counter
}

// NewMetrics registers the call metrics on reg.
func NewMetrics(reg prometheus.Registerer) Metrics {
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "jsonrpc",
		Subsystem: "client",
		Name:      "call_duration_seconds",
		Help:      "Call duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{LabelSuccess})

	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "jsonrpc",
		Subsystem: "client",
		Name:      "call_failures_total",
		Help:      "Number of failed calls by kind.",
	}, []string{LabelKind})

	reg.MustRegister(duration, failures)

	return Metrics{
		CallDuration: kitprometheus.NewHistogram(duration),
		CallFailures: kitprometheus.NewCounter(failures),
	}
}

func DiscardMetrics() Metrics {
	return Metrics{
		CallDuration: discard.NewHistogram(),
		CallFailures: discard.NewCounter(),
	}
}
