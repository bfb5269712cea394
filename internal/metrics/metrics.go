// Package metrics exports Prometheus metrics for ChatAds calls.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chatads"

// Collector records attempts, retries and calls. It is safe for concurrent
// use and satisfies api.Recorder.
type Collector struct {
	attemptsTotal   *prometheus.CounterVec
	attemptDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
	retryDelay      prometheus.Histogram
	callsTotal      *prometheus.CounterVec
	callDuration    *prometheus.HistogramVec
}

// New creates a Collector and registers it on reg. Metrics that are already
// registered on reg, for example by another client, are shared.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		attemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attempts_total",
				Help:      "Total number of HTTP attempts by outcome",
			},
			[]string{"outcome"},
		),
		attemptDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "attempt_duration_seconds",
				Help:      "Duration of single HTTP attempts in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		retriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Total number of retries by the outcome that caused them",
			},
			[]string{"reason"},
		),
		retryDelay: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "retry_delay_seconds",
				Help:      "Wait before each retry in seconds",
				Buckets:   []float64{0, .1, .25, .5, 1, 2, 4, 8, 16, 32, 60},
			},
		),
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "calls_total",
				Help:      "Total number of analyze calls by final outcome",
			},
			[]string{"outcome"},
		),
		callDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "call_duration_seconds",
				Help:      "Duration of analyze calls including retries in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}

	var err error
	if c.attemptsTotal, err = register(reg, c.attemptsTotal); err != nil {
		return nil, err
	}
	if c.attemptDuration, err = register(reg, c.attemptDuration); err != nil {
		return nil, err
	}
	if c.retriesTotal, err = register(reg, c.retriesTotal); err != nil {
		return nil, err
	}
	if c.retryDelay, err = register(reg, c.retryDelay); err != nil {
		return nil, err
	}
	if c.callsTotal, err = register(reg, c.callsTotal); err != nil {
		return nil, err
	}
	if c.callDuration, err = register(reg, c.callDuration); err != nil {
		return nil, err
	}
	return c, nil
}

// register adds collector to reg, returning the existing collector when an
// identical one is already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

// ObserveAttempt records one HTTP attempt.
func (c *Collector) ObserveAttempt(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.attemptsTotal.WithLabelValues(outcome).Inc()
	c.attemptDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveRetry records a scheduled retry and its delay.
func (c *Collector) ObserveRetry(reason string, delay time.Duration) {
	if c == nil {
		return
	}
	c.retriesTotal.WithLabelValues(reason).Inc()
	c.retryDelay.Observe(delay.Seconds())
}

// ObserveCall records a finished call.
func (c *Collector) ObserveCall(outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.callsTotal.WithLabelValues(outcome).Inc()
	c.callDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
