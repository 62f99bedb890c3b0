// file: internal/metrics/metrics.go
// version: 1.1.0
// guid: 4d5e6f7a-8b9c-0d1e-2f3a-6b7c8d9e0f1a

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	matchAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giftwell",
		Name:      "match_attempts_total",
		Help:      "Total recipient match attempts by method and confidence",
	}, []string{"method", "confidence"})
	matchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "giftwell",
		Name:      "match_duration_seconds",
		Help:      "Histogram of recipient match durations in seconds by method",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // sub-ms up to a few seconds
	}, []string{"method"})
	suggestQueries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "giftwell",
		Name:      "suggest_queries_total",
		Help:      "Total autocomplete suggestion queries",
	})
	smsMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giftwell",
		Name:      "sms_messages_total",
		Help:      "Total inbound SMS messages by handling outcome",
	}, []string{"outcome"})
	giftsLogged = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "giftwell",
		Name:      "gifts_logged_total",
		Help:      "Total gifts logged by source",
	}, []string{"source"})

	recipientsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "giftwell",
		Name:      "recipients_total",
		Help:      "Current total number of recipient records",
	})
	giftsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "giftwell",
		Name:      "gifts_total",
		Help:      "Current total number of gift records",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(matchAttempts, matchDuration, suggestQueries,
			smsMessages, giftsLogged, recipientsGauge, giftsGauge)
	})
}

// Match pipeline
func IncMatchAttempt(method, confidence string) {
	matchAttempts.WithLabelValues(method, confidence).Inc()
}
func ObserveMatchDuration(method string, d time.Duration) {
	matchDuration.WithLabelValues(method).Observe(d.Seconds())
}
func IncSuggestQuery() { suggestQueries.Inc() }

// SMS pipeline
func IncSMSMessage(outcome string) { smsMessages.WithLabelValues(outcome).Inc() }
func IncGiftLogged(source string)  { giftsLogged.WithLabelValues(source).Inc() }

// Gauges
func SetRecipients(n int) { recipientsGauge.Set(float64(n)) }
func SetGifts(n int)      { giftsGauge.Set(float64(n)) }
