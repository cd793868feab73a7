package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService owns the Prometheus registry and the collectors the
// API and background workers report into.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	mailTotal       *prometheus.CounterVec
	shortlistSize   prometheus.Histogram
	placementsTotal prometheus.Counter
	feedbacksTotal  *prometheus.CounterVec
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	mailTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_mails_total",
		Help: "Notification emails by kind and outcome",
	}, []string{"kind", "outcome"})

	shortlistSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "drive_shortlist_size",
		Help:    "Students admitted per drive shortlist",
		Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500},
	})

	placementsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placements_total",
		Help: "Students marked placed",
	})

	feedbacksTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "feedbacks_total",
		Help: "Feedback lifecycle events",
	}, []string{"event"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, mailTotal, shortlistSize, placementsTotal, feedbacksTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		mailTotal:       mailTotal,
		shortlistSize:   shortlistSize,
		placementsTotal: placementsTotal,
		feedbacksTotal:  feedbacksTotal,
	}
}

// Handler exposes the scrape endpoint.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveMail records one notification delivery attempt.
func (m *MetricsService) ObserveMail(kind string, err error) {
	if m == nil {
		return
	}
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.mailTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveShortlist records the size of a freshly built shortlist.
func (m *MetricsService) ObserveShortlist(size int) {
	if m == nil {
		return
	}
	m.shortlistSize.Observe(float64(size))
}

// RecordPlacement counts a student marked placed.
func (m *MetricsService) RecordPlacement() {
	if m == nil {
		return
	}
	m.placementsTotal.Inc()
}

// RecordFeedbackEvent counts a feedback lifecycle event, one of
// "submitted", "verified" or "deleted".
func (m *MetricsService) RecordFeedbackEvent(event string) {
	if m == nil {
		return
	}
	m.feedbacksTotal.WithLabelValues(event).Inc()
}
