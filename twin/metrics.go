package twin

import (
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	responsesMetric    = "fenster_twin_responses_total"
	responseTimeMetric = "fenster_twin_response_seconds"
)

var statusClasses = []string{"1xx", "2xx", "3xx", "4xx", "5xx"}

// twinMetrics are registered per server, so several twins can run in one process.
type twinMetrics struct {
	registry     *prometheus.Registry
	responses    *prometheus.CounterVec
	responseTime prometheus.Histogram
}

func newTwinMetrics() *twinMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &twinMetrics{
		registry: reg,
		responses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: responsesMetric,
			Help: "Responses served by the twin, by the first digit of the status code",
		}, []string{"class"}),
		responseTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    responseTimeMetric,
			Help:    "Time taken to answer a request",
			Buckets: prometheus.DefBuckets,
		}),
	}
	for _, class := range statusClasses {
		m.responses.WithLabelValues(class)
	}
	return m
}

// middleware counts each response by status class and observes how long it took.
func (m *twinMetrics) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		m.responseTime.Observe(time.Since(start).Seconds())
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if status >= 100 && status < 600 {
			m.responses.WithLabelValues(fmt.Sprintf("%dxx", status/100)).Inc()
		}
	})
}

func (m *twinMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ResponseTimes summarizes the response time histogram.
type ResponseTimes struct {
	Count       uint64  `json:"count"`
	MeanSeconds float64 `json:"mean_seconds"`
}

// snapshot reads the current values back from the registry.
func (m *twinMetrics) snapshot() (map[string]int64, ResponseTimes, error) {
	counts := make(map[string]int64, len(statusClasses))
	var times ResponseTimes
	families, err := m.registry.Gather()
	if err != nil {
		return nil, times, err
	}
	for _, f := range families {
		switch f.GetName() {
		case responsesMetric:
			for _, metric := range f.GetMetric() {
				for _, label := range metric.GetLabel() {
					if label.GetName() == "class" {
						counts[label.GetValue()] = int64(metric.GetCounter().GetValue())
					}
				}
			}
		case responseTimeMetric:
			for _, metric := range f.GetMetric() {
				h := metric.GetHistogram()
				times.Count = h.GetSampleCount()
				if times.Count > 0 {
					times.MeanSeconds = h.GetSampleSum() / float64(times.Count)
				}
			}
		}
	}
	return counts, times, nil
}
