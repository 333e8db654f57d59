package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 服务指标
type Metrics struct {
	registry *prometheus.Registry

	gamesStarted  prometheus.Counter
	gamesFinished *prometheus.CounterVec
	guesses       *prometheus.CounterVec
	hintsUsed     prometheus.Counter
	activeGames   prometheus.Gauge
	finalScore    prometheus.Histogram

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// New registers all collectors on a private registry. Recording methods
// are no-ops on a nil *Metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		gamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hangman_games_started_total",
			Help: "Games started",
		}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hangman_games_finished_total",
			Help: "Games finished by result and cause",
		}, []string{"result", "event"}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hangman_guesses_total",
			Help: "Letter guesses by outcome",
		}, []string{"outcome"}),
		hintsUsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hangman_hints_used_total",
			Help: "Hints revealed",
		}),
		activeGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hangman_active_games",
			Help: "Games started minus games finished since process start",
		}),
		finalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hangman_final_score",
			Help:    "Efficiency score of finished games",
			Buckets: []float64{0, 5, 10, 15, 20, 25, 30},
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"method", "route"}),
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current in-flight requests",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.gamesStarted, m.gamesFinished, m.guesses, m.hintsUsed, m.activeGames, m.finalScore,
		m.httpRequests, m.httpDuration, m.httpInFlight,
	)
	return m
}

// Handler 暴露 /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GameStarted 记录开局
func (m *Metrics) GameStarted() {
	if m == nil {
		return
	}
	m.gamesStarted.Inc()
	m.activeGames.Inc()
}

// GameFinished 记录终局
func (m *Metrics) GameFinished(result, event string, score float64) {
	if m == nil {
		return
	}
	m.gamesFinished.WithLabelValues(result, event).Inc()
	m.activeGames.Dec()
	m.finalScore.Observe(score)
}

// Guess 记录一次猜测; outcome is correct, wrong or repeat.
func (m *Metrics) Guess(outcome string) {
	if m == nil {
		return
	}
	m.guesses.WithLabelValues(outcome).Inc()
}

// HintUsed 记录提示
func (m *Metrics) HintUsed() {
	if m == nil {
		return
	}
	m.hintsUsed.Inc()
}

// ObserveRequest 记录 HTTP 请求
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RequestStarted returns a func that marks the request done.
func (m *Metrics) RequestStarted() func() {
	if m == nil {
		return func() {}
	}
	m.httpInFlight.Inc()
	return m.httpInFlight.Dec
}
