package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"PatternScout/pkg/logger"
)

// Metrics holds the scanner's collectors on a dedicated registry.
type Metrics struct {
	Registry *prometheus.Registry

	Runs        *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	Signals     *prometheus.CounterVec
	FetchErrors *prometheus.CounterVec
	LastRun     *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscout_runs_total",
				Help: "Total number of analysis runs",
			},
			[]string{"watch", "status"}, // status: success|error
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patternscout_run_duration_seconds",
				Help:    "Analysis run duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"watch"},
		),
		Signals: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscout_signals_total",
				Help: "Total number of new signals notified",
			},
			[]string{"watch", "direction"},
		),
		FetchErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "patternscout_fetch_errors_total",
				Help: "Total number of failed candle fetches",
			},
			[]string{"source"},
		),
		LastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "patternscout_last_run_timestamp",
				Help: "Unix timestamp of the last analysis run",
			},
			[]string{"watch"},
		),
	}
	m.Registry.MustRegister(m.Runs, m.RunDuration, m.Signals, m.FetchErrors, m.LastRun)
	return m
}

// ObserveRun records the outcome of one run.
func (m *Metrics) ObserveRun(watch string, started time.Time, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.Runs.WithLabelValues(watch, status).Inc()
	m.RunDuration.WithLabelValues(watch).Observe(d.Seconds())
	m.LastRun.WithLabelValues(watch).Set(float64(started.Unix()))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Metrics server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
