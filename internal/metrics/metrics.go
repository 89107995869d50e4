package metrics

import (
	"net/http"

	"github.com/alexanderramin/attend/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Presence metrics
	SessionsOpened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attend_sessions_opened_total",
			Help: "Sessions opened, by source",
		},
		[]string{"source"},
	)

	SessionsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attend_sessions_closed_total",
			Help: "Sessions closed, by reason",
		},
		[]string{"reason"},
	)

	// Report metrics
	ReportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "attend_report_duration_seconds",
			Help:    "Time spent aggregating a report",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)

	AggregationStoreErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "attend_aggregation_store_errors_total",
			Help: "Session queries that failed during aggregation and were treated as empty",
		},
	)

	BillableSeconds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "attend_billable_seconds_total",
			Help: "Billable seconds produced by aggregation runs",
		},
	)

	// Use case metrics
	UseCaseTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attend_use_case_total",
			Help: "Use case invocations, by name and outcome",
		},
		[]string{"use_case", "success"},
	)
)

// Close reasons for SessionsClosed.
const (
	ReasonCheckout = "checkout"
	ReasonLeave    = "leave"
	ReasonSwitch   = "switch"
)

func init() {
	prometheus.MustRegister(
		SessionsOpened,
		SessionsClosed,
		ReportDuration,
		AggregationStoreErrors,
		BillableSeconds,
		UseCaseTotal,
	)
}

// Server is the metrics HTTP server
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

// NewServer creates a metrics server listening on addr.
func NewServer(addr string, logger zerolog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:    addr,
			Handler: Handler(),
		},
		logger: logging.Component(logger, "metrics"),
	}
}

// Handler serves /metrics and /health.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

// Start serves in the background until Stop.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting metrics server")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	return nil
}

// Stop closes the listener.
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping metrics server")
	return s.server.Close()
}
