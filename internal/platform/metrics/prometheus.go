package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/estate-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus collectors. A nil manager is
// valid and records nothing.
type MetricsManager struct {
	Registry            *prometheus.Registry
	PropertiesCreated   prometheus.Counter
	PropertyTransitions *prometheus.CounterVec
	OffersCreated       prometheus.Counter
	OfferDecisions      *prometheus.CounterVec
	OffersRejected      prometheus.Counter
	InvoicesCreated     prometheus.Counter
	HTTPRequests        *prometheus.CounterVec
	HTTPLatency         *prometheus.HistogramVec
}

// NewMetricsManager creates and registers the collectors on a private registry.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()

	m := &MetricsManager{
		Registry: registry,
		PropertiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "properties_created_total",
			Help:      "Total number of properties created.",
		}),
		PropertyTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "property_state_transitions_total",
			Help:      "Property state changes by target state.",
		}, []string{"state"}),
		OffersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "offers_created_total",
			Help:      "Total number of offers created.",
		}),
		OfferDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "offer_decisions_total",
			Help:      "Accepted and refused offers.",
		}, []string{"status"}),
		OffersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "offers_price_guard_rejections_total",
			Help:      "Offers rejected for undercutting existing offers.",
		}),
		InvoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "invoices_created_total",
			Help:      "Sale invoices issued.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Name:      "http_request_latency_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	registry.MustRegister(
		m.PropertiesCreated,
		m.PropertyTransitions,
		m.OffersCreated,
		m.OfferDecisions,
		m.OffersRejected,
		m.InvoicesCreated,
		m.HTTPRequests,
		m.HTTPLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *MetricsManager) PropertyCreated() {
	if m != nil {
		m.PropertiesCreated.Inc()
	}
}

func (m *MetricsManager) StateChanged(state string) {
	if m != nil {
		m.PropertyTransitions.WithLabelValues(state).Inc()
	}
}

func (m *MetricsManager) OfferCreated() {
	if m != nil {
		m.OffersCreated.Inc()
	}
}

func (m *MetricsManager) OfferDecided(status string) {
	if m != nil {
		m.OfferDecisions.WithLabelValues(status).Inc()
	}
}

func (m *MetricsManager) OfferRejected() {
	if m != nil {
		m.OffersRejected.Inc()
	}
}

func (m *MetricsManager) InvoiceCreated() {
	if m != nil {
		m.InvoicesCreated.Inc()
	}
}

func (m *MetricsManager) ObserveHTTP(route, method, code string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, code).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// StartMetricsServer serves /metrics on port until ctx is canceled. An empty
// port disables the server.
func StartMetricsServer(ctx context.Context, port string, appLogger *logger.Logger, m *MetricsManager) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
