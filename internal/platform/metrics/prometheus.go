package metrics

import (
	"net/http"

	"github.com/encounterhub/listing-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds the service's Prometheus metrics.
type Manager struct {
	Registry *prometheus.Registry

	ListingsCreatedTotal   prometheus.Counter
	ModerationActionsTotal *prometheus.CounterVec
	ListingViewsTotal      prometheus.Counter
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestLatency     *prometheus.HistogramVec
}

// NewManager initializes and registers the service metrics on a private
// registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	listingsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listings_created_total",
		Help:      "Total number of listings created.",
	})
	moderationActionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "moderation_actions_total",
		Help:      "Total number of moderation status changes by resulting status.",
	}, []string{"status"})
	listingViewsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listing_views_total",
		Help:      "Total number of listing detail views recorded.",
	})
	httpRequestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status code.",
	}, []string{"route", "code"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		listingsCreatedTotal,
		moderationActionsTotal,
		listingViewsTotal,
		httpRequestsTotal,
		httpRequestLatency,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:               registry,
		ListingsCreatedTotal:   listingsCreatedTotal,
		ModerationActionsTotal: moderationActionsTotal,
		ListingViewsTotal:      listingViewsTotal,
		HTTPRequestsTotal:      httpRequestsTotal,
		HTTPRequestLatency:     httpRequestLatency,
	}
}

// StartServer exposes /metrics on its own port. Does nothing when the port is
// unset.
func StartServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("metrics server starting", zap.String("port", port))
	server := &http.Server{Addr: ":" + port, Handler: mux}
	return server.ListenAndServe()
}
