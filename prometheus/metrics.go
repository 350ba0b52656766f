package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Tenant operation counter
	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_tenant_operations_total",
			Help: "Total number of tenant operations",
		},
		[]string{"operation"}, // "create", "update", "suspend", "delete", etc.
	)

	// Tenant resolution counter by source
	TenantResolutionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_tenant_resolutions_total",
			Help: "Total number of tenant resolutions by source",
		},
		[]string{"source"}, // "header", "subdomain", "query", "cookie"
	)

	// Tenant error counter by code
	TenantErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_tenant_errors_total",
			Help: "Total number of tenant validation errors",
		},
		[]string{"code"}, // "NO_WORKSPACE", "WORKSPACE_NOT_FOUND", etc.
	)

	// Quota denial counter by limit kind
	QuotaDeniedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_quota_denied_total",
			Help: "Total number of operations refused by quota checks",
		},
		[]string{"limit"}, // "users", "orders", "storage"
	)

	// Feature denial counter
	FeatureDeniedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_feature_denied_total",
			Help: "Total number of operations refused by the feature gate",
		},
		[]string{"feature"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workspace_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workspace_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	// DB operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workspace_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

func init() {
	prometheus.MustRegister(
		TenantOperationCounter,
		TenantResolutionCounter,
		TenantErrorCounter,
		QuotaDeniedCounter,
		FeatureDeniedCounter,
		HTTPRequestCounter,
		RequestDuration,
		DBOperationDuration,
	)
}

// RecordTenantOperation increments the tenant operation counter
func RecordTenantOperation(operation string) {
	TenantOperationCounter.WithLabelValues(operation).Inc()
}

// RecordTenantResolution increments the resolution counter for a source
func RecordTenantResolution(source string) {
	TenantResolutionCounter.WithLabelValues(source).Inc()
}

// RecordTenantError increments the tenant error counter for a code
func RecordTenantError(code string) {
	TenantErrorCounter.WithLabelValues(code).Inc()
}

// RecordQuotaDenied increments the quota denial counter for a limit kind
func RecordQuotaDenied(limit string) {
	QuotaDeniedCounter.WithLabelValues(limit).Inc()
}

// RecordFeatureDenied increments the feature denial counter
func RecordFeatureDenied(feature string) {
	FeatureDeniedCounter.WithLabelValues(feature).Inc()
}

// TrackDBOperation returns a function that records the elapsed time of a
// database operation when invoked:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// Middleware creates an Echo middleware function that records HTTP request
// metrics
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()

			HTTPRequestCounter.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
			RequestDuration.WithLabelValues(path, method).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus
// metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
