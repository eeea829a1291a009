package middleware

import (
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/nwkauto/go-phpipam/observability"
)

// Observability returns a middleware that logs and records metrics for HTTP requests.
func Observability(logger observability.Logger, metrics observability.MetricsRecorder) func(http.RoundTripper) http.RoundTripper {
	if logger == nil {
		logger = observability.NoopLogger()
	}
	if metrics == nil {
		metrics = observability.NoopMetricsRecorder()
	}

	return func(next http.RoundTripper) http.RoundTripper {
		return &observabilityTransport{
			next:    next,
			logger:  logger,
			metrics: metrics,
		}
	}
}

type observabilityTransport struct {
	next    http.RoundTripper
	logger  observability.Logger
	metrics observability.MetricsRecorder
}

func (t *observabilityTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	// Compute URL string once to avoid multiple allocations
	urlStr := req.URL.String()

	// Log request
	t.logger.Debug("http request started",
		observability.Field{Key: "method", Value: req.Method},
		observability.Field{Key: "url", Value: urlStr},
		observability.Field{Key: "path", Value: req.URL.Path},
		observability.Field{Key: "request_id", Value: req.Header.Get(RequestIDHeader)},
	)

	// Make request
	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		// Log error
		t.logger.Error("http request failed",
			observability.Field{Key: "method", Value: req.Method},
			observability.Field{Key: "url", Value: urlStr},
			observability.Field{Key: "duration", Value: duration},
			observability.Field{Key: "error", Value: err.Error()},
		)

		t.metrics.RecordError("http_request", "NetworkError")

		//nolint:wrapcheck // Observability middleware logs error but passes it through unchanged
		return nil, err
	}

	// Log response
	fields := []observability.Field{
		{Key: "method", Value: req.Method},
		{Key: "url", Value: urlStr},
		{Key: "status", Value: resp.StatusCode},
		{Key: "duration", Value: duration},
	}

	if resp.StatusCode >= http.StatusBadRequest {
		t.logger.Warn("http request completed with error", fields...)
	} else {
		t.logger.Debug("http request completed", fields...)
	}

	// Record metrics with normalized path to avoid unbounded cardinality
	normalizedPath := normalizePath(req.URL.Path)
	t.metrics.RecordHTTPRequest(req.Method, normalizedPath, resp.StatusCode, duration)

	return resp, nil
}

var (
	// numericIDPattern matches all-numeric path segments. phpIPAM entity IDs
	// are plain integers (/subnets/12/, /addresses/2219/).
	numericIDPattern = regexp.MustCompile(`/\d+(/|$)`)
	// appNamePattern matches the app name in API paths: /api/{app}/ → /api/:app/.
	appNamePattern = regexp.MustCompile(`^/api/[^/]+(/|$)`)
	// searchTermPattern matches the free-text term in web-UI search paths.
	searchTermPattern = regexp.MustCompile(`^/tools/search/.+$`)

	// normalizedPathCache caches normalized paths to avoid repeated regex operations.
	// Most clients hit a limited set of controllers, so the cache is small and hot.
	normalizedPathCache sync.Map
)

// normalizePath replaces dynamic path segments (entity IDs, the app name, search
// terms) with placeholders to prevent unbounded cardinality in metrics labels.
//
// Examples:
//   - /api/myapp/subnets/12/ → /api/:app/subnets/:id/
//   - /api/myapp/tools/locations/ → /api/:app/tools/locations/
//   - /tools/search/172.30.1.1 → /tools/search/:term
func normalizePath(path string) string {
	// Fast path: check cache
	if cached, ok := normalizedPathCache.Load(path); ok {
		//nolint:forcetypeassert // Cache only stores strings, type assertion is safe
		return cached.(string)
	}

	normalized := searchTermPattern.ReplaceAllString(path, "/tools/search/:term")
	normalized = appNamePattern.ReplaceAllString(normalized, "/api/:app$1")
	normalized = numericIDPattern.ReplaceAllString(normalized, "/:id$1")

	// Store in cache for future requests
	normalizedPathCache.Store(path, normalized)

	return normalized
}
