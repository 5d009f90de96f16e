package observability

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the HTTP surface and the query
// engine it fronts.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ActiveRequests  prometheus.Gauge
	ErrorsTotal     *prometheus.CounterVec
	ResponseSize    *prometheus.HistogramVec

	ParseTotal                *prometheus.CounterVec
	ParseErrorsTotal          prometheus.Counter
	ParseDuration             prometheus.Histogram
	RenderTotal               prometheus.Counter
	ValidateErrorsTotal       *prometheus.CounterVec
	IncludeExpansionsTotal    prometheus.Counter
	IncludeCyclesDetectedTotal prometheus.Counter
	VisitorChainDuration      *prometheus.HistogramVec
	QueryComplexity           prometheus.Histogram
	QuerySyntaxUsage          *prometheus.CounterVec

	ActiveSchemas    prometheus.Gauge
	SchemaOperations *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	RateLimitHits    prometheus.Counter

	GoroutineCount prometheus.Gauge
	MemoryUsage    prometheus.Gauge
	Uptime         prometheus.Gauge

	startTime int64
}

// NewMetrics creates and registers Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "luceneql_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "luceneql_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		ActiveRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "luceneql_active_requests",
				Help: "Number of active HTTP requests",
			},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "luceneql_errors_total",
				Help: "Total number of errors",
			},
			[]string{"type"},
		),
		ResponseSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "luceneql_response_size_bytes",
				Help:    "Histogram of response body sizes in bytes",
				Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000},
			},
			[]string{"endpoint"},
		),
		ParseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "luceneql_parse_total",
				Help: "Total number of Parse calls by outcome",
			},
			[]string{"status"},
		),
		ParseErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "luceneql_parse_errors_total",
				Help: "Total number of Parse calls that returned at least one ParseError",
			},
		),
		ParseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "luceneql_parse_duration_seconds",
				Help:    "Query parsing duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		RenderTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "luceneql_render_total",
				Help: "Total number of Render calls",
			},
		),
		ValidateErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "luceneql_validate_errors_total",
				Help: "Total number of validation errors by type",
			},
			[]string{"error_type"},
		),
		IncludeExpansionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "luceneql_include_expansions_total",
				Help: "Total number of include references successfully expanded",
			},
		),
		IncludeCyclesDetectedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "luceneql_include_cycles_detected_total",
				Help: "Total number of include cycles rejected by the include visitor",
			},
		),
		VisitorChainDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "luceneql_visitor_chain_duration_seconds",
				Help:    "Duration of a ChainedVisitor.Run call in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"chain"},
		),
		QueryComplexity: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "luceneql_query_complexity",
				Help:    "Histogram of query complexity measured by AST node count",
				Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500},
			},
		),
		QuerySyntaxUsage: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "luceneql_query_syntax_usage_total",
				Help: "Total usage count of query syntax features",
			},
			[]string{"feature"},
		),
		ActiveSchemas: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "luceneql_active_schemas",
				Help: "Number of registered field-alias schemas",
			},
		),
		SchemaOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "luceneql_schema_operations_total",
				Help: "Total number of schema registry operations by type",
			},
			[]string{"operation"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "luceneql_parse_cache_hits_total",
				Help: "Total number of parse cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "luceneql_parse_cache_misses_total",
				Help: "Total number of parse cache misses",
			},
		),
		RateLimitHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "luceneql_rate_limit_hits_total",
				Help: "Total number of rate limit rejections",
			},
		),
		GoroutineCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "luceneql_goroutines",
				Help: "Current number of goroutines",
			},
		),
		MemoryUsage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "luceneql_memory_usage_bytes",
				Help: "Current heap memory usage in bytes",
			},
		),
		Uptime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "luceneql_uptime_seconds",
				Help: "Server uptime in seconds since start",
			},
		),
		startTime: time.Now().Unix(),
	}

	prometheus.MustRegister(
		m.RequestsTotal, m.RequestDuration, m.ActiveRequests, m.ErrorsTotal, m.ResponseSize,
		m.ParseTotal, m.ParseErrorsTotal, m.ParseDuration, m.RenderTotal,
		m.ValidateErrorsTotal, m.IncludeExpansionsTotal, m.IncludeCyclesDetectedTotal,
		m.VisitorChainDuration, m.QueryComplexity, m.QuerySyntaxUsage,
		m.ActiveSchemas, m.SchemaOperations, m.CacheHits, m.CacheMisses, m.RateLimitHits,
		m.GoroutineCount, m.MemoryUsage, m.Uptime,
	)

	return m
}

// Handler returns the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records an HTTP request.
func (m *Metrics) RecordRequest(endpoint string, status int, duration float64) {
	m.RequestsTotal.WithLabelValues(endpoint, http.StatusText(status)).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(duration)
}

func (m *Metrics) IncActiveRequests() { m.ActiveRequests.Inc() }
func (m *Metrics) DecActiveRequests() { m.ActiveRequests.Dec() }

// RecordError records an error by category.
func (m *Metrics) RecordError(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordParse records the outcome and duration of a single Parse call.
func (m *Metrics) RecordParse(duration float64, errCount int) {
	status := "ok"
	if errCount > 0 {
		status = "error"
		m.ParseErrorsTotal.Add(float64(errCount))
	}
	m.ParseTotal.WithLabelValues(status).Inc()
	m.ParseDuration.Observe(duration)
}

// RecordRender records a Render call.
func (m *Metrics) RecordRender() { m.RenderTotal.Inc() }

// RecordValidationError records a validation error by type.
func (m *Metrics) RecordValidationError(errorType string) {
	m.ValidateErrorsTotal.WithLabelValues(errorType).Inc()
}

// RecordIncludeExpansion records one successfully expanded include reference.
func (m *Metrics) RecordIncludeExpansion() { m.IncludeExpansionsTotal.Inc() }

// RecordIncludeCycle records one rejected include cycle.
func (m *Metrics) RecordIncludeCycle() { m.IncludeCyclesDetectedTotal.Inc() }

// RecordVisitorChainDuration records how long a named ChainedVisitor took to run.
func (m *Metrics) RecordVisitorChainDuration(chain string, duration float64) {
	m.VisitorChainDuration.WithLabelValues(chain).Observe(duration)
}

// RecordQueryComplexity records query complexity by AST node count.
func (m *Metrics) RecordQueryComplexity(nodeCount int) {
	m.QueryComplexity.Observe(float64(nodeCount))
}

// RecordQuerySyntax records usage of a query syntax feature (range, regex, boost, ...).
func (m *Metrics) RecordQuerySyntax(feature string) {
	m.QuerySyntaxUsage.WithLabelValues(feature).Inc()
}

// SetActiveSchemas sets the number of registered schemas.
func (m *Metrics) SetActiveSchemas(count int) {
	m.ActiveSchemas.Set(float64(count))
}

// RecordSchemaOperation records a schema registry operation.
func (m *Metrics) RecordSchemaOperation(operation string) {
	m.SchemaOperations.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordCacheHit()  { m.CacheHits.Inc() }
func (m *Metrics) RecordCacheMiss() { m.CacheMisses.Inc() }

// RecordRateLimitHit records a rate limit rejection.
func (m *Metrics) RecordRateLimitHit() { m.RateLimitHits.Inc() }

// RecordResponseSize records the size of a response body.
func (m *Metrics) RecordResponseSize(endpoint string, bytes int) {
	m.ResponseSize.WithLabelValues(endpoint).Observe(float64(bytes))
}

// UpdateSystemMetrics refreshes goroutine count, heap usage, and uptime.
func (m *Metrics) UpdateSystemMetrics() {
	m.GoroutineCount.Set(float64(runtime.NumGoroutine()))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	m.MemoryUsage.Set(float64(memStats.HeapAlloc))

	uptime := time.Now().Unix() - m.startTime
	m.Uptime.Set(float64(uptime))
}
