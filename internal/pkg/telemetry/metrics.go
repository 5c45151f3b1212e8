package telemetry

// SLI metric names used for instrumentation.
const (
	// Latency
	MetricAPILatencyP50 = "api.latency.p50"
	MetricAPILatencyP95 = "api.latency.p95"
	MetricAPILatencyP99 = "api.latency.p99"

	// Throughput
	MetricRequestsPerSec = "api.requests_per_second"

	// Planner backend
	MetricPlannerLatency  = "planner.request_latency"
	MetricPlannerFailures = "planner.failures"

	// Availability
	MetricUptime = "service.uptime_percentage"

	// Business
	MetricTripsPlanned = "business.trips_planned"
	MetricRenderCycles = "business.render_cycles"
	MetricFallbacks    = "business.fallback_resolutions"
)
