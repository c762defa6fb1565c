// Package server holds the long-lived state behind the MCP tools and the CLI
// commands, plus the HTTP side servers for metrics and health.
//
// # Key Components
//
// ServerContext resolves the per-account services (busy feed, booker, reply
// drafter, mailbox) through a ServicesFunc, builds them lazily and caches
// them until shutdown. It hands out meeting.Negotiator and meeting.Scheduler
// instances wired with the configured resolver, working hours, notifier and
// metrics. GoogleServices is the production ServicesFunc, backed by Google
// Calendar and Gmail with on-disk OAuth tokens.
//
// MetricsServer exposes Prometheus metrics on a dedicated port together with
// the HealthChecker probes:
//   - /metrics: Prometheus exposition of the OpenTelemetry meter
//   - /healthz: liveness
//   - /readyz: readiness, 503 while shutting down
package server
