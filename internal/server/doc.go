// Package server holds the state shared by the MCP tool handlers and the
// auxiliary HTTP endpoints of the extractor.
//
// ServerContext carries the extractor Service together with the metrics
// recorder and audit logger the tool wrappers report to. HealthChecker serves
// liveness and readiness checks next to the streamable HTTP transport, and
// MetricsServer exposes the Prometheus scrape endpoint on its own address so
// operational data stays off the MCP listener.
package server
