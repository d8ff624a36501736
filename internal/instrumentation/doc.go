// Package instrumentation provides OpenTelemetry instrumentation for the
// extractor's MCP server and commands.
//
// # Metrics
//
// Gmail API Metrics:
//   - gmail_api_operations_total: Counter of list and get calls by operation and status
//   - gmail_api_operation_duration_seconds: Histogram of call durations
//
// OAuth Metrics:
//   - oauth_auth_total: Counter of interactive authorizations by result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// MCP Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//   - http_requests_total, http_request_duration_seconds: streamable HTTP transport
//
// Output Metrics:
//   - records_written_total: Counter of records written by sink (csv, flat_file)
//
// A nil *Metrics records nothing, so components accept one unconditionally.
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and Gmail API calls
// (gmail.messages.<operation>).
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: gmail-extractor)
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_QUERIES: audit log behavior
//
// # Example Usage
//
//	config, err := instrumentation.ConfigFromEnv()
//	if err != nil {
//		return err
//	}
//	provider, err := instrumentation.NewProvider(ctx, config)
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordToolInvocation(ctx, "search_gmail", "success", time.Since(start))
package instrumentation
