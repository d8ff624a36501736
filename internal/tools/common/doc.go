// Package common provides shared utilities for MCP tool implementations.
//
// InstrumentedToolHandler adapts handlers that return an extractor.Result to
// mcp-go tool handlers, recording a span, tool metrics and an audit entry for
// every call.
package common
