package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/extractor"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/instrumentation"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/logging"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/server"
)

// ResultHandler runs one tool call against the extractor.
type ResultHandler func(ctx context.Context, request mcp.CallToolRequest) extractor.Result

// ToolResult converts an extractor result to a tool result. Failures become
// results flagged IsError carrying the same text; they are never returned
// as Go errors, so the host always sees a readable message.
func ToolResult(r extractor.Result) *mcp.CallToolResult {
	if r.IsError() {
		return mcp.NewToolResultError(r.Text)
	}
	return mcp.NewToolResultText(r.Text)
}

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ResultHandler) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithQuery(request.GetString("query", ""))

		result := handler(ctx, request)
		duration := time.Since(start)

		invocation.Complete(!result.IsError(), result.Err)
		invocation.ResultCount = result.Count

		status := instrumentation.StatusSuccess
		if result.IsError() {
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, result.Err)
			logging.WithTool(sc.Logger(), toolName).Warn("tool call failed", logging.Err(result.Err))
		} else {
			instrumentation.SetSpanSuccess(span)
			instrumentation.SetResultCount(span, result.Count)
		}

		sc.Metrics().RecordToolInvocation(ctx, toolName, status, duration)
		sc.AuditLogger().LogToolInvocation(invocation)

		return ToolResult(result), nil
	}
}
