package gmail_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/extractor"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/server"
	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/tools/common"
)

// Tool names.
const (
	ToolListMessages = "list_gmail_messages"
	ToolGetMessage   = "get_gmail_message"
	ToolSearch       = "search_gmail"
	ToolExportCSV    = "export_gmail_to_csv"
)

// Tools returns the tool definitions in registration order.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolListMessages,
			mcp.WithDescription("List recent Gmail messages with sender, subject and date"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithNumber("max_results",
				mcp.Description(fmt.Sprintf("Maximum number of messages to return (default: %d)", extractor.DefaultListLimit)),
			),
			mcp.WithString("query",
				mcp.Description("Gmail search query, e.g. 'is:unread' or 'from:user@example.com' (default: all mail)"),
			),
		),
		mcp.NewTool(ToolGetMessage,
			mcp.WithDescription("Get the headers and full body of a Gmail message"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("message_id",
				mcp.Required(),
				mcp.Description("The ID of the message to retrieve"),
			),
		),
		mcp.NewTool(ToolSearch,
			mcp.WithDescription("Search Gmail with a query and list the matching messages"),
			mcp.WithReadOnlyHintAnnotation(true),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Gmail search query, e.g. 'subject:invoice after:2024/01/01'"),
			),
			mcp.WithNumber("max_results",
				mcp.Description(fmt.Sprintf("Maximum number of messages to return (default: %d)", extractor.DefaultSearchLimit)),
			),
		),
		mcp.NewTool(ToolExportCSV,
			mcp.WithDescription("Export Gmail messages to a CSV file with ID, sender, recipient, subject, date and a body snippet"),
			mcp.WithString("query",
				mcp.Description("Gmail search query selecting the messages to export (default: all mail)"),
			),
			mcp.WithNumber("max_results",
				mcp.Description(fmt.Sprintf("Maximum number of messages to export (default: %d)", extractor.DefaultExportLimit)),
			),
			mcp.WithString("output_filename",
				mcp.Description("Name of the CSV file (default: gmail_export_YYYYMMDD_HHMMSS.csv)"),
			),
		),
	}
}

// RegisterGmailTools registers the Gmail tools with the MCP server.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	handlers := map[string]common.ResultHandler{
		ToolListMessages: func(ctx context.Context, request mcp.CallToolRequest) extractor.Result {
			return handleListMessages(ctx, request, sc.Service())
		},
		ToolGetMessage: func(ctx context.Context, request mcp.CallToolRequest) extractor.Result {
			return handleGetMessage(ctx, request, sc.Service())
		},
		ToolSearch: func(ctx context.Context, request mcp.CallToolRequest) extractor.Result {
			return handleSearch(ctx, request, sc.Service())
		},
		ToolExportCSV: func(ctx context.Context, request mcp.CallToolRequest) extractor.Result {
			return handleExportCSV(ctx, request, sc.Service())
		},
	}

	for _, tool := range Tools() {
		handler, ok := handlers[tool.Name]
		if !ok {
			return fmt.Errorf("no handler for tool %s", tool.Name)
		}
		s.AddTool(tool, common.InstrumentedToolHandler(tool.Name, sc, handler))
	}
	return nil
}

// missingArgument reports a required argument that was absent or empty.
func missingArgument(name string) extractor.Result {
	err := fmt.Errorf("%s is required", name)
	return extractor.Result{Text: "Error: " + err.Error(), Err: err}
}

func handleListMessages(ctx context.Context, request mcp.CallToolRequest, svc *extractor.Service) extractor.Result {
	limit := request.GetInt("max_results", extractor.DefaultListLimit)
	query := request.GetString("query", "")
	return svc.ListMessages(ctx, int64(limit), query)
}

func handleGetMessage(ctx context.Context, request mcp.CallToolRequest, svc *extractor.Service) extractor.Result {
	id := request.GetString("message_id", "")
	if id == "" {
		return missingArgument("message_id")
	}
	return svc.GetMessage(ctx, id)
}

func handleSearch(ctx context.Context, request mcp.CallToolRequest, svc *extractor.Service) extractor.Result {
	query := request.GetString("query", "")
	if query == "" {
		return missingArgument("query")
	}
	limit := request.GetInt("max_results", extractor.DefaultSearchLimit)
	return svc.SearchMessages(ctx, query, int64(limit))
}

func handleExportCSV(ctx context.Context, request mcp.CallToolRequest, svc *extractor.Service) extractor.Result {
	return svc.ExportToCSV(ctx, extractor.ExportOptions{
		Query:    request.GetString("query", ""),
		Limit:    int64(request.GetInt("max_results", extractor.DefaultExportLimit)),
		Filename: request.GetString("output_filename", ""),
	})
}
