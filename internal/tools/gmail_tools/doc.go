// Package gmail_tools exposes the mailbox operations of the extractor as MCP
// tools:
//
//   - list_gmail_messages: list recent messages, optionally filtered by a query
//   - get_gmail_message: show the headers and full body of one message
//   - search_gmail: list messages matching a required query
//   - export_gmail_to_csv: write matching messages to a CSV file
//
// Every tool returns a single text result. Failures are results flagged
// IsError whose text names the failed operation, e.g.
// "Error listing messages: <reason>".
//
// Example calls:
//
//	list_gmail_messages(max_results: 5, query: "is:unread")
//	get_gmail_message(message_id: "18c2f0a1b2c3d4e5")
//	export_gmail_to_csv(query: "from:billing@example.com", output_filename: "billing.csv")
package gmail_tools
