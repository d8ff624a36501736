// Package cmd implements the command-line interface for gmail-extractor.
//
// This package provides the following commands:
//   - serve: Start the MCP server (stdio or streamable HTTP)
//   - list, search, get: Show messages in the terminal
//   - export: Write matching messages to a CSV file
//   - unread-today: Export today's unread messages to the results directory
//   - save: Save messages by label or query as flat text files
//   - csv-from-files: Rebuild a CSV from saved flat text files
//   - auth: Authorize Gmail access and store the token; auth status reports it
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for the MCP tools
//
// serve is the default command when no subcommand is specified.
package cmd
