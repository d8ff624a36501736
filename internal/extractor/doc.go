// Package extractor implements the user-facing mail operations: listing,
// searching, reading and exporting messages, saving them as flat text files
// and rebuilding a CSV from earlier saves.
//
// Every operation returns a Result whose Text is ready to show to a person
// or an agent. Failures are rendered as "Error <verb>ing <noun>: <message>"
// and the underlying error is kept in Result.Err for exit codes, MCP error
// flags and metrics.
package extractor
