// Package export renders message records for people and files.
//
// It produces the plain-text listing and single-message dump returned by the
// MCP tools, the CSV export, and the flat text files written by the save
// command. ParseFlatFile reads those flat files back so that a CSV can be
// built from earlier saves without contacting Gmail.
//
// Nothing here talks to the Gmail API; callers build Records from fetched
// messages.
package export
