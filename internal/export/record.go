package export

import "strings"

// NotAvailable stands in for a header or field the message does not carry.
const NotAvailable = "N/A"

const ruleWidth = 80

var (
	dashRule   = strings.Repeat("-", ruleWidth)
	equalsRule = strings.Repeat("=", ruleWidth)
)

// Record is one message as written to a listing, CSV row or flat file.
//
// Body holds the snippet for CSV rows and the full body text for dumps and
// flat files.
type Record struct {
	ID      string
	From    string
	To      string
	Subject string
	Date    string
	Body    string
}
