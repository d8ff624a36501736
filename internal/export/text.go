package export

import "strings"

// NoMessages is the listing text for an empty result.
const NoMessages = "No messages found."

// FormatListing renders records as ID, From, Subject and Date lines, each
// record followed by a dashed rule.
func FormatListing(records []Record) string {
	if len(records) == 0 {
		return NoMessages
	}

	lines := make([]string, 0, len(records)*5)
	for _, r := range records {
		lines = append(lines,
			"ID: "+r.ID,
			"From: "+r.From,
			"Subject: "+r.Subject,
			"Date: "+r.Date,
			dashRule,
		)
	}
	return strings.Join(lines, "\n")
}

// FormatMessage renders one message: From, To, Subject and Date lines, a
// dashed rule, then the body verbatim.
func FormatMessage(r Record) string {
	return strings.Join([]string{
		"From: " + r.From,
		"To: " + r.To,
		"Subject: " + r.Subject,
		"Date: " + r.Date,
		dashRule,
		r.Body,
	}, "\n")
}
