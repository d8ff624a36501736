package extractor

// Result is the outcome of an operation.
type Result struct {
	// Text is the rendered output, including the error message on failure.
	Text string

	// Err is the error behind a failed operation.
	Err error

	// Count is the number of messages or files the operation handled.
	Count int
}

// IsError reports whether the operation failed.
func (r Result) IsError() bool {
	return r.Err != nil
}

func failure(prefix string, err error) Result {
	return Result{Text: prefix + ": " + err.Error(), Err: err}
}

// Error prefixes.
const (
	errListing   = "Error listing messages"
	errRetrieve  = "Error retrieving message"
	errExporting = "Error exporting to CSV"
	errSaving    = "Error saving messages"
	errParsing   = "Error parsing saved messages"
)
