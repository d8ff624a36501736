package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Columns is the CSV header row.
var Columns = []string{"Message ID", "From", "To", "Subject", "Date", "Snippet"}

// Filename prefixes for generated CSV names.
const (
	ExportPrefix      = "gmail_export"
	UnreadTodayPrefix = "unread_emails_today"
)

const timestampLayout = "20060102_150405"

// DefaultFilename returns "<prefix>_YYYYMMDD_HHMMSS.csv" for now.
func DefaultFilename(prefix string, now time.Time) string {
	return prefix + "_" + now.Format(timestampLayout) + ".csv"
}

// WriteCSV writes the header row and one row per record. The Snippet column
// takes the record's Body unchanged.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write([]string{r.ID, r.From, r.To, r.Subject, r.Date, r.Body}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVSink writes CSV files into a directory.
type CSVSink struct {
	// Dir receives relative file names. Absolute names are used as given.
	Dir string

	// Now supplies the timestamp for default file names. Defaults to time.Now.
	Now func() time.Time
}

// Path resolves the output path for name, generating a default name with
// prefix when name is empty.
func (s CSVSink) Path(name, prefix string) string {
	if name == "" {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		name = DefaultFilename(prefix, now())
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Write creates the file resolved by Path and writes records to it. It
// returns the path written. The directory is created when missing.
func (s CSVSink) Write(name, prefix string, records []Record) (string, error) {
	path := s.Path(name, prefix)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := WriteCSV(f, records); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}
