package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FormatFlatFile renders record index of total (1-based) in the flat text
// layout read back by ParseFlatFile.
func FormatFlatFile(r Record, index, total int) string {
	return strings.Join([]string{
		equalsRule,
		fmt.Sprintf("EMAIL %d OF %d", index, total),
		equalsRule,
		"Message ID: " + r.ID,
		"From: " + r.From,
		"To: " + r.To,
		"Subject: " + r.Subject,
		"Date: " + r.Date,
		equalsRule,
		"\nEMAIL BODY:\n",
		r.Body,
		"\n" + equalsRule,
	}, "\n")
}

// WriteFlatFile writes the flat text rendering of r to w.
func WriteFlatFile(w io.Writer, r Record, index, total int) error {
	_, err := io.WriteString(w, FormatFlatFile(r, index, total))
	return err
}

// TaggedFileName names a file saved by label: "<prefix>_email_<i>_<id>.txt".
func TaggedFileName(prefix string, index int, id string) string {
	return fmt.Sprintf("%s_email_%d_%s.txt", prefix, index, id)
}

// QueryFileName names a file saved by query: "<prefix>_<i>_<id>.txt".
func QueryFileName(prefix string, index int, id string) string {
	return fmt.Sprintf("%s_%d_%s.txt", prefix, index, id)
}

// SaveFlatFile writes the flat rendering of r to dir/name, creating dir when
// missing, and returns the path written.
func SaveFlatFile(dir, name string, r Record, index, total int) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(FormatFlatFile(r, index, total)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
