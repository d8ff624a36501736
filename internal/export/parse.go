package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/AlenaMus/L12-GmailAPI-Extractor-MCP/internal/snippet"
)

var (
	idPattern      = regexp.MustCompile(`(?m)^Message ID: (.+)$`)
	fromPattern    = regexp.MustCompile(`(?m)^From: (.+)$`)
	toPattern      = regexp.MustCompile(`(?m)^To: (.+)$`)
	subjectPattern = regexp.MustCompile(`(?m)^Subject: (.+)$`)
	datePattern    = regexp.MustCompile(`(?m)^Date: (.+)$`)
	bodyPattern    = regexp.MustCompile(`(?s)EMAIL BODY:\n\n(.+?)\n={80}`)
)

// ParseFlatFile extracts a Record from flat file content. Missing header
// fields are NotAvailable. Body is the snippet of the saved body, empty when
// the body section is missing.
func ParseFlatFile(content string) Record {
	body := ""
	if m := bodyPattern.FindStringSubmatch(content); m != nil {
		body = strings.TrimSpace(m[1])
	}

	return Record{
		ID:      firstGroup(idPattern, content),
		From:    firstGroup(fromPattern, content),
		To:      firstGroup(toPattern, content),
		Subject: firstGroup(subjectPattern, content),
		Date:    firstGroup(datePattern, content),
		Body:    snippet.Truncate(body, snippet.Length),
	}
}

func firstGroup(re *regexp.Regexp, content string) string {
	if m := re.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	return NotAvailable
}

// ParsedFile is the outcome of parsing one saved file.
type ParsedFile struct {
	Name   string
	Record Record
	Err    error
}

// ParseFiles parses every file in dir matching the glob pattern, in name
// order. A file that cannot be read is reported in its ParsedFile and does
// not stop the others. A malformed pattern is an error.
func ParseFiles(dir, pattern string) ([]ParsedFile, error) {
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	sort.Strings(paths)

	parsed := make([]ParsedFile, 0, len(paths))
	for _, path := range paths {
		pf := ParsedFile{Name: filepath.Base(path)}
		content, err := os.ReadFile(path)
		if err != nil {
			pf.Err = err
		} else {
			pf.Record = ParseFlatFile(string(content))
		}
		parsed = append(parsed, pf)
	}
	return parsed, nil
}
