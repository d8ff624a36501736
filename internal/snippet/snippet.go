// Package snippet shortens message bodies into single-line previews.
package snippet

import "strings"

const (
	// Length is the preview length used by listings and CSV exports.
	Length = 200

	// ExtendedLength is used by the unread-today export.
	ExtendedLength = 500
)

var lineBreaks = strings.NewReplacer("\n", " ", "\r", " ")

// Truncate keeps the first limit runes of s and replaces every line feed and
// carriage return with a single space. A limit of zero or less disables
// truncation.
func Truncate(s string, limit int) string {
	if limit > 0 {
		runes := []rune(s)
		if len(runes) > limit {
			s = string(runes[:limit])
		}
	}
	return lineBreaks.Replace(s)
}
