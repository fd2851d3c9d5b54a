// Package report parses the slash-delimited report micro-format used in chat
// messages and builds the rows that get appended to the spreadsheet.
package report

import "strings"

const (
	// Marker is the leading character that distinguishes a report from ordinary chat.
	Marker = "/"
	// Delimiter separates fields within a single report line.
	Delimiter = "/"
)

// IsReport reports whether text is eligible for parsing. The check is made on
// the raw text, so leading whitespace disqualifies a message.
func IsReport(text string) bool {
	return strings.HasPrefix(text, Marker)
}

// Parse splits a report message into one field sequence per non-blank line.
// It returns ok == false when text does not start with the marker.
//
// Leading marker characters are stripped, lines are split on newline and
// blank lines dropped, then every line is split on the delimiter with each
// segment trimmed and empty segments discarded. A non-blank line made only of
// delimiters yields an empty, non-nil field sequence.
func Parse(text string) (lines [][]string, ok bool) {
	if !IsReport(text) {
		return nil, false
	}

	body := strings.TrimLeft(text, Marker)
	lines = [][]string{}
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, splitFields(line))
	}
	return lines, true
}

func splitFields(line string) []string {
	fields := []string{}
	for _, segment := range strings.Split(line, Delimiter) {
		if s := strings.TrimSpace(segment); s != "" {
			fields = append(fields, s)
		}
	}
	return fields
}
