package decode

import "strings"

const (
	// Comma is the default cell delimiter.
	Comma = ','
	// Tab is used by vendor files whose header line has a tab.
	Tab = '\t'
)

// Split cuts a line into cells on delim. There is no quoting, so a delimiter
// inside a value always splits. A trailing carriage return is dropped.
func Split(line string, delim rune) []string {
	line = strings.TrimRight(line, "\r\n")
	if delim == 0 {
		delim = Comma
	}
	return strings.Split(line, string(delim))
}

// DetectDelimiter returns Tab if header has a tab and Comma otherwise.
func DetectDelimiter(header string) rune {
	if strings.ContainsRune(header, Tab) {
		return Tab
	}
	return Comma
}
