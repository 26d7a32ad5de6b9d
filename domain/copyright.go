package domain

import "strings"

const copyrightPrefix = "Copyright: "

// FormatCopyrightLine turns a stanza's raw attribution fields into the
// rendered copyright text. The precedence is strict, highest first:
//
//  1. a full "copyright" string, prefixed with "Copyright: " unless already
//     so prefixed;
//  2. "author_year", rendered verbatim after the prefix;
//  3. "year" and/or "author", joined with a single space, either side
//     omitted when absent;
//  4. nothing — ok is false and the line must be omitted from the stanza.
//
// Lower-precedence fields present alongside higher ones are silently
// ignored. Escaped "\n" sequences are expanded to real newlines so
// multi-line attributions survive the key-value descriptor format.
func FormatCopyrightLine(s Stanza) (string, bool) {
	switch {
	case s.Copyright != "":
		line := expandNewlines(s.Copyright)
		if strings.HasPrefix(line, copyrightPrefix) {
			return line, true
		}
		return copyrightPrefix + line, true

	case s.AuthorYear != "":
		return copyrightPrefix + expandNewlines(s.AuthorYear), true

	case s.Year != "" || s.Author != "":
		return copyrightPrefix + strings.TrimSpace(strings.TrimSpace(s.Year)+" "+strings.TrimSpace(s.Author)), true

	default:
		return "", false
	}
}

func expandNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
