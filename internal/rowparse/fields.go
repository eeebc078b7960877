package rowparse

import "strings"

// FieldCount is the fixed arity of an import row: author, original URL,
// repost title, repost URL, translation status, comment, supplementary note.
const FieldCount = 7

// SplitFields breaks one raw line into exactly FieldCount trimmed fields.
// Source sheets are not guaranteed well-formed CSV, so quoting is handled by
// toggling quote state character by character instead of a strict grammar:
// commas inside quotation marks do not split, everything else does. Missing
// trailing fields are padded with empty strings; once FieldCount fields exist,
// remaining commas stay inside the final column.
func SplitFields(line string) []string {
	line = strings.TrimPrefix(line, "\uFEFF")

	fields := make([]string, 0, FieldCount)
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes && len(fields) < FieldCount-1:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	for len(fields) < FieldCount {
		fields = append(fields, "")
	}
	return fields
}

// CleanName normalizes an author display name: strips a leading byte-order
// mark, trims surrounding whitespace, and collapses internal whitespace runs
// to a single space.
func CleanName(name string) string {
	name = strings.TrimPrefix(name, "\uFEFF")
	return strings.Join(strings.Fields(name), " ")
}
