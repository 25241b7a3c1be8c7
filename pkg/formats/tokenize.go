package formats

import "strings"

// Tokenize splits s on a single-byte delimiter.
//
// It behaves like repeated getline with a delimiter: empty input yields no
// items, a trailing delimiter does not produce a trailing empty item, and
// empty items between two delimiters are kept ("1//3" -> "1", "", "3").
func Tokenize(s string, delim byte) []string {
	if s == "" {
		return nil
	}
	items := strings.Split(s, string(delim))
	if items[len(items)-1] == "" {
		items = items[:len(items)-1]
	}
	return items
}

// Fields splits a line into whitespace-delimited fields. Leading and
// trailing whitespace is consumed.
func Fields(line string) []string {
	return strings.Fields(line)
}

// SplitField returns the first '/'-separated sub-field of a compound face
// field such as "12/4/7", "12//7" or "12". Texture and normal references
// are discarded.
func SplitField(field string) (string, error) {
	parts := Tokenize(field, '/')
	if len(parts) == 0 || parts[0] == "" {
		return "", ErrMalformedField
	}
	return parts[0], nil
}
