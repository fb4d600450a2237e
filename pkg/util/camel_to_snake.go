package util

import (
	"strings"
	"unicode"
)

// CamelToSnakeCase maps Go field names to column names: "PassId" becomes
// "pass_id" and acronyms stay in one piece, "HTTPStatus" becomes "http_status".
func CamelToSnakeCase(str string) string {
	runes := []rune(str)

	var sb strings.Builder
	sb.Grow(len(runes) + 4)

	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				sb.WriteByte('_')
			}
		}

		sb.WriteRune(unicode.ToLower(r))
	}

	return sb.String()
}
