package textutil

import (
	"strings"
	"unicode"
)

// SanitizeToken turns free text such as a sample label into a lowercase
// file-name token. Letters and digits are kept, hyphens survive, and every
// other run of characters collapses to a single underscore. Empty results
// become "unknown".
func SanitizeToken(value string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(value) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	if out := strings.Trim(b.String(), "-"); out != "" {
		return out
	}
	return "unknown"
}
