package mapping

import (
	"reflect"
	"strings"
	"unicode"
)

// SnakeCase converts a Go identifier to its schema field name form.
// Runs of upper-case letters are treated as initialisms: "UserID" becomes
// "user_id", "HTMLBody" becomes "html_body".
func SnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1]) && !isSeparator(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && !isSeparator(runes[i-1]) && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		if isSeparator(r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// TypeName returns the fully qualified name of a type, used as the
// per-class key in the metadata cache. Unrelated types with identical
// short names therefore never collide.
func TypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}
