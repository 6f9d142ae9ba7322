package value

import "strings"

// Prefixes prepended to names that cannot start an XML element name.
const (
	// ParamPrefix is used for outbound request parameter names.
	ParamPrefix = "param_"
	// ElementPrefix is used for generic element names, including names
	// read back from responses.
	ElementPrefix = "element_"
)

// unnamed is appended to the prefix when the input name is empty.
const unnamed = "unnamed"

// SanitizeName rewrites name so it matches [A-Za-z_][A-Za-z0-9_-]*.
// Invalid characters become underscores. A result that is empty or starts
// with anything other than a letter or underscore is prefixed with prefix.
func SanitizeName(name, prefix string) string {
	if name == "" {
		return prefix + unnamed
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isNameChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	out := b.String()

	if !isNameStart(rune(out[0])) {
		out = prefix + out
	}
	return out
}

// ValidName reports whether name already satisfies the element name rules.
func ValidName(name string) bool {
	if name == "" || !isNameStart(rune(name[0])) {
		return false
	}
	for _, r := range name {
		if !isNameChar(r) {
			return false
		}
	}
	return true
}

func isNameStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isNameChar(r rune) bool {
	return isNameStart(r) || r == '-' || (r >= '0' && r <= '9')
}
