package urf

import "unicode"

// Name and token character classes. A name begins with a letter and
// continues with letters, marks, digits, or connector punctuation.
// Hyphen is deliberately excluded: it joins handle segments.

func isNameBeginRune(r rune) bool {
	return unicode.IsLetter(r)
}

func isNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || unicode.Is(unicode.Pc, r)
}

// isIDRune reports whether r may appear in an instance ID token.
// IDs are looser than names: they may begin with a digit and contain hyphens.
func isIDRune(r rune) bool {
	return isNameRune(r) || r == '-'
}

// IsName reports whether s is a valid bare name.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isNameBeginRune(r) {
				return false
			}
			continue
		}
		if !isNameRune(r) {
			return false
		}
	}
	return true
}

// IsID reports whether s is a valid instance ID token.
func IsID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIDRune(r) {
			return false
		}
	}
	return true
}
