package mask

import (
	"regexp"
	"strings"
)

// nonDigitRegex matches everything Format throws away.
var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// Layout describes a punctuated document format as a list of digit groups
// and the separators written between consecutive groups.
//
// CPF, for example, is Groups [3,3,3,2] with Separators [".", ".", "-"],
// which renders 11 digits as DDD.DDD.DDD-DD.
type Layout struct {
	Kind       Kind
	Groups     []int    // Width of each digit group, left to right
	Separators []string // Separators[i] sits between Groups[i] and Groups[i+1]
}

// MaxDigits returns the number of digits a complete document has.
func (l Layout) MaxDigits() int {
	n := 0
	for _, w := range l.Groups {
		n += w
	}
	return n
}

// Template returns the full punctuated shape with D standing for a digit.
func (l Layout) Template() string {
	var b strings.Builder
	for i, w := range l.Groups {
		if i > 0 {
			b.WriteString(l.Separators[i-1])
		}
		b.WriteString(strings.Repeat("D", w))
	}
	return b.String()
}

// Apply formats raw according to the layout.
//
// Non-digits are discarded and excess trailing digits dropped. A separator is
// written only after its left group is full and once the right group has at
// least one digit, so the last group is left open while it is being typed.
func (l Layout) Apply(raw string) string {
	d := Digits(raw)
	if limit := l.MaxDigits(); len(d) > limit {
		d = d[:limit]
	}
	if d == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(d) + len(l.Separators))

	pos := 0
	for i, w := range l.Groups {
		if pos >= len(d) {
			break
		}
		if i > 0 {
			b.WriteString(l.Separators[i-1])
		}
		end := min(pos+w, len(d))
		b.WriteString(d[pos:end])
		pos = end
	}
	return b.String()
}

// Digits strips every character that is not an ASCII digit.
func Digits(raw string) string {
	return nonDigitRegex.ReplaceAllString(raw, "")
}

// Unformat returns the bare digit string of a formatted document number.
// It is an alias of Digits kept for readability at call sites that store
// numbers without punctuation.
func Unformat(display string) string {
	return Digits(display)
}

// Format renders raw as a document number of the given kind.
//
// Unknown kinds never fail: the digit string is returned unpunctuated and
// untruncated.
func Format(raw string, kind Kind) string {
	l, ok := LayoutFor(kind)
	if !ok {
		return Digits(raw)
	}
	return l.Apply(raw)
}

// Complete reports whether raw carries at least every digit the kind needs.
func Complete(raw string, kind Kind) bool {
	l, ok := LayoutFor(kind)
	if !ok {
		return false
	}
	return len(Digits(raw)) >= l.MaxDigits()
}
