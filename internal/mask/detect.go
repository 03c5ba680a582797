package mask

import (
	"strings"
	"unicode"
)

// Field is the identifying surface of a form input.
type Field struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
}

// Key returns the identifier a Binder tracks the field under: its ID, or its
// Name when the ID is empty.
func (f Field) Key() string {
	if f.ID != "" {
		return f.ID
	}
	return f.Name
}

// explicitIDs are field ids bound to a kind regardless of token matching.
// Keys are lower case; ids are compared case-insensitively.
var explicitIDs = map[string]Kind{
	"industriacnpj": CNPJ,
	"pjcnpj":        CNPJ,
}

// detectOrder lists kinds by precedence. A field named "cnpjCpf" is a CNPJ.
var detectOrder = []Kind{CNPJ, CPF, RG}

// minSubstring is the shortest kind name matched anywhere inside an
// identifier. Shorter names ("rg") must be a whole token, so "cargo" is not RG.
const minSubstring = 3

// Detect guesses the document kind of a field.
//
// Explicit ids win. Then id, name and placeholder are searched for the kind's
// name: as a case-insensitive substring for CPF and CNPJ ("documentocpf",
// "nrCpf"), as a whole token for RG ("documento_rg" but not "cargo"). Last, a
// placeholder shaped like the layout template ("000.000.000-00") matches.
func Detect(f Field) (Kind, bool) {
	if k, ok := explicitIDs[strings.ToLower(f.ID)]; ok {
		return k, true
	}

	sources := []string{f.ID, f.Name, f.Placeholder}
	seen := make(map[string]bool)
	for _, s := range sources {
		for _, tok := range tokens(s) {
			seen[tok] = true
		}
	}
	for _, k := range detectOrder {
		name := strings.ToLower(string(k))
		if seen[name] {
			return k, true
		}
		if len(name) < minSubstring {
			continue
		}
		for _, s := range sources {
			if strings.Contains(strings.ToLower(s), name) {
				return k, true
			}
		}
	}

	if shape := placeholderShape(f.Placeholder); shape != "" {
		for _, k := range detectOrder {
			if l, ok := LayoutFor(k); ok && l.Template() == shape {
				return k, true
			}
		}
	}
	return "", false
}

// tokens splits an identifier into lower-case words at punctuation, spaces,
// letter/digit transitions and camelCase boundaries ("industriaCNPJ" ->
// "industria", "cnpj"; "CNPJField" -> "cnpj", "field").
func tokens(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && len(cur) > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsUpper(r) && unicode.IsLower(prev):
				flush()
			case unicode.IsUpper(r) && unicode.IsUpper(prev) &&
				i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			case unicode.IsDigit(r) != unicode.IsDigit(prev):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// placeholderShape rewrites a placeholder such as "000.000.000-00" into the
// template notation "DDD.DDD.DDD-DD". Placeholders without digits, or with
// letters, have no shape.
func placeholderShape(p string) string {
	p = strings.TrimSpace(p)
	hasDigit := false
	var b strings.Builder
	for _, r := range p {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
			b.WriteByte('D')
		case unicode.IsLetter(r) || unicode.IsSpace(r):
			return ""
		default:
			b.WriteRune(r)
		}
	}
	if !hasDigit {
		return ""
	}
	return b.String()
}
