package mask

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind is returned by ParseKind for names that match no layout.
var ErrUnknownKind = errors.New("unknown document kind")

// Kind identifies a document number format.
type Kind string

const (
	CPF  Kind = "CPF"  // Cadastro de Pessoas Físicas, 11 digits
	RG   Kind = "RG"   // Registro Geral, 10 digits
	CNPJ Kind = "CNPJ" // Cadastro Nacional da Pessoa Jurídica, 14 digits
)

// String returns the kind's canonical upper-case name.
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a user-supplied name ("cpf", " CNPJ ") to a Kind.
// Only kinds with a registered layout are accepted.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := LayoutFor(k); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}
