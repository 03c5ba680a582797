// Package mask formats Brazilian document numbers (CPF, RG, CNPJ) for display.
//
// Formatting is progressive: a partially typed number is punctuated as far as
// its digits allow, so a field re-rendered on every keystroke grows one digit
// or one separator at a time.
//
//	mask.Format("123456", mask.CPF)         // "123.456"
//	mask.Format("12345678000123", mask.CNPJ) // "12.345.678/0001-23"
//
// Every layout is a row in a group-width table (see [Layout]); the formatting
// routine itself is shared by all kinds. Format is total: any input, including
// one with no digits at all, yields a valid (possibly empty) result.
//
// # Field Binding
//
// [Detect] maps a form field to a document kind from its id, name and
// placeholder. A [Binder] keeps the set of fields already attached so that a
// field is never bound twice, and applies the right layout to submitted
// values.
package mask
