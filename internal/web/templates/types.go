// Package templates renders the panel's HTML as templ components.
//
// Edit the .templ files and run `templ generate`; the _templ.go files are
// generated.
package templates

import "github.com/a-h/templ"

// FieldView is one document input on the documentos page.
type FieldView struct {
	ID          string
	Label       string
	Placeholder string
	Value       string
	Kind        string
	Complete    bool
}

// invalid reports whether a filled document input is still incomplete.
func (f FieldView) invalid() bool {
	return f.Value != "" && f.Kind != "" && !f.Complete
}

// LoginParams fill the login page.
type LoginParams struct {
	Email string
	Alert templ.Component // nil when there is nothing to report
}

// DocumentosParams fill the document form page.
type DocumentosParams struct {
	Nome   string
	Fields []FieldView
	Saved  bool
}
