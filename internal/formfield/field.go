// Package formfield holds the registration form field model and the
// ordered field list that the form builder edits.
package formfield

import (
	"errors"
	"strings"
	"unicode"
)

// Type is the data type of a form field. It doubles as the HTML input type.
type Type string

const (
	TypeText   Type = "text"
	TypeEmail  Type = "email"
	TypeTel    Type = "tel"
	TypeNumber Type = "number"
	TypeDate   Type = "date"
)

var (
	ErrEmptyName       = errors.New("field name is required")
	ErrInvalidType     = errors.New("field type must be one of: text, email, tel, number, date")
	ErrDuplicateField  = errors.New("a field with this name already exists")
	ErrProtectedField  = errors.New("the email field cannot be removed, moved or retyped")
	ErrIndexOutOfRange = errors.New("field index out of range")
	ErrEmailFirst      = errors.New("the first field must be the email field")
	ErrInvalidOption   = errors.New("every option must be a valid value for the field type")
)

// Valid reports whether t is one of the supported field types.
func (t Type) Valid() bool {
	switch t {
	case TypeText, TypeEmail, TypeTel, TypeNumber, TypeDate:
		return true
	}
	return false
}

// Field describes one input of a registration form.
type Field struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// EmailField is the field every new form starts with.
func EmailField() Field {
	return Field{ID: "email", Name: "Email", Type: TypeEmail, Required: true}
}

// Validate checks the field on its own, without looking at its siblings.
func (f Field) Validate() error {
	if strings.TrimSpace(f.Name) == "" || f.ID == "" {
		return ErrEmptyName
	}
	if !f.Type.Valid() {
		return ErrInvalidType
	}
	return checkOptions(f.Type, f.Options)
}

// Slug derives a field id from its display name: lower case, with every run
// of spaces or punctuation collapsed to a single underscore.
func Slug(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func cleanOptions(options []string) []string {
	if len(options) == 0 {
		return nil
	}
	out := make([]string, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
