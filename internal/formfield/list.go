package formfield

import "strings"

// protectedIndex is the slot holding the participant's email address.
const protectedIndex = 0

// List is an ordered set of fields defining a registration form. The first
// slot is protected: it cannot be removed, moved or retyped.
//
// A List is not safe for concurrent use.
type List struct {
	fields []Field
}

// NewList returns a list holding only the protected email field.
func NewList() *List {
	return &List{fields: []Field{EmailField()}}
}

// FromFields wraps an existing field slice, as loaded from a store or a
// template. The slice is copied and ids are derived again from the names.
func FromFields(fields []Field) (*List, error) {
	l := &List{}
	if err := l.Replace(fields); err != nil {
		return nil, err
	}
	return l, nil
}

// CheckForm validates a complete field list submitted for an event: every
// field valid, ids unique, and the protected email field first.
func CheckForm(fields []Field) (*List, error) {
	l, err := FromFields(fields)
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 || l.fields[protectedIndex].Type != TypeEmail {
		return nil, ErrEmailFirst
	}
	return l, nil
}

// Len returns the number of fields.
func (l *List) Len() int { return len(l.fields) }

// Fields returns a copy of the fields in order.
func (l *List) Fields() []Field {
	return Clone(l.fields)
}

// Add appends a field. Nothing changes when the field is invalid or its id
// is already taken.
func (l *List) Add(f Field) error {
	f.Name = strings.TrimSpace(f.Name)
	f.ID = Slug(f.Name)
	f.Options = cleanOptions(f.Options)
	if err := f.Validate(); err != nil {
		return err
	}
	if l.indexOf(f.ID) >= 0 {
		return ErrDuplicateField
	}
	l.fields = append(l.fields, f)
	return nil
}

// Remove deletes the field at index.
func (l *List) Remove(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if index == protectedIndex {
		return ErrProtectedField
	}
	l.fields = append(l.fields[:index], l.fields[index+1:]...)
	return nil
}

// Reorder takes the field at from out of the list and reinserts it at to.
func (l *List) Reorder(from, to int) error {
	if err := l.checkIndex(from); err != nil {
		return err
	}
	if err := l.checkIndex(to); err != nil {
		return err
	}
	if from == protectedIndex || to == protectedIndex {
		return ErrProtectedField
	}
	if from == to {
		return nil
	}
	moved := l.fields[from]
	rest := append(l.fields[:from:from], l.fields[from+1:]...)
	out := make([]Field, 0, len(l.fields))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	l.fields = out
	return nil
}

// Edit renames and retypes the field at index in place. The protected slot
// can be renamed but keeps its type.
func (l *List) Edit(index int, name string, typ Type) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	cur := l.fields[index]
	if index == protectedIndex && typ != cur.Type {
		return ErrProtectedField
	}
	next := cur
	next.Name = strings.TrimSpace(name)
	next.ID = Slug(next.Name)
	next.Type = typ
	if err := next.Validate(); err != nil {
		return err
	}
	if i := l.indexOf(next.ID); i >= 0 && i != index {
		return ErrDuplicateField
	}
	l.fields[index] = next
	return nil
}

// SetRequired toggles whether a participant must answer the field at index.
func (l *List) SetRequired(index int, required bool) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if index == protectedIndex && !required {
		return ErrProtectedField
	}
	l.fields[index].Required = required
	return nil
}

// SetOptions sets the enumerated choices of the field at index. An empty
// slice turns the field back into a free-form input.
func (l *List) SetOptions(index int, options []string) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if index == protectedIndex && len(options) > 0 {
		return ErrProtectedField
	}
	options = cleanOptions(options)
	if err := checkOptions(l.fields[index].Type, options); err != nil {
		return err
	}
	l.fields[index].Options = options
	return nil
}

// Replace swaps the whole list for fields. It is used when a template is
// applied and never merges with what was there before.
func (l *List) Replace(fields []Field) error {
	next := make([]Field, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		f.Name = strings.TrimSpace(f.Name)
		f.ID = Slug(f.Name)
		f.Options = cleanOptions(f.Options)
		if err := f.Validate(); err != nil {
			return err
		}
		if seen[f.ID] {
			return ErrDuplicateField
		}
		seen[f.ID] = true
		next = append(next, f)
	}
	l.fields = next
	return nil
}

// Clear drops every field.
func (l *List) Clear() { l.fields = nil }

func (l *List) indexOf(id string) int {
	for i, f := range l.fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func (l *List) checkIndex(i int) error {
	if i < 0 || i >= len(l.fields) {
		return ErrIndexOutOfRange
	}
	return nil
}

// Clone deep-copies a field slice.
func Clone(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		if f.Options != nil {
			f.Options = append([]string(nil), f.Options...)
		}
		out[i] = f
	}
	return out
}
