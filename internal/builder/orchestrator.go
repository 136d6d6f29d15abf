// Package builder drives the invitation-form builder for one event: it moves
// between no-form, edit and preview modes, routes edits to the field list and
// persists the result through a FormStore.
package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"eventforms/internal/formfield"
)

// Mode is the builder state for an event.
type Mode string

const (
	ModeNoForm  Mode = "no-form"
	ModeEdit    Mode = "edit"
	ModePreview Mode = "preview"
)

var (
	ErrNotEditing       = errors.New("the form is not in edit mode")
	ErrNotPreviewing    = errors.New("the form has not been saved yet")
	ErrNotOwner         = errors.New("only the event owner can edit the form")
	ErrFormExists       = errors.New("the event already has a form")
	ErrNoForm           = errors.New("the event has no form")
	ErrEmptyForm        = errors.New("the form needs at least one field")
	ErrTemplateTooSmall = errors.New("add at least one field besides email before saving a template")
	ErrTemplateNotOwned = errors.New("the template belongs to another user")
)

// Event is the subset of an event the builder needs.
type Event struct {
	ID      uint
	Title   string
	OwnerID uint
}

// FormStore persists an event's registration form.
type FormStore interface {
	// FindFormFields returns the saved fields, or found=false when the event has no form.
	FindFormFields(ctx context.Context, eventID uint) (fields []formfield.Field, found bool, err error)
	CreateForm(ctx context.Context, eventID uint, fields []formfield.Field) error
	UpdateForm(ctx context.Context, eventID uint, fields []formfield.Field) error
	DeleteForm(ctx context.Context, eventID uint) error
}

// Template is a saved field list.
type Template struct {
	ID      uint              `json:"id"`
	Name    string            `json:"name"`
	EventID uint              `json:"event_id"`
	OwnerID uint              `json:"owner_id"`
	Fields  []formfield.Field `json:"fields"`
}

// TemplateStore persists templates.
type TemplateStore interface {
	// FindTemplateByEvent returns found=false when no template was saved from eventID.
	FindTemplateByEvent(ctx context.Context, eventID uint) (tpl Template, found bool, err error)
	CreateTemplate(ctx context.Context, tpl *Template) error
	ReplaceTemplateFields(ctx context.Context, id uint, name string, fields []formfield.Field) error
	GetTemplate(ctx context.Context, id uint) (Template, error)
	ListTemplatesByOwner(ctx context.Context, ownerID uint) ([]Template, error)
}

// Orchestrator coordinates the field list and the stores for one event.
// It is safe for concurrent use.
type Orchestrator struct {
	mu        sync.Mutex
	event     Event
	mode      Mode
	saved     bool
	fields    *formfield.List
	forms     FormStore
	templates TemplateStore
}

// Snapshot is a read-only view of the orchestrator state.
type Snapshot struct {
	EventID uint              `json:"event_id"`
	Mode    Mode              `json:"mode"`
	Fields  []formfield.Field `json:"fields"`
}

// Open loads the event's persisted form. With a form the orchestrator starts
// in preview mode, otherwise in no-form mode.
func Open(ctx context.Context, event Event, forms FormStore, templates TemplateStore) (*Orchestrator, error) {
	o := &Orchestrator{
		event:     event,
		mode:      ModeNoForm,
		fields:    &formfield.List{},
		forms:     forms,
		templates: templates,
	}

	fields, found, err := forms.FindFormFields(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("load form: %w", err)
	}
	if found {
		if err := o.fields.Replace(fields); err != nil {
			return nil, fmt.Errorf("load form: %w", err)
		}
		o.mode = ModePreview
		o.saved = true
	}
	return o, nil
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

func (o *Orchestrator) snapshot() Snapshot {
	fields := o.fields.Fields()
	if fields == nil {
		fields = []formfield.Field{}
	}
	return Snapshot{EventID: o.event.ID, Mode: o.mode, Fields: fields}
}

// Create starts a new form holding only the email field.
func (o *Orchestrator) Create(callerID uint) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if callerID != o.event.OwnerID {
		return Snapshot{}, ErrNotOwner
	}
	if o.mode != ModeNoForm {
		return Snapshot{}, ErrFormExists
	}
	o.fields = formfield.NewList()
	o.mode = ModeEdit
	return o.snapshot(), nil
}

// Edit enters edit mode. From preview this keeps the saved fields; from
// no-form it starts like Create.
func (o *Orchestrator) Edit(callerID uint) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if callerID != o.event.OwnerID {
		return Snapshot{}, ErrNotOwner
	}
	switch o.mode {
	case ModeNoForm:
		o.fields = formfield.NewList()
	case ModeEdit:
		return o.snapshot(), nil
	}
	o.mode = ModeEdit
	return o.snapshot(), nil
}

// mutate runs fn against the field list when in edit mode.
func (o *Orchestrator) mutate(fn func(l *formfield.List) error) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode != ModeEdit {
		return Snapshot{}, ErrNotEditing
	}
	if err := fn(o.fields); err != nil {
		return Snapshot{}, err
	}
	return o.snapshot(), nil
}

func (o *Orchestrator) AddField(f formfield.Field) (Snapshot, error) {
	return o.mutate(func(l *formfield.List) error { return l.Add(f) })
}

func (o *Orchestrator) RemoveField(index int) (Snapshot, error) {
	return o.mutate(func(l *formfield.List) error { return l.Remove(index) })
}

func (o *Orchestrator) ReorderField(from, to int) (Snapshot, error) {
	return o.mutate(func(l *formfield.List) error { return l.Reorder(from, to) })
}

// UpdateField renames and retypes a field, then applies the optional
// required flag and options.
func (o *Orchestrator) UpdateField(index int, name string, typ formfield.Type, required *bool, options []string) (Snapshot, error) {
	return o.mutate(func(l *formfield.List) error {
		before := l.Fields()
		// New options are checked against the new type, not the old options.
		if options != nil {
			if err := l.SetOptions(index, nil); err != nil {
				return err
			}
		}
		if err := l.Edit(index, name, typ); err != nil {
			_ = l.Replace(before)
			return err
		}
		if required != nil {
			if err := l.SetRequired(index, *required); err != nil {
				_ = l.Replace(before)
				return err
			}
		}
		if options != nil {
			if err := l.SetOptions(index, options); err != nil {
				_ = l.Replace(before)
				return err
			}
		}
		return nil
	})
}

// Save persists the field list as the event's form and switches to preview.
func (o *Orchestrator) Save(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode != ModeEdit {
		return Snapshot{}, ErrNotEditing
	}
	if o.fields.Len() == 0 {
		return Snapshot{}, ErrEmptyForm
	}

	fields := o.fields.Fields()
	if o.saved {
		if err := o.forms.UpdateForm(ctx, o.event.ID, fields); err != nil {
			return Snapshot{}, fmt.Errorf("update form: %w", err)
		}
	} else {
		if err := o.forms.CreateForm(ctx, o.event.ID, fields); err != nil {
			return Snapshot{}, fmt.Errorf("create form: %w", err)
		}
		o.saved = true
	}
	o.mode = ModePreview
	return o.snapshot(), nil
}

// Delete removes the saved form and clears local state.
func (o *Orchestrator) Delete(ctx context.Context, callerID uint) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if callerID != o.event.OwnerID {
		return Snapshot{}, ErrNotOwner
	}
	if o.mode != ModePreview {
		return Snapshot{}, ErrNotPreviewing
	}
	if err := o.forms.DeleteForm(ctx, o.event.ID); err != nil {
		return Snapshot{}, fmt.Errorf("delete form: %w", err)
	}
	o.fields.Clear()
	o.saved = false
	o.mode = ModeNoForm
	return o.snapshot(), nil
}

// SaveTemplate stores the current field list as the event's template. An
// existing template saved from the same event is overwritten.
func (o *Orchestrator) SaveTemplate(ctx context.Context, name string) (Template, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode == ModeNoForm {
		return Template{}, ErrNoForm
	}
	return SaveTemplate(ctx, o.templates, o.event, name, o.fields.Fields())
}

// ApplyTemplate replaces the field list with the template's fields.
func (o *Orchestrator) ApplyTemplate(ctx context.Context, callerID, templateID uint) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.mode != ModeEdit {
		return Snapshot{}, ErrNotEditing
	}
	tpl, err := o.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return Snapshot{}, err
	}
	if tpl.OwnerID != callerID {
		return Snapshot{}, ErrTemplateNotOwned
	}
	if err := o.fields.Replace(tpl.Fields); err != nil {
		return Snapshot{}, err
	}
	return o.snapshot(), nil
}

// SaveTemplate looks up a template saved from event, reuses it when found
// and creates one otherwise, then overwrites its fields.
func SaveTemplate(ctx context.Context, store TemplateStore, event Event, name string, fields []formfield.Field) (Template, error) {
	if len(fields) <= 1 {
		return Template{}, ErrTemplateTooSmall
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = event.Title
	}

	tpl, found, err := store.FindTemplateByEvent(ctx, event.ID)
	if err != nil {
		return Template{}, fmt.Errorf("find template: %w", err)
	}
	if !found {
		tpl = Template{Name: name, EventID: event.ID, OwnerID: event.OwnerID}
		if err := store.CreateTemplate(ctx, &tpl); err != nil {
			return Template{}, fmt.Errorf("create template: %w", err)
		}
	}

	fields = formfield.Clone(fields)
	if err := store.ReplaceTemplateFields(ctx, tpl.ID, name, fields); err != nil {
		return Template{}, fmt.Errorf("save template fields: %w", err)
	}
	tpl.Name = name
	tpl.Fields = fields
	return tpl, nil
}
