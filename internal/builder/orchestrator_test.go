package builder_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"eventforms/internal/builder"
	"eventforms/internal/formfield"
)

var errNotFound = errors.New("not found")

type memStore struct {
	mu        sync.Mutex
	forms     map[uint][]formfield.Field
	templates map[uint]builder.Template
	nextID    uint
	creates   int
	updates   int
}

func newMemStore() *memStore {
	return &memStore{forms: map[uint][]formfield.Field{}, templates: map[uint]builder.Template{}}
}

func (m *memStore) FindFormFields(_ context.Context, eventID uint) ([]formfield.Field, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.forms[eventID]
	return formfield.Clone(f), ok, nil
}

func (m *memStore) CreateForm(_ context.Context, eventID uint, fields []formfield.Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	m.forms[eventID] = fields
	return nil
}

func (m *memStore) UpdateForm(_ context.Context, eventID uint, fields []formfield.Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	m.forms[eventID] = fields
	return nil
}

func (m *memStore) DeleteForm(_ context.Context, eventID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.forms, eventID)
	return nil
}

func (m *memStore) FindTemplateByEvent(_ context.Context, eventID uint) (builder.Template, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.templates {
		if t.EventID == eventID {
			return t, true, nil
		}
	}
	return builder.Template{}, false, nil
}

func (m *memStore) CreateTemplate(_ context.Context, tpl *builder.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	tpl.ID = m.nextID
	m.templates[tpl.ID] = *tpl
	return nil
}

func (m *memStore) ReplaceTemplateFields(_ context.Context, id uint, name string, fields []formfield.Field) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return errNotFound
	}
	t.Name = name
	t.Fields = fields
	m.templates[id] = t
	return nil
}

func (m *memStore) GetTemplate(_ context.Context, id uint) (builder.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.templates[id]
	if !ok {
		return builder.Template{}, errNotFound
	}
	return t, nil
}

func (m *memStore) ListTemplatesByOwner(_ context.Context, ownerID uint) ([]builder.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []builder.Template
	for _, t := range m.templates {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	return out, nil
}

const owner uint = 10

var event = builder.Event{ID: 1, Title: "Meetup", OwnerID: owner}

func open(t *testing.T, store *memStore) *builder.Orchestrator {
	t.Helper()
	o, err := builder.Open(context.Background(), event, store, store)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return o
}

func fieldIDs(s builder.Snapshot) []string {
	var out []string
	for _, f := range s.Fields {
		out = append(out, f.ID)
	}
	return out
}

func TestOpenWithoutForm(t *testing.T) {
	o := open(t, newMemStore())

	snap := o.Snapshot()
	if snap.Mode != builder.ModeNoForm || len(snap.Fields) != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if _, err := o.AddField(formfield.Field{Name: "Company", Type: formfield.TypeText}); !errors.Is(err, builder.ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
}

func TestCreateEditSaveFlow(t *testing.T) {
	store := newMemStore()
	o := open(t, store)
	ctx := context.Background()

	snap, err := o.Create(owner)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if snap.Mode != builder.ModeEdit || snap.Fields[0].Type != formfield.TypeEmail {
		t.Fatalf("new form must start in edit mode with email first: %+v", snap)
	}

	snap, err = o.AddField(formfield.Field{Name: "Company", Type: formfield.TypeText})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(snap.Fields) != 2 || snap.Fields[1].ID != "company" {
		t.Fatalf("unexpected fields %+v", snap.Fields)
	}

	snap, err = o.Save(ctx)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if snap.Mode != builder.ModePreview {
		t.Fatalf("expected preview after save, got %s", snap.Mode)
	}
	if store.creates != 1 || store.updates != 0 {
		t.Fatalf("first save must create: creates=%d updates=%d", store.creates, store.updates)
	}

	if _, err := o.AddField(formfield.Field{Name: "City", Type: formfield.TypeText}); !errors.Is(err, builder.ErrNotEditing) {
		t.Fatalf("preview must reject edits, got %v", err)
	}

	if _, err := o.Edit(owner + 1); !errors.Is(err, builder.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := o.Edit(owner); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, err := o.AddField(formfield.Field{Name: "City", Type: formfield.TypeText}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := o.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.creates != 1 || store.updates != 1 {
		t.Fatalf("second save must update: creates=%d updates=%d", store.creates, store.updates)
	}
	if got := len(store.forms[event.ID]); got != 3 {
		t.Fatalf("expected 3 persisted fields, got %d", got)
	}
}

func TestOpenExistingFormStartsInPreview(t *testing.T) {
	store := newMemStore()
	store.forms[event.ID] = []formfield.Field{formfield.EmailField(), {ID: "company", Name: "Company", Type: formfield.TypeText}}

	o := open(t, store)
	snap := o.Snapshot()
	if snap.Mode != builder.ModePreview || len(snap.Fields) != 2 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if _, err := o.Create(owner); !errors.Is(err, builder.ErrFormExists) {
		t.Fatalf("expected ErrFormExists, got %v", err)
	}
}

func TestDeleteClearsState(t *testing.T) {
	store := newMemStore()
	o := open(t, store)
	ctx := context.Background()

	_, _ = o.Create(owner)
	if _, err := o.Delete(ctx, owner); !errors.Is(err, builder.ErrNotPreviewing) {
		t.Fatalf("delete in edit mode: expected ErrNotPreviewing, got %v", err)
	}
	if _, err := o.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err := o.Delete(ctx, owner)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if snap.Mode != builder.ModeNoForm || len(snap.Fields) != 0 {
		t.Fatalf("unexpected snapshot after delete %+v", snap)
	}
	if _, ok := store.forms[event.ID]; ok {
		t.Fatalf("form should be gone from the store")
	}

	// the next save creates again
	_, _ = o.Create(owner)
	if _, err := o.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.creates != 2 {
		t.Fatalf("expected a second create, got %d", store.creates)
	}
}

func TestSaveEmptyFormRejected(t *testing.T) {
	store := newMemStore()
	store.forms[event.ID] = []formfield.Field{formfield.EmailField()}
	o := open(t, store)

	_, _ = o.Edit(owner)
	// clearing is only possible through templates; simulate with an empty template
	store.templates[99] = builder.Template{ID: 99, OwnerID: owner}
	if _, err := o.ApplyTemplate(context.Background(), owner, 99); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, err := o.Save(context.Background()); !errors.Is(err, builder.ErrEmptyForm) {
		t.Fatalf("expected ErrEmptyForm, got %v", err)
	}
}

func TestSaveTemplateRejectsEmailOnly(t *testing.T) {
	store := newMemStore()
	o := open(t, store)
	_, _ = o.Create(owner)

	_, err := o.SaveTemplate(context.Background(), "Basic")
	if !errors.Is(err, builder.ErrTemplateTooSmall) {
		t.Fatalf("expected ErrTemplateTooSmall, got %v", err)
	}
	if err.Error() == "" {
		t.Fatalf("expected a user visible message")
	}
	if len(store.templates) != 0 {
		t.Fatalf("no template should be stored")
	}
}

func TestSaveTemplateReusesEventTemplate(t *testing.T) {
	store := newMemStore()
	o := open(t, store)
	ctx := context.Background()
	_, _ = o.Create(owner)
	_, _ = o.AddField(formfield.Field{Name: "Company", Type: formfield.TypeText})

	first, err := o.SaveTemplate(ctx, "")
	if err != nil {
		t.Fatalf("save template: %v", err)
	}
	if first.Name != event.Title {
		t.Fatalf("expected name to default to the event title, got %q", first.Name)
	}

	_, _ = o.AddField(formfield.Field{Name: "City", Type: formfield.TypeText})
	second, err := o.SaveTemplate(ctx, "Conference")
	if err != nil {
		t.Fatalf("save template: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected template %d to be reused, got %d", first.ID, second.ID)
	}
	if len(store.templates) != 1 {
		t.Fatalf("expected one stored template, got %d", len(store.templates))
	}
	stored := store.templates[first.ID]
	if stored.Name != "Conference" || len(stored.Fields) != 3 {
		t.Fatalf("template not overwritten: %+v", stored)
	}
}

func TestApplyTemplateReplaces(t *testing.T) {
	store := newMemStore()
	store.templates[5] = builder.Template{
		ID: 5, OwnerID: owner, EventID: 2,
		Fields: []formfield.Field{formfield.EmailField(), {ID: "diet", Name: "Diet", Type: formfield.TypeText}},
	}
	store.templates[6] = builder.Template{ID: 6, OwnerID: owner + 1}

	o := open(t, store)
	ctx := context.Background()
	_, _ = o.Create(owner)
	_, _ = o.AddField(formfield.Field{Name: "Company", Type: formfield.TypeText})
	_, _ = o.AddField(formfield.Field{Name: "City", Type: formfield.TypeText})

	snap, err := o.ApplyTemplate(ctx, owner, 5)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := fieldIDs(snap); !slices.Equal(got, []string{"email", "diet"}) {
		t.Fatalf("apply must replace the list, got %v", got)
	}

	if _, err := o.ApplyTemplate(ctx, owner, 6); !errors.Is(err, builder.ErrTemplateNotOwned) {
		t.Fatalf("expected ErrTemplateNotOwned, got %v", err)
	}
}

func TestUpdateFieldRollsBackOnError(t *testing.T) {
	o := open(t, newMemStore())
	_, _ = o.Create(owner)

	req := false
	if _, err := o.UpdateField(0, "Work email", formfield.TypeEmail, &req, nil); !errors.Is(err, formfield.ErrProtectedField) {
		t.Fatalf("expected ErrProtectedField, got %v", err)
	}
	if got := o.Snapshot().Fields[0]; got.Name != "Email" || !got.Required {
		t.Fatalf("field should be unchanged, got %+v", got)
	}
}

func TestSessionsReuseOrchestrator(t *testing.T) {
	store := newMemStore()
	sessions := builder.NewSessions(store, store, 0)
	ctx := context.Background()

	a, err := sessions.Get(ctx, owner, event)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := sessions.Get(ctx, owner, event)
	if a != b {
		t.Fatalf("expected the same orchestrator")
	}
	other, _ := sessions.Get(ctx, owner+1, event)
	if other == a {
		t.Fatalf("different users must get different sessions")
	}
	if sessions.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", sessions.Len())
	}

	sessions.Close(owner, event.ID)
	c, _ := sessions.Get(ctx, owner, event)
	if c == a {
		t.Fatalf("expected a fresh orchestrator after close")
	}

	sessions.CloseEvent(event.ID)
	if sessions.Len() != 0 {
		t.Fatalf("expected no sessions, got %d", sessions.Len())
	}
}

func TestUpdateFieldRetypesWithNewOptions(t *testing.T) {
	o := open(t, newMemStore())
	if _, err := o.Create(owner); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := o.AddField(formfield.Field{Name: "Size", Type: formfield.TypeText, Options: []string{"S", "M"}}); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap, err := o.UpdateField(1, "Size", formfield.TypeNumber, nil, []string{"38", "40"})
	if err != nil {
		t.Fatalf("retype with numeric options: %v", err)
	}
	if f := snap.Fields[1]; f.Type != formfield.TypeNumber || !slices.Equal(f.Options, []string{"38", "40"}) {
		t.Fatalf("unexpected field %+v", f)
	}

	if _, err := o.UpdateField(1, "Size", formfield.TypeDate, nil, nil); !errors.Is(err, formfield.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if _, err := o.UpdateField(1, "Size", formfield.TypeNumber, nil, []string{"XL"}); !errors.Is(err, formfield.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}
	if f := o.Snapshot().Fields[1]; f.Type != formfield.TypeNumber || !slices.Equal(f.Options, []string{"38", "40"}) {
		t.Fatalf("field should be unchanged after rejected updates, got %+v", f)
	}
}

func TestSessionsSweepIdle(t *testing.T) {
	store := newMemStore()
	sessions := builder.NewSessions(store, store, 0)
	ctx := context.Background()

	if _, err := sessions.Get(ctx, owner, event); err != nil {
		t.Fatalf("get: %v", err)
	}
	if n := sessions.Sweep(time.Now().Add(-time.Hour)); n != 0 {
		t.Fatalf("recent session swept: %d", n)
	}
	if n := sessions.Sweep(time.Now().Add(time.Second)); n != 1 || sessions.Len() != 0 {
		t.Fatalf("expected idle session dropped, swept %d, left %d", n, sessions.Len())
	}
}

func TestSessionsExpireOnGet(t *testing.T) {
	store := newMemStore()
	sessions := builder.NewSessions(store, store, time.Millisecond)
	ctx := context.Background()

	first, err := sessions.Get(ctx, owner, event)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, err := sessions.Get(ctx, owner+1, event); err != nil {
		t.Fatalf("get: %v", err)
	}
	if sessions.Len() != 1 {
		t.Fatalf("expected the idle session to be dropped, got %d open", sessions.Len())
	}
	again, _ := sessions.Get(ctx, owner, event)
	if again == first {
		t.Fatalf("expected a fresh orchestrator after expiry")
	}
}
