// Package render turns a saved field list into the participant registration
// page.
package render

import (
	"embed"
	"html/template"

	"eventforms/internal/formfield"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names understood by Templates.
const (
	PageForm    = "participant_form.html"
	PageSuccess = "participant_success.html"
	PageMessage = "message.html"
)

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Input is one rendered control.
type Input struct {
	ID       string
	Label    string
	Type     string
	Required bool
	Options  []string
	Value    string
	Error    string
}

// FormView is the data behind the participant page.
type FormView struct {
	EventID    uint
	EventTitle string
	Action     string
	Inputs     []Input
	Error      string
}

// Inputs builds one input per field, prefilled from values and annotated
// with per-field problems.
func Inputs(fields []formfield.Field, values map[string]string, problems map[string]string) []Input {
	out := make([]Input, 0, len(fields))
	for _, f := range fields {
		out = append(out, Input{
			ID:       f.ID,
			Label:    f.Name,
			Type:     string(f.Type),
			Required: f.Required,
			Options:  f.Options,
			Value:    values[f.ID],
			Error:    problems[f.ID],
		})
	}
	return out
}

// Values picks the submitted value of every field from a form post.
func Values(fields []formfield.Field, get func(key string) string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.ID] = get(f.ID)
	}
	return out
}
