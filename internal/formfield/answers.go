package formfield

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	answerValidator     *validator.Validate
	answerValidatorOnce sync.Once
)

func getAnswerValidator() *validator.Validate {
	answerValidatorOnce.Do(func() {
		answerValidator = validator.New()
		err := answerValidator.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return isPhone(fl.Field().String())
		})
		if err != nil {
			panic(fmt.Sprintf("register phone validation: %v", err))
		}
	})
	return answerValidator
}

// tags maps each field type to the validator rule its answers must satisfy.
var tags = map[Type]string{
	TypeEmail:  "email",
	TypeTel:    "phone",
	TypeNumber: "numeric",
	TypeDate:   "datetime=2006-01-02",
}

// AnswerError lists the answers that do not fit the form, keyed by field id.
type AnswerError struct {
	Fields map[string]string
}

func (e *AnswerError) Error() string {
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id+": "+e.Fields[id])
	}
	return "invalid answers (" + strings.Join(parts, "; ") + ")"
}

// CheckAnswers validates a participant's answers against fields and returns
// the record to store: trimmed values keyed by field id, unknown keys
// dropped, empty optional answers omitted.
func CheckAnswers(fields []Field, answers map[string]string) (map[string]string, error) {
	v := getAnswerValidator()
	record := make(map[string]string, len(fields))
	problems := map[string]string{}

	for _, f := range fields {
		val := strings.TrimSpace(answers[f.ID])
		if val == "" {
			if f.Required {
				problems[f.ID] = fmt.Sprintf("%s is required", f.Name)
			}
			continue
		}
		if len(f.Options) > 0 && !slices.Contains(f.Options, val) {
			problems[f.ID] = fmt.Sprintf("%s must be one of: %s", f.Name, strings.Join(f.Options, ", "))
			continue
		}
		if !fitsType(v, f.Type, val) {
			problems[f.ID] = fmt.Sprintf("%s is not a valid %s", f.Name, f.Type)
			continue
		}
		record[f.ID] = val
	}

	if len(problems) > 0 {
		return nil, &AnswerError{Fields: problems}
	}
	return record, nil
}

// fitsType reports whether val is a well-formed value for typ.
func fitsType(v *validator.Validate, typ Type, val string) bool {
	tag, ok := tags[typ]
	if !ok {
		return true
	}
	return v.Var(val, tag) == nil
}

// checkOptions makes sure every choice could be submitted as an answer of typ.
func checkOptions(typ Type, options []string) error {
	v := getAnswerValidator()
	for _, o := range options {
		if !fitsType(v, typ, o) {
			return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidOption, o, typ)
		}
	}
	return nil
}

func isPhone(s string) bool {
	digits := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 5 && digits <= 15
}
