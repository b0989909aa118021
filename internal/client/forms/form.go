// Package forms holds the input forms of the tasklist client: the fields a
// page asks for, the client-side validation rules and the prompt rendering
// that shows field errors next to the field they belong to.
//
// Validation errors never leave the page; nothing here talks to the server.
package forms

import (
	"fmt"
	"io"
)

// Field is one labeled input. Value pre-fills the prompt (edit forms).
type Field struct {
	Name      string
	Label     string
	Secret    bool
	Multiline bool
	Value     string
}

type Form struct {
	Title  string
	Fields []Field
}

// Input supplies raw values for the form's fields.
//
// Text shows label and the current value (may be empty) and returns what the
// user typed; an empty answer keeps current. Multiline does the same for
// longer text. Secret reads without echo.
type Input interface {
	Text(label, current string) (string, error)
	Multiline(label, current string) (string, error)
	Secret(label string) (string, error)
}

// Values are the collected answers keyed by field name.
type Values map[string]string

// Fill prompts for every field in order. errs, when non-nil, holds messages
// from a previous attempt; each is printed under its field label before the
// field is asked again. Answers are kept in the form so a retry pre-fills
// non-secret fields.
func (f *Form) Fill(in Input, errs Errors, w io.Writer) (Values, error) {
	if f.Title != "" {
		fmt.Fprintln(w, f.Title)
	}

	vals := make(Values, len(f.Fields))
	for i := range f.Fields {
		field := &f.Fields[i]
		if msg, ok := errs[field.Name]; ok {
			fmt.Fprintf(w, "  ! %s: %s\n", field.Label, msg)
		}

		var (
			v   string
			err error
		)
		switch {
		case field.Secret:
			v, err = in.Secret(field.Label)
		case field.Multiline:
			v, err = in.Multiline(field.Label, field.Value)
		default:
			v, err = in.Text(field.Label, field.Value)
		}
		if err == nil && v == "" && !field.Secret {
			v = field.Value
		}
		if err != nil {
			return nil, err
		}
		if !field.Secret {
			field.Value = v
		}
		vals[field.Name] = v
	}
	return vals, nil
}

// Ask fills the form until validate accepts the values or input fails.
func (f *Form) Ask(in Input, w io.Writer, validate func(Values) error) (Values, error) {
	var errs Errors
	for {
		vals, err := f.Fill(in, errs, w)
		if err != nil {
			return nil, err
		}
		verr := validate(vals)
		if verr == nil {
			return vals, nil
		}
		fe, ok := verr.(Errors)
		if !ok {
			return nil, verr
		}
		errs = fe
	}
}
