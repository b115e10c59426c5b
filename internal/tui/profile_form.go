package tui

import (
	"strconv"

	"github.com/brizzai/unhinged/internal/models"
	"github.com/brizzai/unhinged/internal/profile"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindAge
	kindList
	kindPrompt
)

// wizardField binds one form input to a profile key
type wizardField struct {
	key    string
	kind   fieldKind
	prompt models.Prompt
}

// profileForm edits a set of profile fields. Text inputs are copied into the
// fields by collect; list inputs add an entry on enter.
type profileForm struct {
	form     form
	bindings []wizardField
	fields   profile.Fields
}

type profileInput struct {
	label       string
	placeholder string
	field       wizardField
}

func newProfileForm(fields profile.Fields, inputs ...profileInput) profileForm {
	pf := profileForm{fields: fields}
	var formFields []formField
	for _, in := range inputs {
		f := newField(in.label, in.placeholder)
		switch in.field.kind {
		case kindText, kindAge:
			f.input.SetValue(fields.String(in.field.key))
		case kindPrompt:
			for _, p := range fields.Prompts() {
				if p.ID == in.field.prompt.ID {
					f.input.SetValue(p.Answer)
				}
			}
		}
		formFields = append(formFields, f)
		pf.bindings = append(pf.bindings, in.field)
	}
	pf.form = newForm(formFields...)
	return pf
}

// collect copies the typed values into the fields
func (pf profileForm) collect() {
	for i, b := range pf.bindings {
		switch b.kind {
		case kindText:
			pf.fields[b.key] = pf.form.Value(i)
		case kindAge:
			pf.fields.SetAge(pf.form.Value(i))
		case kindPrompt:
			if answer := pf.form.Value(i); answer != "" {
				pf.fields.SetPrompt(b.prompt, answer)
			}
		}
	}
}

func (pf profileForm) focused() (wizardField, bool) {
	if len(pf.bindings) == 0 {
		return wizardField{}, false
	}
	return pf.bindings[pf.form.focus], true
}

func (pf profileForm) onList() bool {
	b, ok := pf.focused()
	return ok && b.kind == kindList
}

// addEntry adds the focused list input to its list. A number picks from
// options.
func (pf profileForm) addEntry(options []string) profileForm {
	b, ok := pf.focused()
	if !ok || b.kind != kindList {
		return pf
	}
	value := pf.form.Value(pf.form.focus)
	if n, err := strconv.Atoi(value); err == nil && n >= 1 && n <= len(options) {
		value = options[n-1]
	}
	pf.fields.Add(b.key, value)
	pf.form = pf.form.SetValue(pf.form.focus, "")
	return pf
}

// dropLast removes the newest entry of the focused list
func (pf profileForm) dropLast() {
	b, ok := pf.focused()
	if !ok || b.kind != kindList {
		return
	}
	if list := pf.fields.Strings(b.key); len(list) > 0 {
		pf.fields.Drop(b.key, list[len(list)-1])
	}
}
