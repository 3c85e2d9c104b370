package params

import (
	"github.com/goldentaan/taan/internal/costing"
	"github.com/goldentaan/taan/internal/inputctl"
)

// Field is the reconciled state of one param after an edit.
type Field struct {
	Param
	Value float64
	Draft string
	// Adjusted is set when the submitted text was unparseable or out of range
	// and the committed value was reverted or clamped.
	Adjusted bool
}

// FieldGroup is a Group with its reconciled fields.
type FieldGroup struct {
	Key    string
	Title  string
	Fields []Field
}

// Form is the reconciled calculator input form.
type Form struct {
	Groups []FieldGroup
}

// Adjusted lists the fields whose submitted text was not used as-is.
func (f Form) Adjusted() []Field {
	var out []Field
	for _, g := range f.Groups {
		for _, field := range g.Fields {
			if field.Adjusted {
				out = append(out, field)
			}
		}
	}
	return out
}

// AdjustedKeys lists the keys of Adjusted fields.
func (f Form) AdjustedKeys() []string {
	adjusted := f.Adjusted()
	keys := make([]string, 0, len(adjusted))
	for _, field := range adjusted {
		keys = append(keys, field.Key)
	}
	return keys
}

// Apply runs every submitted draft through a bounded input control on top of base
// and returns the committed inputs. Params missing from drafts keep their base value.
// base is not modified.
func (c *Catalogue) Apply(base costing.Inputs, drafts map[string]string) (costing.Inputs, Form) {
	in := base.Clone()

	var form Form
	for _, g := range c.Groups {
		fg := FieldGroup{Key: g.Key, Title: g.Title}
		for _, p := range g.Params {
			current, ok := Get(in, p.Key)
			if !ok {
				current = p.Default
			}

			key := p.Key
			ctl := inputctl.New(p.Bounds, current, func(v float64) { Set(&in, key, v) }, inputctl.WithholdUntilBlur())

			adjusted := false
			if raw, ok := drafts[key]; ok {
				ctl.Type(raw)
				adjusted = ctl.Invalid()
			}
			ctl.Blur()

			fg.Fields = append(fg.Fields, Field{
				Param:    p,
				Value:    ctl.Value(),
				Draft:    ctl.Draft(),
				Adjusted: adjusted,
			})
		}
		form.Groups = append(form.Groups, fg)
	}

	return in, form
}

// ApplyValues is Apply for already-numeric submissions.
func (c *Catalogue) ApplyValues(base costing.Inputs, values map[string]float64) (costing.Inputs, Form) {
	drafts := make(map[string]string, len(values))
	for k, v := range values {
		drafts[k] = inputctl.Format(v)
	}
	return c.Apply(base, drafts)
}
