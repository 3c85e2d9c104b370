// Package inputctl models a bounded numeric input edited through both a slider and a text field.
//
// A Control keeps one committed value and an independent draft text buffer. The slider commits
// immediately; typing only changes the draft (and optionally propagates parseable numbers);
// Blur reconciles the draft with the bounds and commits.
package inputctl

import (
	"math"
	"strconv"
	"strings"
)

// Bounds is the closed range a value must fall in.
type Bounds struct {
	Min  float64 `yaml:"min" json:"min"`
	Max  float64 `yaml:"max" json:"max"`
	Step float64 `yaml:"step" json:"step"`
}

// Contains reports whether v lies in [Min, Max].
func (b Bounds) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= b.Min && v <= b.Max
}

// Clamp limits v to [Min, Max]. NaN clamps to Min.
func (b Bounds) Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < b.Min:
		return b.Min
	case v > b.Max:
		return b.Max
	default:
		return v
	}
}

// Parse reads a user-typed number. Surrounding spaces and thousands separators are ignored.
func Parse(raw string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Format renders v the way the text field shows it.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Option configures a Control.
type Option func(*Control)

// WithholdUntilBlur stops typed values from reaching the owner before Blur.
func WithholdUntilBlur() Option {
	return func(c *Control) { c.live = false }
}

// Control is the state of one bounded input.
type Control struct {
	bounds    Bounds
	committed float64
	draft     string
	invalid   bool
	live      bool
	onChange  func(float64)
}

// New returns a Control committed to value clamped into b. onChange may be nil.
func New(b Bounds, value float64, onChange func(float64), opts ...Option) *Control {
	c := &Control{
		bounds:   b,
		live:     true,
		onChange: onChange,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.committed = b.Clamp(value)
	c.draft = Format(c.committed)
	return c
}

// Slide commits a slider position.
func (c *Control) Slide(v float64) {
	c.commit(c.bounds.Clamp(v))
}

// Type replaces the draft text. The committed value is left alone.
func (c *Control) Type(raw string) {
	c.draft = raw

	v, ok := Parse(raw)
	c.invalid = !ok || !c.bounds.Contains(v)
	if ok && c.live && c.onChange != nil {
		c.onChange(v)
	}
}

// Blur reconciles the draft and returns the committed value.
// An unparseable draft reverts to the last committed value.
func (c *Control) Blur() float64 {
	v, ok := Parse(c.draft)
	if !ok {
		v = c.committed
	}
	c.commit(c.bounds.Clamp(v))
	return c.committed
}

func (c *Control) commit(v float64) {
	c.committed = v
	c.draft = Format(v)
	c.invalid = false
	if c.onChange != nil {
		c.onChange(v)
	}
}

// Value returns the committed value.
func (c *Control) Value() float64 { return c.committed }

// Draft returns the text field contents.
func (c *Control) Draft() string { return c.draft }

// Invalid reports whether the draft is unparseable or out of range.
func (c *Control) Invalid() bool { return c.invalid }

// Bounds returns the control's range.
func (c *Control) Bounds() Bounds { return c.bounds }
