// Package sections holds the admin-editable content blocks attached to a
// solution or service record, along with the code that renders them for the
// public pages and mutates them in the admin editor.
package sections

import (
	"errors"
	"fmt"
)

type Layout string

const (
	LayoutFullWidth Layout = "full-width"
	LayoutGrid2     Layout = "grid-2"
	LayoutChecklist Layout = "checklist"
	LayoutCards     Layout = "cards"
)

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldArray    FieldType = "array"
	FieldBoolean  FieldType = "boolean"
)

var (
	ErrUnknownLayout    = errors.New("unknown layout type")
	ErrUnknownFieldType = errors.New("unknown field type")
	ErrIndexOutOfRange  = errors.New("index out of range")
)

var layouts = map[Layout]struct{}{
	LayoutFullWidth: {},
	LayoutGrid2:     {},
	LayoutChecklist: {},
	LayoutCards:     {},
}

var fieldTypes = map[FieldType]struct{}{
	FieldText:     {},
	FieldTextarea: {},
	FieldArray:    {},
	FieldBoolean:  {},
}

func IsValidLayout(value string) bool {
	_, ok := layouts[Layout(value)]
	return ok
}

func IsValidFieldType(value string) bool {
	_, ok := fieldTypes[FieldType(value)]
	return ok
}

// ParseLayout maps an empty value to full-width, the editor default.
func ParseLayout(value string) (Layout, error) {
	if value == "" {
		return LayoutFullWidth, nil
	}
	if !IsValidLayout(value) {
		return "", fmt.Errorf("%w: %q", ErrUnknownLayout, value)
	}
	return Layout(value), nil
}

func ParseFieldType(value string) (FieldType, error) {
	if value == "" {
		return FieldText, nil
	}
	if !IsValidFieldType(value) {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, value)
	}
	return FieldType(value), nil
}

type Field struct {
	Label     string    `bson:"label" json:"label" validate:"max=500"`
	FieldType FieldType `bson:"fieldType" json:"fieldType" validate:"fieldtype"`
	Value     Value     `bson:"value" json:"value"`
}

type Section struct {
	Title      string  `bson:"title" json:"title" validate:"max=300"`
	LayoutType Layout  `bson:"layoutType" json:"layoutType" validate:"layout"`
	IsVisible  *bool   `bson:"isVisible,omitempty" json:"isVisible,omitempty"`
	Order      int     `bson:"order" json:"order"`
	Fields     []Field `bson:"fields" json:"fields" validate:"dive"`
}

// Visible reports whether the public page shows the section. Only an explicit
// false hides it.
func (s Section) Visible() bool {
	return s.IsVisible == nil || *s.IsVisible
}

func (s Section) clone() Section {
	out := s
	if s.IsVisible != nil {
		v := *s.IsVisible
		out.IsVisible = &v
	}
	out.Fields = make([]Field, len(s.Fields))
	for i, f := range s.Fields {
		out.Fields[i] = Field{Label: f.Label, FieldType: f.FieldType, Value: f.Value.clone()}
	}
	return out
}

// Clone returns a deep copy; a nil input stays nil.
func Clone(in []Section) []Section {
	if in == nil {
		return nil
	}
	out := make([]Section, len(in))
	for i, s := range in {
		out[i] = s.clone()
	}
	return out
}
