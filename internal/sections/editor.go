package sections

// Editor mutates a working copy of a record's sections. Nothing is persisted
// until the caller saves the whole parent record with the result of Sections.
type Editor struct {
	sections []Section
}

func NewEditor(in []Section) *Editor {
	working := Clone(in)
	if working == nil {
		working = []Section{}
	}
	return &Editor{sections: working}
}

// Sections returns a deep copy of the working state.
func (e *Editor) Sections() []Section {
	return Clone(e.sections)
}

func (e *Editor) Len() int { return len(e.sections) }

// AddSection appends an empty full-width section and returns its index.
func (e *Editor) AddSection() int {
	e.sections = append(e.sections, Section{
		Title:      "",
		LayoutType: LayoutFullWidth,
		Fields:     []Field{},
		Order:      len(e.sections),
	})
	return len(e.sections) - 1
}

func (e *Editor) RemoveSection(index int) error {
	if err := e.checkSection(index); err != nil {
		return err
	}
	e.sections = append(e.sections[:index], e.sections[index+1:]...)
	return nil
}

// ToggleVisibility hides a visible section and shows a hidden one.
func (e *Editor) ToggleVisibility(index int) error {
	if err := e.checkSection(index); err != nil {
		return err
	}
	visible := !e.sections[index].Visible()
	e.sections[index].IsVisible = &visible
	return nil
}

func (e *Editor) SetTitle(index int, title string) error {
	if err := e.checkSection(index); err != nil {
		return err
	}
	e.sections[index].Title = title
	return nil
}

func (e *Editor) SetLayout(index int, layout Layout) error {
	if err := e.checkSection(index); err != nil {
		return err
	}
	parsed, err := ParseLayout(string(layout))
	if err != nil {
		return err
	}
	e.sections[index].LayoutType = parsed
	return nil
}

// AddField appends an empty text field and returns its index.
func (e *Editor) AddField(sectionIndex int) (int, error) {
	if err := e.checkSection(sectionIndex); err != nil {
		return 0, err
	}
	s := &e.sections[sectionIndex]
	s.Fields = append(s.Fields, Field{Label: "", FieldType: FieldText, Value: StringValue("")})
	return len(s.Fields) - 1, nil
}

// FieldPatch lists the attributes to overwrite; nil members are left alone.
type FieldPatch struct {
	Label     *string
	FieldType *FieldType
	Value     *Value
}

// UpdateField merge-patches one field. When only the field type changes the
// current value is coerced to the new type.
func (e *Editor) UpdateField(sectionIndex, fieldIndex int, patch FieldPatch) error {
	if err := e.checkField(sectionIndex, fieldIndex); err != nil {
		return err
	}
	f := e.sections[sectionIndex].Fields[fieldIndex]
	if patch.Label != nil {
		f.Label = *patch.Label
	}
	if patch.Value != nil {
		f.Value = patch.Value.clone()
	}
	if patch.FieldType != nil {
		fieldType, err := ParseFieldType(string(*patch.FieldType))
		if err != nil {
			return err
		}
		f.FieldType = fieldType
		if patch.Value == nil {
			f.Value = Coerce(f.Value, fieldType)
		}
	}
	e.sections[sectionIndex].Fields[fieldIndex] = f
	return nil
}

func (e *Editor) RemoveField(sectionIndex, fieldIndex int) error {
	if err := e.checkField(sectionIndex, fieldIndex); err != nil {
		return err
	}
	s := &e.sections[sectionIndex]
	s.Fields = append(s.Fields[:fieldIndex], s.Fields[fieldIndex+1:]...)
	return nil
}

func (e *Editor) checkSection(index int) error {
	if index < 0 || index >= len(e.sections) {
		return ErrIndexOutOfRange
	}
	return nil
}

func (e *Editor) checkField(sectionIndex, fieldIndex int) error {
	if err := e.checkSection(sectionIndex); err != nil {
		return err
	}
	if fieldIndex < 0 || fieldIndex >= len(e.sections[sectionIndex].Fields) {
		return ErrIndexOutOfRange
	}
	return nil
}
