package sections

import (
	"fmt"
	"regexp"
	"strings"
)

var listSeparators = regexp.MustCompile(`[\n,]+`)

// SplitList splits admin input on commas and newlines, trimming items and
// dropping empty ones.
func SplitList(raw string) []string {
	parts := listSeparators.Split(raw, -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			items = append(items, p)
		}
	}
	return items
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Coerce converts v to the shape expected by fieldType.
func Coerce(v Value, fieldType FieldType) Value {
	switch fieldType {
	case FieldArray:
		switch v.kind {
		case KindList:
			return v.clone()
		case KindBool:
			return ListValue(yesNo(v.boolean))
		default:
			return ListValue(SplitList(v.text)...)
		}
	case FieldBoolean:
		switch v.kind {
		case KindBool:
			return v
		case KindList:
			return BoolValue(len(v.items) > 0)
		default:
			s := strings.ToLower(strings.TrimSpace(v.text))
			return BoolValue(s == "true" || s == "yes")
		}
	default:
		switch v.kind {
		case KindList:
			return StringValue(strings.Join(v.items, "\n"))
		case KindBool:
			return StringValue(yesNo(v.boolean))
		default:
			return v
		}
	}
}

// Normalize fills layout and field type defaults, rejects unknown enum
// values and coerces every value to its declared field type. The input is
// not modified. A nil input yields an empty, non-nil slice.
func Normalize(in []Section) ([]Section, error) {
	out := make([]Section, len(in))
	for i, s := range in {
		layout, err := ParseLayout(string(s.LayoutType))
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		section := s.clone()
		section.LayoutType = layout
		for j, f := range section.Fields {
			fieldType, err := ParseFieldType(string(f.FieldType))
			if err != nil {
				return nil, fmt.Errorf("section %d field %d: %w", i, j, err)
			}
			section.Fields[j] = Field{
				Label:     f.Label,
				FieldType: fieldType,
				Value:     Coerce(f.Value, fieldType),
			}
		}
		out[i] = section
	}
	return out, nil
}
