package sections

import (
	"fmt"
	"strings"
)

// Item is one rendered field. Exactly one of Text and List carries the value;
// List is set for layouts that show list values as a bulleted list.
type Item struct {
	Label string   `json:"label"`
	Text  string   `json:"text,omitempty"`
	List  []string `json:"list,omitempty"`
}

type Rendered struct {
	Title  string `json:"title"`
	Layout Layout `json:"layout"`
	Items  []Item `json:"items"`
}

// Render maps the visible sections, in array order, to their layout's view
// model. The order attribute is not used for sorting. Rendering follows the
// actual kind of each value rather than the declared field type.
func Render(in []Section) ([]Rendered, error) {
	out := make([]Rendered, 0, len(in))
	for i, s := range in {
		if !s.Visible() {
			continue
		}
		layout := s.LayoutType
		if layout == "" {
			layout = LayoutFullWidth
		}

		var renderField func(Field) Item
		switch layout {
		case LayoutFullWidth:
			renderField = renderFullWidth
		case LayoutGrid2:
			renderField = renderGrid2
		case LayoutChecklist:
			renderField = renderChecklist
		case LayoutCards:
			renderField = renderCards
		default:
			return nil, fmt.Errorf("section %d: %w: %q", i, ErrUnknownLayout, layout)
		}

		items := make([]Item, 0, len(s.Fields))
		for _, f := range s.Fields {
			items = append(items, renderField(f))
		}
		out = append(out, Rendered{Title: s.Title, Layout: layout, Items: items})
	}
	return out, nil
}

func renderFullWidth(f Field) Item {
	switch f.Value.Kind() {
	case KindList:
		return Item{Label: f.Label, Text: strings.Join(f.Value.items, "\n")}
	case KindBool:
		return Item{Label: f.Label, Text: yesNo(f.Value.Bool())}
	default:
		return Item{Label: f.Label, Text: f.Value.Text()}
	}
}

func renderGrid2(f Field) Item {
	switch f.Value.Kind() {
	case KindList:
		return Item{Label: f.Label, List: f.Value.Items()}
	case KindBool:
		return Item{Label: f.Label, Text: yesNo(f.Value.Bool())}
	default:
		return Item{Label: f.Label, Text: f.Value.Text()}
	}
}

func renderChecklist(f Field) Item {
	switch f.Value.Kind() {
	case KindList:
		return Item{Label: f.Label, Text: strings.Join(f.Value.items, ", ")}
	case KindBool:
		if f.Value.Bool() {
			return Item{Label: f.Label, Text: "Available"}
		}
		return Item{Label: f.Label}
	default:
		return Item{Label: f.Label, Text: f.Value.Text()}
	}
}

func renderCards(f Field) Item {
	switch f.Value.Kind() {
	case KindList:
		return Item{Label: f.Label, List: f.Value.Items()}
	case KindBool:
		return Item{Label: f.Label, Text: yesNo(f.Value.Bool())}
	default:
		return Item{Label: f.Label, Text: f.Value.Text()}
	}
}
