package sections

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type Kind int

const (
	KindString Kind = iota
	KindList
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindBool:
		return "bool"
	default:
		return "string"
	}
}

var ErrInvalidValue = errors.New("field value must be a string, a list of strings or a boolean")

// Value is the payload of a field: a string, a list of strings or a boolean.
// The zero Value is the empty string.
type Value struct {
	kind    Kind
	text    string
	items   []string
	boolean bool
}

func StringValue(s string) Value {
	return Value{kind: KindString, text: s}
}

func ListValue(items ...string) Value {
	out := make([]string, len(items))
	copy(out, items)
	return Value{kind: KindList, items: out}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

func (v Value) Kind() Kind { return v.kind }

// Text is the string payload; empty unless Kind is KindString.
func (v Value) Text() string { return v.text }

// Items returns a copy of the list payload; nil unless Kind is KindList.
func (v Value) Items() []string {
	if v.kind != KindList {
		return nil
	}
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

func (v Value) Bool() bool { return v.boolean }

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindList:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if v.items[i] != other.items[i] {
				return false
			}
		}
		return true
	case KindBool:
		return v.boolean == other.boolean
	default:
		return v.text == other.text
	}
}

func (v Value) clone() Value {
	if v.kind == KindList {
		return ListValue(v.items...)
	}
	return v
}

func (v Value) plain() interface{} {
	switch v.kind {
	case KindList:
		if v.items == nil {
			return []string{}
		}
		return v.items
	case KindBool:
		return v.boolean
	default:
		return v.text
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.plain())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return ErrInvalidValue
		}
		*v = ListValue(items...)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return ErrInvalidValue
		}
		*v = BoolValue(b)
	default:
		return ErrInvalidValue
	}
	return nil
}

func (v Value) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(v.plain())
}

func (v *Value) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*v = Value{}
	case bsontype.String:
		*v = StringValue(raw.StringValue())
	case bsontype.Boolean:
		*v = BoolValue(raw.Boolean())
	case bsontype.Array:
		var items []string
		if err := raw.Unmarshal(&items); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		*v = ListValue(items...)
	default:
		return fmt.Errorf("%w: bson type %s", ErrInvalidValue, t)
	}
	return nil
}
