package score

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the scale type of a criterion value.
type Kind int

const (
	// KindLabel is an ordinal qualitative label resolved through a rating scale.
	KindLabel Kind = iota + 1
	// KindNumber is a continuous numeric reading.
	KindNumber
	// KindFact is a boolean fact.
	KindFact
)

// String returns the lowercase kind name used in configuration files.
func (k Kind) String() string {
	switch k {
	case KindLabel:
		return "label"
	case KindNumber:
		return "number"
	case KindFact:
		return "fact"
	default:
		return "unknown"
	}
}

// Value is one criterion value of a room: a label, a number or a fact.
type Value struct {
	Kind   Kind
	Label  string
	Number float64
	Fact   bool
}

// Label returns a qualitative value.
func Label(l string) Value { return Value{Kind: KindLabel, Label: l} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{Kind: KindNumber, Number: n} }

// Fact returns a boolean value.
func Fact(f bool) Value { return Value{Kind: KindFact, Fact: f} }

func (v Value) String() string {
	switch v.Kind {
	case KindLabel:
		return v.Label
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindFact:
		return strconv.FormatBool(v.Fact)
	default:
		return "<nil>"
	}
}

// MarshalJSON encodes the value as its natural JSON type.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindLabel:
		return json.Marshal(v.Label)
	case KindNumber:
		return json.Marshal(v.Number)
	case KindFact:
		return json.Marshal(v.Fact)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON infers the kind from the JSON type: string, number or bool.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return v.set(raw)
}

// UnmarshalYAML infers the kind the same way as UnmarshalJSON.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return v.set(raw)
}

func (v *Value) set(raw any) error {
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = Label(t)
	case float64:
		*v = Number(t)
	case int:
		*v = Number(float64(t))
	case bool:
		*v = Fact(t)
	default:
		return fmt.Errorf("unsupported criterion value %v (%T)", raw, raw)
	}
	return nil
}

// AttributeSet maps criterion names to the values of exactly one room.
type AttributeSet map[string]Value

// Require returns the value of criterion c.
// The value must exist and be of kind want.
func (a AttributeSet) Require(room string, c string, want Kind) (Value, error) {
	v, ok := a[c]
	if !ok {
		return Value{}, NewMissingCriterionError(room, c)
	}
	if v.Kind != want {
		return Value{}, NewInvalidCriterionValueError(room, c, want, v)
	}
	return v, nil
}

// Merge returns a new set containing a's values overridden by b's.
func (a AttributeSet) Merge(b AttributeSet) AttributeSet {
	out := make(AttributeSet, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
