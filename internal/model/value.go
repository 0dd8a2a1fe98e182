package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant of a Value is populated.
type Kind int

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	default:
		return "absent"
	}
}

// Value is a single survey answer. Exactly one variant is meaningful,
// selected by Kind. The zero Value is absent.
type Value struct {
	kind Kind
	text string
	num  float64
	flag bool
	list []string
}

// Absent returns the value used for unanswered fields.
func Absent() Value { return Value{} }

// Text wraps a free-text or enumerated answer.
func Text(s string) Value { return Value{kind: KindText, text: s} }

// Number wraps a numeric answer.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// Bool wraps a yes/no toggle.
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

// List wraps a multi-select answer. The slice is copied.
func List(items ...string) Value {
	cp := make([]string, len(items))
	copy(cp, items)
	return Value{kind: KindList, list: cp}
}

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) AsBool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// AsList returns a copy of the list variant.
func (v Value) AsList() ([]string, bool) {
	if v.kind != KindList {
		return nil, false
	}
	cp := make([]string, len(v.list))
	copy(cp, v.list)
	return cp, true
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return strconv.Quote(v.text)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindList:
		return "[" + strings.Join(v.list, ", ") + "]"
	default:
		return "<absent>"
	}
}

// ValueOf narrows a decoded JSON or YAML value into a Value.
// Types with no survey meaning (objects, nested lists) narrow to Absent so
// the field's default applies.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case nil:
		return Absent()
	case Value:
		return t
	case string:
		return Text(t)
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) {
			return Number(f)
		}
		return Text(t.String())
	case []string:
		return List(t...)
	case []any:
		items := make([]string, 0, len(t))
		for _, e := range t {
			switch s := e.(type) {
			case string:
				items = append(items, s)
			case nil:
			default:
				items = append(items, fmt.Sprint(s))
			}
		}
		return List(items...)
	default:
		return Absent()
	}
}

// UnmarshalJSON decodes any JSON scalar or array into a Value.
func (v *Value) UnmarshalJSON(b []byte) error {
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	*v = ValueOf(x)
	return nil
}

// MarshalJSON encodes the populated variant; absent values encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}
