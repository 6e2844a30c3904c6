package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"
)

// Value is a node of the canonical representation. The set of
// implementations is closed: String, Int, Bool, Array and Object.
type Value interface {
	isValue()
}

type (
	// String is a text value, NFC normalized when serialized.
	String string
	// Int is the only numeric kind; traits and chances are integer percents.
	Int int64
	// Bool is a boolean value.
	Bool bool
	// Array is an ordered list.
	Array []Value
	// Object maps keys to values. Iterate with SortedKeys.
	Object map[string]Value
)

func (String) isValue() {}
func (Int) isValue()    {}
func (Bool) isValue()   {}
func (Array) isValue()  {}
func (Object) isValue() {}

// Strings lowers a string slice.
func Strings(values []string) Array {
	arr := make(Array, 0, len(values))
	for _, v := range values {
		arr = append(arr, String(v))
	}
	return arr
}

// StringMap lowers a string map.
func StringMap(m map[string]string) Object {
	obj := make(Object, len(m))
	for k, v := range m {
		obj[k] = String(v)
	}
	return obj
}

// SortedKeys returns the keys ordered by UTF-16 code units, which is what
// RFC 8785 requires. Byte order differs for keys outside the BMP.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
	})
	return keys
}

// ParseValue decodes JSON produced by MarshalCanonical. Floats and null are
// rejected since the canonical form never contains them.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return toValue(raw)
}

func toValue(raw any) (Value, error) {
	switch x := raw.(type) {
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case json.Number:
		n, err := x.Int64()
		if err != nil {
			return nil, fmt.Errorf("non-integer number %s", x)
		}
		return Int(n), nil
	case []any:
		arr := make(Array, len(x))
		for i := range x {
			v, err := toValue(x[i])
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(x))
		for k := range x {
			v, err := toValue(x[k])
			if err != nil {
				return nil, fmt.Errorf("%q: %w", k, err)
			}
			obj[k] = v
		}
		return obj, nil
	case nil:
		return nil, fmt.Errorf("null value")
	}
	return nil, fmt.Errorf("unexpected JSON type %T", raw)
}
