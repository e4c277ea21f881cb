package proto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrEmptyDocument is returned when the body holds no JSON value at all.
	ErrEmptyDocument = errors.New("empty document")
	// ErrTrailingData is returned when bytes follow the first JSON value.
	ErrTrailingData = errors.New("trailing data after json value")
)

// Object is a decoded JSON object that remembers the order keys first appeared in.
// A repeated key keeps its original position and takes the later value.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set stores value under key, appending key to the order if it is new.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present, regardless of its value.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of distinct keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Values returns values in key insertion order.
func (o *Object) Values() []any {
	out := make([]any, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.values[k])
	}
	return out
}

// Text returns the speakable text form of a scalar: strings verbatim, numbers by
// their literal. Booleans, null and containers have no text form.
func Text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

type frame struct {
	object  *Object
	array   []any
	key     string
	haveKey bool
}

func (f *frame) isObject() bool { return f.object != nil }

func (f *frame) add(v any) {
	if f.isObject() {
		f.object.Set(f.key, v)
		f.key, f.haveKey = "", false
		return
	}
	f.array = append(f.array, v)
}

func (f *frame) value() any {
	if f.isObject() {
		return f.object
	}
	return f.array
}

// Decode parses exactly one JSON document into a tree of *Object, []any, string,
// json.Number, bool and nil. Nesting is tracked on an explicit stack.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var stack []*frame
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if len(stack) == 0 {
					return nil, ErrEmptyDocument
				}
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		var v any
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, &frame{object: NewObject()})
				continue
			case '[':
				stack = append(stack, &frame{array: []any{}})
				continue
			default:
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				v = top.value()
			}
		default:
			if n := len(stack); n > 0 && stack[n-1].isObject() && !stack[n-1].haveKey {
				key, ok := t.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, want string", t)
				}
				stack[n-1].key, stack[n-1].haveKey = key, true
				continue
			}
			v = t
		}

		if len(stack) == 0 {
			if _, err := dec.Token(); !errors.Is(err, io.EOF) {
				return nil, ErrTrailingData
			}
			return v, nil
		}
		stack[len(stack)-1].add(v)
	}
}
