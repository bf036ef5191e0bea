// Package jsonv holds a closed, ordered representation of parsed JSON and the
// deep key search used by the hydration and framework-props strategies.
//
// Values are pointer-linked so that callers assembling trees by hand (live
// framework state, tests) may create shared or cyclic references; FindKey
// tolerates both.
package jsonv

import (
	"strconv"
)

// Kind is the tag of a Value
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "unknown"
	}
}

// Member is one key/value pair of an object, kept in source order
type Member struct {
	Key   string
	Value *Value
}

// Value is a JSON value. Numbers keep their literal text so that long ids
// never pass through float64.
type Value struct {
	kind    Kind
	text    string
	boolean bool
	items   []*Value
	members []Member
}

func NewNull() *Value { return &Value{kind: Null} }

func NewBool(b bool) *Value { return &Value{kind: Bool, boolean: b} }

// NewNumber keeps lit verbatim; it is not checked to be a valid JSON number
func NewNumber(lit string) *Value { return &Value{kind: Number, text: lit} }

func NewString(s string) *Value { return &Value{kind: String, text: s} }

func NewArray(items ...*Value) *Value { return &Value{kind: Array, items: items} }

// NewObject builds an object from members in the given order
func NewObject(members ...Member) *Value {
	obj := &Value{kind: Object}
	for _, m := range members {
		obj.Set(m.Key, m.Value)
	}
	return obj
}

// Kind returns the tag of v; a nil Value is Null
func (v *Value) Kind() Kind {
	if v == nil {
		return Null
	}
	return v.kind
}

// Set assigns key on an object. An existing key keeps its position and takes
// the new value, matching how a JSON object literal with duplicate keys is
// evaluated in a browser.
func (v *Value) Set(key string, val *Value) {
	if v == nil || v.kind != Object {
		return
	}
	for i := range v.members {
		if v.members[i].Key == key {
			v.members[i].Value = val
			return
		}
	}
	v.members = append(v.members, Member{Key: key, Value: val})
}

// Append adds an item to an array
func (v *Value) Append(item *Value) {
	if v == nil || v.kind != Array {
		return
	}
	v.items = append(v.items, item)
}

// Get returns the value the object owns directly under key
func (v *Value) Get(key string) (*Value, bool) {
	if v == nil || v.kind != Object {
		return nil, false
	}
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Path follows a chain of object keys
func (v *Value) Path(keys ...string) (*Value, bool) {
	cur := v
	for _, k := range keys {
		next, ok := cur.Get(k)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Members returns the object members in order
func (v *Value) Members() []Member {
	if v == nil || v.kind != Object {
		return nil
	}
	return v.members
}

// Items returns the array elements in order
func (v *Value) Items() []*Value {
	if v == nil || v.kind != Array {
		return nil
	}
	return v.items
}

// Text returns the scalar text of v: string contents, number literal, or
// "true"/"false". Null, arrays and objects have no scalar text.
func (v *Value) Text() string {
	switch v.Kind() {
	case String, Number:
		return v.text
	case Bool:
		return strconv.FormatBool(v.boolean)
	default:
		return ""
	}
}

// Truthy follows JavaScript truthiness: empty strings, zero, false and null
// are falsy; every array and object is truthy.
func (v *Value) Truthy() bool {
	switch v.Kind() {
	case Bool:
		return v.boolean
	case String:
		return v.text != ""
	case Number:
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			// out-of-range literals are still non-zero
			return true
		}
		return f != 0
	case Array, Object:
		return true
	default:
		return false
	}
}

func (v *Value) isContainer() bool {
	k := v.Kind()
	return k == Array || k == Object
}
