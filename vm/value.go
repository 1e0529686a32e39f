package vm

import "math"

// Kind identifies which member of a Value is active.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindShortString   // up to ShortStringCap bytes stored inline
	KindLiteralString // interned StringNode from compiled code
	KindMemString     // StringNode owned by this value alone
	KindConstString   // process-lifetime Go string constant
	KindObject
)

var kindNames = [...]string{
	KindUndefined:     "undefined",
	KindNull:          "null",
	KindBoolean:       "boolean",
	KindNumber:        "number",
	KindShortString:   "shortstring",
	KindLiteralString: "literalstring",
	KindMemString:     "memstring",
	KindConstString:   "conststring",
	KindObject:        "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ShortStringCap is the number of bytes a Value can hold inline.
const ShortStringCap = 15

// Value is a runtime value. Exactly one member is meaningful, selected by
// kind. Values are small and passed by value; an object Value is a
// non-owning reference into the heap.
type Value struct {
	kind    Kind
	unicode bool  // string kinds: content holds non-ASCII bytes
	slen    uint8 // KindShortString: bytes used in short
	short   [ShortStringCap]byte
	num     float64     // KindNumber; KindBoolean stores 0 or 1
	node    *StringNode // KindLiteralString, KindMemString
	text    string      // KindConstString
	obj     *Object     // KindObject
}

// Pre-defined values
var (
	Undefined = Value{kind: KindUndefined}
	Null      = Value{kind: KindNull}
	True      = Value{kind: KindBoolean, num: 1}
	False     = Value{kind: KindBoolean}
	NaN       = Value{kind: KindNumber, num: math.NaN()}
)

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

// FromBool creates a boolean Value.
func FromBool(b bool) Value {
	if b {
		return True
	}
	return False
}

// FromNumber creates a number Value.
func FromNumber(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// FromObject creates an object Value. A nil object yields Null.
func FromObject(obj *Object) Value {
	if obj == nil {
		return Null
	}
	return Value{kind: KindObject, obj: obj}
}

// FromShortString stores s inline. It reports false if s does not fit.
func FromShortString(s string) (Value, bool) {
	if len(s) > ShortStringCap {
		return Undefined, false
	}
	v := Value{kind: KindShortString, slen: uint8(len(s))}
	copy(v.short[:], s)
	_, _, v.unicode = classify(s)
	return v, true
}

// FromConstString wraps a process-lifetime constant such as "undefined".
// The content is never interned.
func FromConstString(s string) Value {
	_, _, unicode := classify(s)
	return Value{kind: KindConstString, text: s, unicode: unicode}
}

// FromLiteral wraps an interned node as a literal string.
func FromLiteral(node *StringNode) Value {
	return Value{kind: KindLiteralString, node: node, unicode: node.unicode}
}

// FromOwned wraps a node built by NewOwnedString. The value becomes the
// node's sole owner.
func FromOwned(node *StringNode) Value {
	return Value{kind: KindMemString, node: node, unicode: node.unicode}
}

// ---------------------------------------------------------------------------
// Type checking
// ---------------------------------------------------------------------------

// Kind returns the active member of v.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsDefined() bool   { return v.kind != KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsBoolean() bool   { return v.kind == KindBoolean }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsObject() bool    { return v.kind == KindObject }

// IsString returns true for all four string kinds.
func (v Value) IsString() bool {
	switch v.kind {
	case KindShortString, KindLiteralString, KindMemString, KindConstString:
		return true
	}
	return false
}

// IsPrimitive returns true for everything except objects.
func (v Value) IsPrimitive() bool { return v.kind != KindObject }

// IsCoercible returns false for undefined and null.
func (v Value) IsCoercible() bool {
	return v.kind != KindUndefined && v.kind != KindNull
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Bool returns v as a bool.
// Panics if v is not a boolean.
func (v Value) Bool() bool {
	if v.kind != KindBoolean {
		panic("Value.Bool: not a boolean")
	}
	return v.num != 0
}

// Number returns v as a float64.
// Panics if v is not a number.
func (v Value) Number() float64 {
	if v.kind != KindNumber {
		panic("Value.Number: not a number")
	}
	return v.num
}

// Object returns the referenced object.
// Panics if v is not an object.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		panic("Value.Object: not an object")
	}
	return v.obj
}

// AsObject returns the referenced object, or nil if v is not an object.
func (v Value) AsObject() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Str returns the content of a string value.
// Panics if v is not a string.
func (v Value) Str() string {
	switch v.kind {
	case KindShortString:
		return string(v.short[:v.slen])
	case KindLiteralString, KindMemString:
		return v.node.s
	case KindConstString:
		return v.text
	}
	panic("Value.Str: not a string")
}

// Node returns the backing node of a literal or mem string, or nil.
func (v Value) Node() *StringNode {
	if v.kind == KindLiteralString || v.kind == KindMemString {
		return v.node
	}
	return nil
}

// IsUnicode reports whether a string value must be treated as a code-point
// sequence. It is false for non-strings.
func (v Value) IsUnicode() bool {
	if !v.IsString() {
		return false
	}
	return v.unicode
}

// Size returns the byte size of a string value, or 0 for non-strings.
func (v Value) Size() int {
	switch v.kind {
	case KindShortString:
		return int(v.slen)
	case KindLiteralString, KindMemString:
		return v.node.size
	case KindConstString:
		return len(v.text)
	}
	return 0
}

// Len returns the code-point length of a string value, or 0 for non-strings.
func (v Value) Len() int {
	switch v.kind {
	case KindShortString:
		if !v.unicode {
			return int(v.slen)
		}
		_, n, _ := classify(string(v.short[:v.slen]))
		return n
	case KindLiteralString, KindMemString:
		return v.node.length
	case KindConstString:
		if !v.unicode {
			return len(v.text)
		}
		_, n, _ := classify(v.text)
		return n
	}
	return 0
}

// TypeOf returns the result of the typeof operator.
func (v Value) TypeOf() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindObject:
		if v.obj.IsCallable() {
			return "function"
		}
		return "object"
	}
	return "string"
}
