package vm

// Class selects which payload of an Object is active.
type Class uint8

const (
	ClassObject Class = iota
	ClassArray
	ClassFunction
	ClassScript
	ClassNativeFunction
	ClassError
	ClassBoolean
	ClassNumber
	ClassString
	ClassRegExp
	ClassDate
	ClassMath
	ClassJSON
	ClassArguments
	ClassIterator
	ClassUserData
)

var classNames = [...]string{
	ClassObject:         "Object",
	ClassArray:          "Array",
	ClassFunction:       "Function",
	ClassScript:         "Script",
	ClassNativeFunction: "NativeFunction",
	ClassError:          "Error",
	ClassBoolean:        "Boolean",
	ClassNumber:         "Number",
	ClassString:         "String",
	ClassRegExp:         "RegExp",
	ClassDate:           "Date",
	ClassMath:           "Math",
	ClassJSON:           "JSON",
	ClassArguments:      "Arguments",
	ClassIterator:       "Iterator",
	ClassUserData:       "UserData",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "Unknown"
}

// Object is the representation of every non-primitive value. The prototype
// is held as a Handle; the heap, not the child, owns the prototype.
type Object struct {
	class      Class
	extensible bool
	props      PropertyTable
	count      int
	proto      Handle
	handle     Handle

	// Class payloads. Only the one matching class is meaningful.
	boolean  bool        // ClassBoolean
	number   float64     // ClassNumber, ClassDate
	str      *StringNode // ClassString
	length   int         // ClassArray
	function *Function   // ClassFunction, ClassScript
	scope    any         // ClassFunction, ClassScript: closure environment
	native   *Native     // ClassNativeFunction
	regexp   *RegExp     // ClassRegExp
	iter     *iterState  // ClassIterator
	user     *UserData   // ClassUserData
}

// NativeFunc is a host function callable from scripts.
type NativeFunc func(s *State, this Value, args []Value) (Value, error)

// Native is the payload of a native function object.
type Native struct {
	Name        string
	Call        NativeFunc
	Constructor NativeFunc
	Length      int
}

// RegExp is the payload of a regular-expression object. The compiled
// program is opaque to this package.
type RegExp struct {
	Source    string
	Flags     RegExpFlags
	Program   any
	LastIndex int
}

// RegExpFlags is the set of regular-expression flags.
type RegExpFlags uint8

const (
	RegExpGlobal RegExpFlags = 1 << iota
	RegExpIgnoreCase
	RegExpMultiline
)

// UserData is the payload of a host-defined object. The optional hooks let
// the host intercept property access before the ordinary property table is
// consulted; each returns true when it handled the access.
type UserData struct {
	Tag      string
	Data     any
	Has      func(s *State, data any, name string) (Value, bool, error)
	Put      func(s *State, data any, name string, v Value) (bool, error)
	Delete   func(s *State, data any, name string) (bool, error)
	Finalize func(s *State, data any)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// Class returns the object's class tag.
func (obj *Object) Class() Class { return obj.class }

// Handle returns the object's heap handle.
func (obj *Object) Handle() Handle { return obj.handle }

// Prototype returns the prototype handle, NoHandle for none.
func (obj *Object) Prototype() Handle { return obj.proto }

// IsExtensible reports whether new properties may be added.
func (obj *Object) IsExtensible() bool { return obj.extensible }

// Count returns the number of own properties.
func (obj *Object) Count() int { return obj.count }

// IsCallable reports whether the object can be invoked.
func (obj *Object) IsCallable() bool {
	switch obj.class {
	case ClassFunction, ClassScript, ClassNativeFunction:
		return true
	}
	return false
}

// ArrayLength returns the length of an array.
// Panics if obj is not an array.
func (obj *Object) ArrayLength() int {
	if obj.class != ClassArray {
		panic("Object.ArrayLength: not an array")
	}
	return obj.length
}

// StringNode returns the content of a String object.
// Panics if obj is not a String object.
func (obj *Object) StringNode() *StringNode {
	if obj.class != ClassString {
		panic("Object.StringNode: not a string object")
	}
	return obj.str
}

// PrimitiveValue returns the wrapped value of a Boolean, Number, String or
// Date object, or Undefined for other classes.
func (obj *Object) PrimitiveValue() Value {
	switch obj.class {
	case ClassBoolean:
		return FromBool(obj.boolean)
	case ClassNumber, ClassDate:
		return FromNumber(obj.number)
	case ClassString:
		if obj.str.owned {
			return FromOwned(obj.str)
		}
		return FromLiteral(obj.str)
	}
	return Undefined
}

// Function returns the compiled function of a Function or Script object,
// or nil.
func (obj *Object) Function() *Function { return obj.function }

// Scope returns the closure environment of a Function or Script object.
func (obj *Object) Scope() any { return obj.scope }

// Native returns the payload of a native function, or nil.
func (obj *Object) Native() *Native { return obj.native }

// RegExp returns the payload of a RegExp object, or nil.
func (obj *Object) RegExp() *RegExp { return obj.regexp }

// UserData returns the payload of a user-data object, or nil.
func (obj *Object) UserData() *UserData { return obj.user }

// EachOwn visits the own properties of obj in insertion order.
func (obj *Object) EachOwn(fn func(*Property) bool) { obj.props.each(fn) }

// ---------------------------------------------------------------------------
// Object creation
// ---------------------------------------------------------------------------

// NewObjectWithProto allocates an empty extensible object of class c.
// A nil proto means no prototype.
func (s *State) NewObjectWithProto(c Class, proto *Object) *Object {
	obj := &Object{class: c, extensible: true}
	if proto != nil {
		obj.proto = proto.handle
	}
	s.heap.alloc(obj)
	return obj
}

// NewObject creates a plain object inheriting from Object.prototype.
func (s *State) NewObject() *Object {
	return s.NewObjectWithProto(ClassObject, s.protos.Object)
}

// NewArray creates an empty array.
func (s *State) NewArray() *Object {
	return s.NewObjectWithProto(ClassArray, s.protos.Array)
}

// NewArguments creates an arguments object.
func (s *State) NewArguments() *Object {
	return s.NewObjectWithProto(ClassArguments, s.protos.Object)
}

// NewBooleanObject boxes b.
func (s *State) NewBooleanObject(b bool) *Object {
	obj := s.NewObjectWithProto(ClassBoolean, s.protos.Boolean)
	obj.boolean = b
	return obj
}

// NewNumberObject boxes f.
func (s *State) NewNumberObject(f float64) *Object {
	obj := s.NewObjectWithProto(ClassNumber, s.protos.Number)
	obj.number = f
	return obj
}

// NewDate creates a Date object holding the time value t.
func (s *State) NewDate(t float64) *Object {
	obj := s.NewObjectWithProto(ClassDate, s.protos.Date)
	obj.number = t
	return obj
}

// NewStringObject boxes content, interning it.
func (s *State) NewStringObject(content string) *Object {
	obj := s.NewObjectWithProto(ClassString, s.protos.String)
	obj.str = s.strings.Intern(content)
	return obj
}

// NewStringObjectFrom boxes a string value. A mem string's node moves into
// the object instead of being interned; other kinds are interned.
func (s *State) NewStringObjectFrom(v Value) (*Object, error) {
	if v.kind == KindUndefined {
		return s.NewStringObject(""), nil
	}
	obj := s.NewObjectWithProto(ClassString, s.protos.String)
	switch v.kind {
	case KindLiteralString, KindMemString:
		obj.str = v.node
	case KindShortString, KindConstString:
		obj.str = s.strings.Intern(v.Str())
	default:
		str, err := s.ToString(v)
		if err != nil {
			return nil, err
		}
		obj.str = s.strings.Intern(str)
	}
	return obj, nil
}

// NewRegExp creates a RegExp object. The program is compiled by the host.
func (s *State) NewRegExp(source string, flags RegExpFlags, program any) *Object {
	obj := s.NewObjectWithProto(ClassRegExp, s.protos.RegExp)
	obj.regexp = &RegExp{Source: source, Flags: flags, Program: program}
	return obj
}

// NewError creates an error object of the given kind with a message
// property.
func (s *State) NewError(kind ErrorKind, message string) *Object {
	proto := s.protos.Error
	switch kind {
	case KindTypeError:
		proto = s.protos.TypeError
	case KindRangeError:
		proto = s.protos.RangeError
	}
	obj := s.NewObjectWithProto(ClassError, proto)
	if message != "" {
		s.defineOwn(obj, "message", NewStringValue(message), DontEnum)
	}
	return obj
}

// NewUserData creates a host object with the given prototype and hooks.
func (s *State) NewUserData(proto *Object, ud UserData) *Object {
	obj := s.NewObjectWithProto(ClassUserData, proto)
	obj.user = &ud
	return obj
}
