package vm

import (
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("jscore.vm")

// Config holds the runtime switches of a State.
type Config struct {
	// Strict turns soft failures (writes to read-only or non-extensible
	// objects, failed ToPrimitive) into TypeErrors.
	Strict bool

	// SparseArrayFactor is the length-to-property-count ratio above which
	// ResizeArray visits existing properties instead of every index.
	SparseArrayFactor int
}

// Option configures a State.
type Option func(*State)

// WithStrict sets strict evaluation.
func WithStrict(strict bool) Option {
	return func(s *State) { s.config.Strict = strict }
}

// WithSparseArrayFactor overrides the array shrink threshold. Values below
// 1 keep the default.
func WithSparseArrayFactor(factor int) Option {
	return func(s *State) {
		if factor >= 1 {
			s.config.SparseArrayFactor = factor
		}
	}
}

// WithCaller installs the interpreter used to call compiled functions.
func WithCaller(c Caller) Option {
	return func(s *State) { s.caller = c }
}

// Prototypes holds the builtin prototype objects every new object links to.
type Prototypes struct {
	Object     *Object
	Function   *Object
	Array      *Object
	Boolean    *Object
	Number     *Object
	String     *Object
	RegExp     *Object
	Date       *Object
	Error      *Object
	TypeError  *Object
	RangeError *Object
}

// State is one runtime instance: an interner, a heap and the builtin
// prototypes. A State must only be used from one goroutine.
type State struct {
	id      string
	config  Config
	strings *Interner
	heap    *Heap
	protos  Prototypes
	caller  Caller
	log     commonlog.Logger

	// OnError, when set, observes every error raised by the core before it
	// is returned to the caller.
	OnError func(*Error)
}

// NewState creates a runtime instance.
func NewState(opts ...Option) *State {
	s := &State{
		id:      uuid.NewString(),
		config:  Config{SparseArrayFactor: DefaultSparseArrayFactor},
		strings: NewInterner(),
		heap:    newHeap(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = commonlog.NewKeyValueLogger(log, "state", s.id)
	s.initPrototypes()
	s.log.Debugf("created (strict=%t, sparse-array-factor=%d)", s.config.Strict, s.config.SparseArrayFactor)
	return s
}

func (s *State) initPrototypes() {
	p := &s.protos
	p.Object = s.NewObjectWithProto(ClassObject, nil)
	p.Function = s.NewObjectWithProto(ClassNativeFunction, p.Object)
	p.Function.native = &Native{Name: "", Call: func(*State, Value, []Value) (Value, error) { return Undefined, nil }}
	p.Array = s.NewObjectWithProto(ClassArray, p.Object)
	p.Boolean = s.NewObjectWithProto(ClassBoolean, p.Object)
	p.Number = s.NewObjectWithProto(ClassNumber, p.Object)
	p.String = s.NewObjectWithProto(ClassString, p.Object)
	p.String.str = s.strings.Intern("")
	p.RegExp = s.NewObjectWithProto(ClassObject, p.Object)
	p.Date = s.NewObjectWithProto(ClassDate, p.Object)
	p.Error = s.NewObjectWithProto(ClassError, p.Object)
	p.TypeError = s.NewObjectWithProto(ClassError, p.Error)
	p.RangeError = s.NewObjectWithProto(ClassError, p.Error)

	s.defineOwn(p.Object, "toString", FromObject(s.NewNativeFunction(objectToString, "toString", 0)), DontEnum)
	s.defineOwn(p.Object, "valueOf", FromObject(s.NewNativeFunction(objectValueOf, "valueOf", 0)), DontEnum)
	for _, proto := range []*Object{p.Boolean, p.Number, p.String, p.Date} {
		s.defineOwn(proto, "toString", FromObject(s.NewNativeFunction(primitiveToString, "toString", 0)), DontEnum)
		s.defineOwn(proto, "valueOf", FromObject(s.NewNativeFunction(primitiveValueOf, "valueOf", 0)), DontEnum)
	}
	s.defineOwn(p.Error, "name", FromConstString("Error"), DontEnum)
	s.defineOwn(p.TypeError, "name", FromConstString("TypeError"), DontEnum)
	s.defineOwn(p.RangeError, "name", FromConstString("RangeError"), DontEnum)
}

func objectToString(s *State, this Value, _ []Value) (Value, error) {
	return FromConstString(ClassName(this)), nil
}

func objectValueOf(s *State, this Value, _ []Value) (Value, error) {
	return this, nil
}

func primitiveValueOf(s *State, this Value, _ []Value) (Value, error) {
	if obj := this.AsObject(); obj != nil {
		switch obj.class {
		case ClassBoolean, ClassNumber, ClassString, ClassDate:
			return obj.PrimitiveValue(), nil
		}
	}
	return Undefined, s.TypeErrorf("not a primitive wrapper")
}

func primitiveToString(s *State, this Value, args []Value) (Value, error) {
	v, err := primitiveValueOf(s, this, args)
	if err != nil {
		return Undefined, err
	}
	return s.ToStringValue(v)
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// ID returns the unique identifier of this State.
func (s *State) ID() string { return s.id }

// Config returns the runtime switches.
func (s *State) Config() Config { return s.config }

// SetStrict switches strict evaluation on or off.
func (s *State) SetStrict(strict bool) { s.config.Strict = strict }

// Interner returns the string interner.
func (s *State) Interner() *Interner { return s.strings }

// Heap returns the object arena.
func (s *State) Heap() *Heap { return s.heap }

// Prototypes returns the builtin prototypes.
func (s *State) Prototypes() Prototypes { return s.protos }

// SetCaller installs the interpreter used to call compiled functions.
func (s *State) SetCaller(c Caller) { s.caller = c }

// Intern returns the canonical node for content.
func (s *State) Intern(content string) *StringNode { return s.strings.Intern(content) }

// NewLiteral interns content and returns it as a literal string value.
func (s *State) NewLiteral(content string) Value { return FromLiteral(s.strings.Intern(content)) }

// Close frees every object, running user-data finalizers, and tears down
// the interner.
func (s *State) Close() {
	s.log.Debugf("closing: %d objects live, %d allocated, %d strings interned (%s)",
		s.heap.Len(), s.heap.Allocated(), s.strings.Len(), humanize.Bytes(uint64(s.strings.Bytes())))
	s.heap.Walk(func(h Handle, _ *Object) bool {
		s.heap.Free(s, h)
		return true
	})
	s.strings.Reset()
}
