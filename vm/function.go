package vm

// Function is a compiled function: the constant tables, variable names and
// instruction stream produced by the compiler, plus its nested functions.
// Instruction semantics belong to the interpreter and are opaque here.
type Function struct {
	Name        string
	Script      bool
	Lightweight bool
	Strict      bool
	Arguments   bool
	NumParams   int

	Filename string
	Line     int
	LastLine int

	Nums []float64
	Strs []string
	Vars []string
	Code []int32
	Funs []*Function
}

// Caller runs compiled code on behalf of the core. The host interpreter
// installs one so that getters, setters and ToPrimitive can invoke script
// functions.
type Caller interface {
	Call(s *State, fn *Object, this Value, args []Value) (Value, error)
}

// CallerFunc adapts a plain function to the Caller interface.
type CallerFunc func(s *State, fn *Object, this Value, args []Value) (Value, error)

func (f CallerFunc) Call(s *State, fn *Object, this Value, args []Value) (Value, error) {
	return f(s, fn, this, args)
}

// Call invokes a callable object.
func (s *State) Call(fn *Object, this Value, args ...Value) (Value, error) {
	switch fn.class {
	case ClassNativeFunction:
		return fn.native.Call(s, this, args)
	case ClassFunction, ClassScript:
		if s.caller == nil {
			return Undefined, s.Errorf("no interpreter installed to call %s", fn.function.Name)
		}
		return s.caller.Call(s, fn, this, args)
	}
	return Undefined, s.TypeErrorf("%s is not callable", fn.class)
}

// NewFunction wraps a compiled function in a closure object. The object
// gets a read-only length and a fresh prototype object that links back to
// it through a hidden constructor property.
func (s *State) NewFunction(fn *Function, scope any) *Object {
	obj := s.NewObjectWithProto(ClassFunction, s.protos.Function)
	obj.function = fn
	obj.scope = scope
	s.defineOwn(obj, "length", FromNumber(float64(fn.NumParams)), ReadOnly|DontEnum|DontConf)
	proto := s.NewObject()
	s.defineOwn(proto, "constructor", FromObject(obj), DontEnum)
	s.defineOwn(obj, "prototype", FromObject(proto), DontConf)
	return obj
}

// NewScript wraps top-level compiled code. Scripts have no prototype.
func (s *State) NewScript(fn *Function, scope any) *Object {
	obj := s.NewObjectWithProto(ClassScript, nil)
	obj.function = fn
	obj.scope = scope
	return obj
}

// NewNativeFunction wraps a host function.
func (s *State) NewNativeFunction(call NativeFunc, name string, length int) *Object {
	obj := s.NewObjectWithProto(ClassNativeFunction, s.protos.Function)
	obj.native = &Native{Name: name, Call: call, Length: length}
	s.defineOwn(obj, "length", FromNumber(float64(length)), ReadOnly|DontEnum|DontConf)
	proto := s.NewObject()
	s.defineOwn(proto, "constructor", FromObject(obj), DontEnum)
	s.defineOwn(obj, "prototype", FromObject(proto), DontConf)
	return obj
}

// NewNativeConstructor wraps a host function that also serves as a
// constructor for instances inheriting from proto. The constructor and
// proto are linked both ways.
func (s *State) NewNativeConstructor(call, construct NativeFunc, name string, length int, proto *Object) *Object {
	obj := s.NewObjectWithProto(ClassNativeFunction, s.protos.Function)
	obj.native = &Native{Name: name, Call: call, Constructor: construct, Length: length}
	s.defineOwn(obj, "length", FromNumber(float64(length)), ReadOnly|DontEnum|DontConf)
	s.defineOwn(proto, "constructor", FromObject(obj), DontEnum)
	s.defineOwn(obj, "prototype", FromObject(proto), ReadOnly|DontEnum|DontConf)
	return obj
}
