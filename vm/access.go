package vm

// Property access with ECMAScript semantics layered over the primitive
// lookups in property.go: virtual properties of arrays, strings and
// regexps, accessor calls, read-only and configurability checks, and the
// user-data hooks.

// defineOwn creates or overwrites an own data property without any checks.
// It is used while building objects that are not yet visible to scripts.
func (s *State) defineOwn(obj *Object, name string, v Value, attrs Attr) *Property {
	hash := HashName(name)
	p := obj.props.find(hash, name)
	if p == nil {
		p = s.newProperty(obj, name, hash)
	}
	p.Value = v
	p.Getter, p.Setter = nil, nil
	p.Attrs = attrs
	return p
}

var regexpProps = map[string]bool{
	"source": true, "global": true, "ignoreCase": true, "multiline": true, "lastIndex": true,
}

// virtualProperty resolves the properties that arrays, strings and regexps
// carry in their payload rather than in the property table.
func (s *State) virtualProperty(obj *Object, name string) (Value, bool) {
	switch obj.class {
	case ClassArray:
		if name == "length" {
			return FromNumber(float64(obj.length)), true
		}
	case ClassString:
		if name == "length" {
			return FromNumber(float64(obj.str.length)), true
		}
		if k, ok := IsArrayIndex(name); ok && k < obj.str.length {
			return NewStringValue(charAt(obj.str, k)), true
		}
	case ClassRegExp:
		re := obj.regexp
		switch name {
		case "source":
			return NewStringValue(re.Source), true
		case "global":
			return FromBool(re.Flags&RegExpGlobal != 0), true
		case "ignoreCase":
			return FromBool(re.Flags&RegExpIgnoreCase != 0), true
		case "multiline":
			return FromBool(re.Flags&RegExpMultiline != 0), true
		case "lastIndex":
			return FromNumber(float64(re.LastIndex)), true
		}
	}
	return Undefined, false
}

// charAt returns the k-th code point of node as a string.
func charAt(node *StringNode, k int) string {
	if !node.unicode {
		return node.s[k : k+1]
	}
	i := 0
	for _, r := range node.s {
		if i == k {
			return string(r)
		}
		i++
	}
	return ""
}

// HasProperty reports whether name resolves on obj or its prototype chain,
// including virtual properties. Getters are not invoked.
func (s *State) HasProperty(obj *Object, name string) bool {
	if _, ok := s.virtualProperty(obj, name); ok {
		return true
	}
	return s.GetProperty(obj, name) != nil
}

// GetValue reads obj[name]. A getter is called with obj as this; a missing
// property reads as undefined.
func (s *State) GetValue(obj *Object, name string) (Value, error) {
	if v, ok := s.virtualProperty(obj, name); ok {
		return v, nil
	}
	if obj.class == ClassUserData && obj.user.Has != nil {
		v, handled, err := obj.user.Has(s, obj.user.Data, name)
		if err != nil || handled {
			return v, err
		}
	}
	p := s.GetProperty(obj, name)
	switch {
	case p == nil:
		return Undefined, nil
	case p.Getter != nil:
		return s.Call(p.Getter, FromObject(obj))
	case p.Setter != nil:
		return Undefined, nil
	}
	return p.Value, nil
}

// PutValue writes obj[name] = v. Setters found anywhere on the chain are
// called; read-only properties, including inherited ones, reject the write.
// Rejections are silent unless the state is strict.
func (s *State) PutValue(obj *Object, name string, v Value) error {
	switch obj.class {
	case ClassArray:
		if name == "length" {
			raw, err := s.ToNumber(v)
			if err != nil {
				return err
			}
			n := NumberToInteger(raw)
			if float64(n) != raw || n < 0 {
				return s.RangeErrorf("invalid array length")
			}
			s.ResizeArray(obj, n)
			return nil
		}
		if k, ok := IsArrayIndex(name); ok && k >= obj.length {
			obj.length = k + 1
		}
	case ClassString:
		if name == "length" {
			return s.readOnly(name)
		}
		if k, ok := IsArrayIndex(name); ok && k < obj.str.length {
			return s.readOnly(name)
		}
	case ClassRegExp:
		if name == "lastIndex" {
			n, err := s.ToInteger(v)
			if err != nil {
				return err
			}
			obj.regexp.LastIndex = n
			return nil
		}
		if regexpProps[name] {
			return s.readOnly(name)
		}
	case ClassUserData:
		if obj.user.Put != nil {
			handled, err := obj.user.Put(s, obj.user.Data, name, v)
			if err != nil || handled {
				return err
			}
		}
	}

	ref, own := s.GetPropertyX(obj, name)
	if ref != nil {
		if ref.Setter != nil {
			_, err := s.Call(ref.Setter, FromObject(obj), v)
			return err
		}
		if ref.Getter != nil {
			if s.config.Strict {
				return s.TypeErrorf("setting property '%s' that only has a getter", name)
			}
			return nil
		}
		if ref.IsReadOnly() {
			return s.readOnly(name)
		}
	}
	if ref == nil || !own {
		var err error
		if ref, err = s.SetProperty(obj, name); err != nil {
			return err
		}
	}
	if ref != nil {
		if ref.IsReadOnly() {
			return s.readOnly(name)
		}
		ref.Value = v
	}
	return nil
}

func (s *State) readOnly(name string) error {
	if s.config.Strict {
		return s.TypeErrorf("'%s' is read-only", name)
	}
	return nil
}

// DefineProperty creates or updates the own data property name with value
// v. attrs are added to any attributes the property already has.
func (s *State) DefineProperty(obj *Object, name string, v Value, attrs Attr) error {
	ref, err := s.defineTarget(obj, name, v)
	if ref == nil || err != nil {
		return err
	}
	if ref.IsReadOnly() {
		return s.readOnly(name)
	}
	ref.Value = v
	ref.Getter, ref.Setter = nil, nil
	ref.Attrs |= attrs
	return nil
}

// DefineAccessor installs a getter and/or setter on the own property name.
// Either may be nil; a non-nil accessor must be callable.
func (s *State) DefineAccessor(obj *Object, name string, getter, setter *Object, attrs Attr) error {
	if getter != nil && !getter.IsCallable() {
		return s.TypeErrorf("getter is not callable")
	}
	if setter != nil && !setter.IsCallable() {
		return s.TypeErrorf("setter is not callable")
	}
	ref, err := s.defineTarget(obj, name, Undefined)
	if ref == nil || err != nil {
		return err
	}
	ref.Value = Undefined
	if getter != nil {
		ref.Getter = getter
	}
	if setter != nil {
		ref.Setter = setter
	}
	ref.Attrs |= attrs
	return nil
}

// defineTarget applies the class rules shared by the define operations and
// returns the own slot to update, or nil when the definition is refused or
// handled elsewhere.
func (s *State) defineTarget(obj *Object, name string, v Value) (*Property, error) {
	switch obj.class {
	case ClassArray:
		if name == "length" {
			return nil, s.readOnly(name)
		}
		if k, ok := IsArrayIndex(name); ok && k >= obj.length {
			obj.length = k + 1
		}
	case ClassString:
		if name == "length" {
			return nil, s.readOnly(name)
		}
		if k, ok := IsArrayIndex(name); ok && k < obj.str.length {
			return nil, s.readOnly(name)
		}
	case ClassRegExp:
		if regexpProps[name] {
			return nil, s.readOnly(name)
		}
	case ClassUserData:
		if obj.user.Put != nil {
			handled, err := obj.user.Put(s, obj.user.Data, name, v)
			if err != nil || handled {
				return nil, err
			}
		}
	}
	return s.SetProperty(obj, name)
}

// DeleteValue implements the delete operator. It reports whether the
// property is gone afterwards; non-configurable properties stay and raise
// a TypeError in strict mode.
func (s *State) DeleteValue(obj *Object, name string) (bool, error) {
	switch obj.class {
	case ClassArray:
		if name == "length" {
			return false, s.nonConfigurable(name)
		}
	case ClassString:
		if name == "length" {
			return false, s.nonConfigurable(name)
		}
		if k, ok := IsArrayIndex(name); ok && k < obj.str.length {
			return false, s.nonConfigurable(name)
		}
	case ClassRegExp:
		if regexpProps[name] {
			return false, s.nonConfigurable(name)
		}
	case ClassUserData:
		if obj.user.Delete != nil {
			handled, err := obj.user.Delete(s, obj.user.Data, name)
			if err != nil {
				return false, err
			}
			if handled {
				return true, nil
			}
		}
	}
	if ref := s.GetOwnProperty(obj, name); ref != nil {
		if !ref.IsConfigurable() {
			return false, s.nonConfigurable(name)
		}
		s.DeleteProperty(obj, name)
	}
	return true, nil
}

func (s *State) nonConfigurable(name string) error {
	if s.config.Strict {
		return s.TypeErrorf("'%s' is non-configurable", name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Prototypes and extensibility
// ---------------------------------------------------------------------------

// GetPrototypeOf returns the prototype of obj, or nil.
func (s *State) GetPrototypeOf(obj *Object) *Object {
	return s.heap.Get(obj.proto)
}

// SetPrototypeOf replaces the prototype of obj. A nil proto clears it.
// Links that would make the chain cyclic are refused.
func (s *State) SetPrototypeOf(obj, proto *Object) error {
	if proto == nil {
		obj.proto = NoHandle
		return nil
	}
	if !obj.extensible {
		return s.TypeErrorf("object is non-extensible")
	}
	if s.walkChain(proto, func(o *Object) bool { return o != obj }) != nil {
		return s.TypeErrorf("cyclic prototype value")
	}
	obj.proto = proto.handle
	return nil
}

// IsPrototypeOf reports whether proto appears on the prototype chain of
// obj, excluding obj itself.
func (s *State) IsPrototypeOf(proto, obj *Object) bool {
	first := s.heap.Get(obj.proto)
	if first == nil {
		return false
	}
	return s.walkChain(first, func(o *Object) bool { return o != proto }) != nil
}

// InstanceOf implements the instanceof operator.
func (s *State) InstanceOf(v, ctor Value) (bool, error) {
	if ctor.kind != KindObject || !ctor.obj.IsCallable() {
		return false, s.TypeErrorf("instanceof: invalid operand")
	}
	if v.kind != KindObject {
		return false, nil
	}
	pv, err := s.GetValue(ctor.obj, "prototype")
	if err != nil {
		return false, err
	}
	if pv.kind != KindObject {
		return false, s.TypeErrorf("instanceof: 'prototype' property is not an object")
	}
	return s.IsPrototypeOf(pv.obj, v.obj), nil
}

// SetExtensible toggles whether new properties may be added. The core does
// not forbid re-enabling extension; policy belongs to the caller.
func (obj *Object) SetExtensible(b bool) { obj.extensible = b }

// PreventExtensions stops new properties from being added to obj.
func (s *State) PreventExtensions(obj *Object) { obj.extensible = false }

// Seal prevents extensions and makes every own property non-configurable.
func (s *State) Seal(obj *Object) {
	obj.extensible = false
	obj.props.each(func(p *Property) bool {
		p.Attrs |= DontConf
		return true
	})
}

// Freeze seals obj and makes every own data property read-only.
func (s *State) Freeze(obj *Object) {
	obj.extensible = false
	obj.props.each(func(p *Property) bool {
		p.Attrs |= DontConf
		if !p.IsAccessor() {
			p.Attrs |= ReadOnly
		}
		return true
	})
}

// IsSealed reports whether obj is non-extensible with only
// non-configurable own properties.
func (s *State) IsSealed(obj *Object) bool {
	if obj.extensible {
		return false
	}
	sealed := true
	obj.props.each(func(p *Property) bool {
		sealed = !p.IsConfigurable()
		return sealed
	})
	return sealed
}

// IsFrozen reports whether obj is sealed and every own data property is
// read-only.
func (s *State) IsFrozen(obj *Object) bool {
	if !s.IsSealed(obj) {
		return false
	}
	frozen := true
	obj.props.each(func(p *Property) bool {
		frozen = p.IsAccessor() || p.IsReadOnly()
		return frozen
	})
	return frozen
}

// ---------------------------------------------------------------------------
// Type names
// ---------------------------------------------------------------------------

// ResolveTypeName returns a human-readable constructor name for v: the name
// of a native function, the name of a compiled function (or key when it is
// anonymous), or for plain objects the name resolved through the nearest
// constructor property. Primitives give "".
func (s *State) ResolveTypeName(v Value, key string) string {
	return s.resolveTypeName(v, key, s.heap.Len()+1)
}

func (s *State) resolveTypeName(v Value, key string, depth int) string {
	if v.kind != KindObject {
		return ""
	}
	obj := v.obj
	switch obj.class {
	case ClassNativeFunction:
		return either(obj.native.Name, "constructor")
	case ClassFunction:
		return either(either(obj.function.Name, key), "function")
	case ClassObject:
		if depth == 0 {
			break
		}
		var ctor *Property
		s.walkChain(obj, func(o *Object) bool {
			ctor = s.GetOwnProperty(o, "constructor")
			return ctor == nil
		})
		if ctor != nil {
			return s.resolveTypeName(ctor.Value, ctor.Name(), depth-1)
		}
	}
	return "Object"
}

func either(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// ClassName returns the [object Class] tag of v used by
// Object.prototype.toString.
func ClassName(v Value) string {
	switch v.kind {
	case KindUndefined:
		return "[object Undefined]"
	case KindNull:
		return "[object Null]"
	case KindBoolean:
		return "[object Boolean]"
	case KindNumber:
		return "[object Number]"
	case KindObject:
	default:
		return "[object String]"
	}
	obj := v.obj
	switch obj.class {
	case ClassScript, ClassNativeFunction:
		return "[object Function]"
	case ClassIterator:
		return "[Iterator]"
	case ClassUserData:
		return "[object " + obj.user.Tag + "]"
	}
	return "[object " + obj.class.String() + "]"
}
