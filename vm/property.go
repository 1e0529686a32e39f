package vm

// Attr is a property attribute bitmask. The zero value is writable,
// enumerable and configurable.
type Attr uint8

const (
	ReadOnly Attr = 1 << iota
	DontEnum
	DontConf
)

// Property is one named slot of an object. A property holds either a plain
// value or a getter/setter pair, never both.
type Property struct {
	name   *StringNode
	hash   uint64
	Value  Value
	Getter *Object
	Setter *Object
	Attrs  Attr

	chain *Property
	dead  bool
}

// Name returns the property name.
func (p *Property) Name() string { return p.name.s }

// NameNode returns the interned name node.
func (p *Property) NameNode() *StringNode { return p.name }

// Hash returns the key the property is stored under.
func (p *Property) Hash() uint64 { return p.hash }

// IsAccessor reports whether the property has a getter or a setter.
func (p *Property) IsAccessor() bool { return p.Getter != nil || p.Setter != nil }

func (p *Property) IsReadOnly() bool     { return p.Attrs&ReadOnly != 0 }
func (p *Property) IsEnumerable() bool   { return p.Attrs&DontEnum == 0 }
func (p *Property) IsConfigurable() bool { return p.Attrs&DontConf == 0 }

// ---------------------------------------------------------------------------
// Primitive lookups
// ---------------------------------------------------------------------------

func (s *State) newProperty(obj *Object, name string, hash uint64) *Property {
	p := &Property{
		name: s.strings.Intern(name),
		hash: hash,
	}
	obj.props.insert(p)
	obj.count++
	return p
}

// GetOwnProperty looks name up on obj only.
func (s *State) GetOwnProperty(obj *Object, name string) *Property {
	return obj.props.find(HashName(name), name)
}

// GetProperty looks name up on obj and then along its prototype chain.
// The returned slot belongs to whichever object in the chain owns it.
func (s *State) GetProperty(obj *Object, name string) *Property {
	p, _ := s.GetPropertyX(obj, name)
	return p
}

// GetPropertyX is GetProperty that also reports whether the slot is an own
// property of obj.
func (s *State) GetPropertyX(obj *Object, name string) (*Property, bool) {
	hash := HashName(name)
	found := s.walkChain(obj, func(o *Object) bool {
		return o.props.find(hash, name) == nil
	})
	if found == nil {
		return nil, false
	}
	return found.props.find(hash, name), found == obj
}

// GetEnumerableProperty is GetProperty that passes over non-enumerable
// matches and keeps searching further up the chain.
func (s *State) GetEnumerableProperty(obj *Object, name string) *Property {
	hash := HashName(name)
	var ref *Property
	s.walkChain(obj, func(o *Object) bool {
		p := o.props.find(hash, name)
		if p != nil && p.IsEnumerable() {
			ref = p
			return false
		}
		return true
	})
	return ref
}

// SetProperty returns the own slot for name, creating it with default
// attributes when obj is extensible. On a non-extensible object only an
// existing own property is returned; a missing one yields nil, or a
// TypeError in strict mode.
func (s *State) SetProperty(obj *Object, name string) (*Property, error) {
	hash := HashName(name)
	p := obj.props.find(hash, name)
	if !obj.extensible {
		if p == nil && s.config.Strict {
			return nil, s.TypeErrorf("object is non-extensible")
		}
		return p, nil
	}
	if p != nil {
		return p, nil
	}
	return s.newProperty(obj, name, hash), nil
}

// DeleteProperty removes the own property name. Configurability is not
// checked here.
func (s *State) DeleteProperty(obj *Object, name string) {
	if obj.props.remove(HashName(name), name) {
		obj.count--
	}
}

// walkChain calls visit on obj and each prototype in turn until visit
// returns false, and returns the object it stopped at. The walk is bounded
// by the number of live objects, so a cyclic chain ends as "not found".
func (s *State) walkChain(obj *Object, visit func(*Object) bool) *Object {
	if obj == nil {
		panic("vm: property lookup on nil object")
	}
	limit := s.heap.Len() + 1
	for o := obj; o != nil; o = s.heap.Get(o.proto) {
		if limit == 0 {
			s.log.Warningf("prototype chain of %s object does not terminate", obj.class)
			return nil
		}
		limit--
		if !visit(o) {
			return o
		}
	}
	return nil
}
