package vm

// iterState is the payload of an iterator object: a snapshot of names
// taken at creation, consumed front to back.
type iterState struct {
	target *Object
	names  []*StringNode
	pos    int
}

// NewIterator snapshots the enumerable property names of obj. With own set
// only obj's own properties are listed; otherwise the whole prototype chain
// is flattened. A name defined on a more-derived object hides the same name
// further up the chain, even when the derived property is not enumerable, so
// every name is listed at most once. Names appear derived-first, each level
// in insertion order. String objects also list their character indices.
func (s *State) NewIterator(obj *Object, own bool) *Object {
	st := &iterState{target: obj}
	seen := make(map[*StringNode]struct{})
	collect := func(o *Object) bool {
		o.props.each(func(p *Property) bool {
			if _, dup := seen[p.name]; dup {
				return true
			}
			seen[p.name] = struct{}{}
			if p.IsEnumerable() {
				st.names = append(st.names, p.name)
			}
			return true
		})
		return true
	}
	if own {
		collect(obj)
	} else {
		s.walkChain(obj, collect)
	}

	if obj.class == ClassString {
		for k := 0; k < obj.str.length; k++ {
			name := s.strings.Intern(Itoa(k))
			if _, dup := seen[name]; !dup {
				st.names = append(st.names, name)
			}
		}
	}

	it := s.NewObjectWithProto(ClassIterator, nil)
	it.iter = st
	return it
}

// NextIterator returns the next name that still resolves on the target.
// Names deleted since the snapshot are skipped. ok is false once the
// iterator is exhausted.
func (s *State) NextIterator(it *Object) (name string, ok bool, err error) {
	if it.class != ClassIterator {
		return "", false, s.TypeErrorf("not an iterator")
	}
	st := it.iter
	for st.pos < len(st.names) {
		node := st.names[st.pos]
		st.pos++
		if s.GetProperty(st.target, node.s) != nil {
			return node.s, true, nil
		}
		if st.target.class == ClassString {
			if k, isIndex := IsArrayIndex(node.s); isIndex && k < st.target.str.length {
				return node.s, true, nil
			}
		}
	}
	return "", false, nil
}

// Keys drains a fresh iterator over obj and returns every name.
func (s *State) Keys(obj *Object, own bool) []string {
	it := s.NewIterator(obj, own)
	defer s.heap.Free(s, it.handle)
	var keys []string
	for {
		name, ok, _ := s.NextIterator(it)
		if !ok {
			return keys
		}
		keys = append(keys, name)
	}
}
