package vm

// DefaultSparseArrayFactor is the default ratio of array length to live
// property count above which an array counts as sparse.
const DefaultSparseArrayFactor = 2

// ResizeArray sets the length of an array, deleting every own index
// property at or beyond the new length when it shrinks.
//
// Two strategies produce the same result. A sparse array (length greater
// than factor times its property count) visits the properties it actually
// has and deletes the qualifying indices. A dense array deletes each index
// in [newLen, oldLen) directly.
func (s *State) ResizeArray(obj *Object, newLen int) {
	if obj.class != ClassArray {
		panic("State.ResizeArray: not an array")
	}
	if newLen < obj.length {
		if obj.length > s.config.SparseArrayFactor*obj.count {
			obj.props.each(func(p *Property) bool {
				if k, ok := IsArrayIndex(p.name.s); ok && k >= newLen {
					s.DeleteProperty(obj, p.name.s)
				}
				return true
			})
		} else {
			for k := newLen; k < obj.length; k++ {
				s.DeleteProperty(obj, Itoa(k))
			}
		}
	}
	obj.length = newLen
}
