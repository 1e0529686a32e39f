package vm

import "github.com/zeebo/xxh3"

// HashName returns the 64-bit key a property name is stored under.
func HashName(name string) uint64 {
	return xxh3.HashString(name)
}

// PropertyTable stores an object's own properties keyed by name hash.
// Traversal follows insertion order; a removed name that is added again
// goes to the end.
type PropertyTable struct {
	index map[uint64]*Property // collision chain through Property.chain
	order []*Property
	live  int
}

// find returns the property named name, or nil.
func (t *PropertyTable) find(hash uint64, name string) *Property {
	for p := t.index[hash]; p != nil; p = p.chain {
		if p.name.s == name {
			return p
		}
	}
	return nil
}

// insert adds p. The caller has checked that the name is absent.
func (t *PropertyTable) insert(p *Property) *Property {
	if t.index == nil {
		t.index = make(map[uint64]*Property, 8)
	}
	p.chain = t.index[p.hash]
	t.index[p.hash] = p
	t.order = append(t.order, p)
	t.live++
	return p
}

// remove deletes the property named name and reports whether it existed.
func (t *PropertyTable) remove(hash uint64, name string) bool {
	var prev *Property
	for p := t.index[hash]; p != nil; prev, p = p, p.chain {
		if p.name.s != name {
			continue
		}
		switch {
		case prev != nil:
			prev.chain = p.chain
		case p.chain != nil:
			t.index[hash] = p.chain
		default:
			delete(t.index, hash)
		}
		p.chain = nil
		p.dead = true
		t.live--
		t.compact()
		return true
	}
	return false
}

// compact rebuilds the order slice once tombstones dominate it. A fresh
// slice is allocated so a traversal already in progress keeps its view.
func (t *PropertyTable) compact() {
	if len(t.order) < 16 || t.live*2 > len(t.order) {
		return
	}
	order := make([]*Property, 0, t.live)
	for _, p := range t.order {
		if !p.dead {
			order = append(order, p)
		}
	}
	t.order = order
}

// count returns the number of live properties.
func (t *PropertyTable) count() int { return t.live }

// each visits live properties in insertion order. Properties removed during
// the walk are skipped; properties added during the walk are not visited.
// Returning false stops the walk.
func (t *PropertyTable) each(fn func(*Property) bool) {
	order := t.order
	for _, p := range order {
		if p.dead {
			continue
		}
		if !fn(p) {
			return
		}
	}
}
