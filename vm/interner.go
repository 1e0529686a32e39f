package vm

import (
	"fmt"
	"io"
	"strings"
	"unsafe"
)

// Interner deduplicates string content. Every distinct content maps to one
// StringNode for the interner's lifetime, so interned names can be compared
// by pointer.
//
// The store is an AA tree. Each interner has its own level-0 sentinel that
// stands in for every empty child, so "has a child" is simply level != 0.
type Interner struct {
	sentinel *StringNode
	root     *StringNode
	count    int
	bytes    int
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	in := &Interner{}
	in.sentinel = &StringNode{}
	in.sentinel.left = in.sentinel
	in.sentinel.right = in.sentinel
	in.root = in.sentinel
	return in
}

// Intern returns the canonical node for s, inserting it on first use.
func (in *Interner) Intern(s string) *StringNode {
	var found *StringNode
	in.root = in.insert(in.root, s, &found)
	return found
}

// Lookup returns the canonical node for s without inserting, or nil.
func (in *Interner) Lookup(s string) *StringNode {
	node := in.root
	for node != in.sentinel {
		switch c := strings.Compare(s, node.s); {
		case c < 0:
			node = node.left
		case c > 0:
			node = node.right
		default:
			return node
		}
	}
	return nil
}

func skew(node *StringNode) *StringNode {
	if node.left.level == node.level {
		tmp := node
		node = node.left
		tmp.left = node.right
		node.right = tmp
	}
	return node
}

func split(node *StringNode) *StringNode {
	if node.right.right.level == node.level {
		tmp := node
		node = node.right
		tmp.right = node.left
		node.left = tmp
		node.level++
	}
	return node
}

func (in *Interner) insert(node *StringNode, s string, found **StringNode) *StringNode {
	if node == in.sentinel {
		n := newStringNode(s, in.sentinel)
		in.count++
		in.bytes += int(unsafe.Sizeof(*n)) + len(s)
		*found = n
		return n
	}
	switch c := strings.Compare(s, node.s); {
	case c < 0:
		node.left = in.insert(node.left, s, found)
	case c > 0:
		node.right = in.insert(node.right, s, found)
	default:
		*found = node
		return node
	}
	node = skew(node)
	node = split(node)
	return node
}

// Len returns the number of distinct strings.
func (in *Interner) Len() int { return in.count }

// Bytes returns the approximate memory held by interned nodes.
func (in *Interner) Bytes() int { return in.bytes }

// Walk visits every node in content order. Returning false stops the walk.
func (in *Interner) Walk(fn func(*StringNode) bool) {
	in.walk(in.root, fn)
}

func (in *Interner) walk(node *StringNode, fn func(*StringNode) bool) bool {
	if node == in.sentinel {
		return true
	}
	return in.walk(node.left, fn) && fn(node) && in.walk(node.right, fn)
}

// Height returns the tree height. An AA tree of n nodes stays within
// 2*log2(n+1).
func (in *Interner) Height() int {
	return in.height(in.root)
}

func (in *Interner) height(node *StringNode) int {
	if node == in.sentinel {
		return 0
	}
	return 1 + max(in.height(node.left), in.height(node.right))
}

// Dump writes the tree, one node per line, indented by depth.
func (in *Interner) Dump(w io.Writer) error {
	return in.dump(w, in.root, 0)
}

func (in *Interner) dump(w io.Writer, node *StringNode, depth int) error {
	if node == in.sentinel {
		return nil
	}
	if err := in.dump(w, node.left, depth+1); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s(%d) %q\n", strings.Repeat("  ", depth), node.level, node.s); err != nil {
		return err
	}
	return in.dump(w, node.right, depth+1)
}

// Reset drops every interned node. Nodes already handed out stay valid as
// values but are no longer canonical.
func (in *Interner) Reset() {
	in.root = in.sentinel
	in.count = 0
	in.bytes = 0
}
