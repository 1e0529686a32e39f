package vm

import "unicode/utf8"

// StringNode holds immutable string content. Interned nodes live in the
// Interner's tree for the lifetime of the interner; owned nodes are created
// by NewOwnedString, never enter the tree, and belong to exactly one value or
// String object.
type StringNode struct {
	left, right *StringNode
	level       int
	s           string
	size        int // bytes
	length      int // code points
	unicode     bool
	owned       bool
}

// String returns the node's content.
func (n *StringNode) String() string { return n.s }

// Size returns the byte size.
func (n *StringNode) Size() int { return n.size }

// Length returns the code-point count.
func (n *StringNode) Length() int { return n.length }

// IsUnicode reports whether the content contains non-ASCII bytes.
func (n *StringNode) IsUnicode() bool { return n.unicode }

// Owned reports whether the node was created outside the interner.
func (n *StringNode) Owned() bool { return n.owned }

// classify scans s once and returns its byte size, its code-point length
// and whether any byte is outside ASCII. Invalid sequences count one code
// point per byte; nothing is validated.
func classify(s string) (size, length int, unicode bool) {
	size = len(s)
	for i := 0; i < size; {
		c := s[i]
		if c < utf8.RuneSelf {
			i++
		} else {
			_, w := utf8.DecodeRuneInString(s[i:])
			i += w
			unicode = true
		}
		length++
	}
	return size, length, unicode
}

func newStringNode(s string, sentinel *StringNode) *StringNode {
	size, length, unicode := classify(s)
	return &StringNode{
		left:    sentinel,
		right:   sentinel,
		level:   1,
		s:       s,
		size:    size,
		length:  length,
		unicode: unicode,
	}
}

// NewOwnedString builds a node that is not interned. Use it for transient
// content such as concatenation results and formatted numbers, which would
// otherwise accumulate in the interner forever.
func NewOwnedString(s string) *StringNode {
	n := newStringNode(s, nil)
	n.level = 0
	n.owned = true
	return n
}

// NewStringValue returns the cheapest Value holding s: inline when it fits,
// otherwise an owned mem string.
func NewStringValue(s string) Value {
	if v, ok := FromShortString(s); ok {
		return v
	}
	return FromOwned(NewOwnedString(s))
}
