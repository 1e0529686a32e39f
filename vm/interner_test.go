package vm

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
)

func TestInternIdempotent(t *testing.T) {
	in := NewInterner()
	inputs := []string{"", "a", "foo", "héllo", "世界", strings.Repeat("x", 1000)}
	for _, s := range inputs {
		a := in.Intern(s)
		b := in.Intern(s)
		if a != b {
			t.Errorf("Intern(%q) returned different nodes", s)
		}
		if a.String() != s {
			t.Errorf("Intern(%q).String() = %q", s, a.String())
		}
	}
	if in.Len() != len(inputs) {
		t.Errorf("Len() = %d, want %d", in.Len(), len(inputs))
	}
}

func TestInternDistinct(t *testing.T) {
	in := NewInterner()
	a := in.Intern("abc")
	b := in.Intern("abd")
	c := in.Intern("ab")
	if a == b || a == c || b == c {
		t.Error("distinct content must map to distinct nodes")
	}
}

func TestInternFooBarFoo(t *testing.T) {
	in := NewInterner()
	first := in.Intern("foo")
	in.Intern("bar")
	second := in.Intern("foo")
	if first != second {
		t.Error("both Intern(\"foo\") calls should return the same node")
	}
	if in.Len() != 2 {
		t.Errorf("Len() = %d, want 2", in.Len())
	}
}

func TestInternClassification(t *testing.T) {
	tests := []struct {
		s       string
		size    int
		length  int
		unicode bool
	}{
		{"", 0, 0, false},
		{"ascii", 5, 5, false},
		{"héllo", 6, 5, true},
		{"世界", 6, 2, true},
		{"a\xffb", 3, 3, true},
	}
	in := NewInterner()
	for _, tt := range tests {
		n := in.Intern(tt.s)
		if n.Size() != tt.size || n.Length() != tt.length || n.IsUnicode() != tt.unicode {
			t.Errorf("Intern(%q) = size %d length %d unicode %v, want %d %d %v",
				tt.s, n.Size(), n.Length(), n.IsUnicode(), tt.size, tt.length, tt.unicode)
		}
	}
}

func TestInternStaysBalanced(t *testing.T) {
	in := NewInterner()
	const n = 4096
	// Sorted insertion is the worst case for an unbalanced tree.
	for i := 0; i < n; i++ {
		in.Intern(fmt.Sprintf("key%06d", i))
	}
	if in.Len() != n {
		t.Fatalf("Len() = %d, want %d", in.Len(), n)
	}
	// 2*log2(4097) is just over 24.
	if h := in.Height(); h > 25 {
		t.Errorf("Height() = %d, tree is not balanced", h)
	}
}

func TestInternWalkInOrder(t *testing.T) {
	in := NewInterner()
	words := []string{"pear", "apple", "fig", "banana", "cherry", "apple"}
	for _, w := range words {
		in.Intern(w)
	}
	var got []string
	in.Walk(func(n *StringNode) bool {
		got = append(got, n.String())
		return true
	})
	want := []string{"apple", "banana", "cherry", "fig", "pear"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestInternLookup(t *testing.T) {
	in := NewInterner()
	n := in.Intern("present")
	if in.Lookup("present") != n {
		t.Error("Lookup should find an interned string")
	}
	if in.Lookup("absent") != nil {
		t.Error("Lookup should not find a missing string")
	}
	if in.Len() != 1 {
		t.Errorf("Lookup must not insert: Len() = %d", in.Len())
	}
}

func TestInternDumpAndReset(t *testing.T) {
	in := NewInterner()
	in.Intern("b")
	in.Intern("a")
	in.Intern("c")
	var buf bytes.Buffer
	if err := in.Dump(&buf); err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	for _, s := range []string{`"a"`, `"b"`, `"c"`} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("Dump() output missing %s:\n%s", s, buf.String())
		}
	}
	if in.Bytes() == 0 {
		t.Error("Bytes() should be non-zero after interning")
	}

	in.Reset()
	if in.Len() != 0 || in.Bytes() != 0 {
		t.Errorf("after Reset: Len() = %d, Bytes() = %d", in.Len(), in.Bytes())
	}
	if in.Lookup("a") != nil {
		t.Error("Reset should drop every node")
	}
}

func TestOwnedStringNotInterned(t *testing.T) {
	s := NewState()
	before := s.Interner().Len()
	node := NewOwnedString("a transient concatenation result")
	if !node.Owned() {
		t.Error("NewOwnedString node should report Owned()")
	}
	if s.Interner().Len() != before {
		t.Error("owned strings must not enter the interner")
	}
	if s.Interner().Lookup(node.String()) != nil {
		t.Error("owned content should not be found by Lookup")
	}
}
