package vm

import "testing"

func TestHeapFreeListReuse(t *testing.T) {
	s := NewState()
	h := s.Heap()
	live := h.Len()
	obj := s.NewObject()
	hd := obj.Handle()
	if h.Get(hd) != obj || h.Len() != live+1 {
		t.Fatalf("Get(%d) = %v, Len() = %d", hd, h.Get(hd), h.Len())
	}

	h.Free(s, hd)
	if h.Get(hd) != nil {
		t.Error("a freed handle should resolve to nil")
	}
	if h.Len() != live {
		t.Errorf("Len() = %d after Free, want %d", h.Len(), live)
	}
	h.Free(s, hd)

	again := s.NewObject()
	if again.Handle() != hd {
		t.Errorf("new object handle = %d, want reused %d", again.Handle(), hd)
	}
	if h.Get(NoHandle) != nil || h.Get(Handle(1<<30)) != nil {
		t.Error("out-of-range handles should resolve to nil")
	}
}

func TestHeapMarks(t *testing.T) {
	s := NewState()
	h := s.Heap()
	a, b := s.NewObject(), s.NewObject()
	h.Mark(a.Handle())
	if !h.Marked(a.Handle()) || h.Marked(b.Handle()) {
		t.Error("only a should be marked")
	}

	for _, obj := range []*Object{a, b} {
		if !h.Marked(obj.Handle()) {
			h.Free(s, obj.Handle())
		}
	}
	if h.Get(b.Handle()) != nil || h.Get(a.Handle()) != a {
		t.Error("sweep should free b and keep a")
	}

	h.ClearMarks()
	if h.Marked(a.Handle()) {
		t.Error("ClearMarks should reset every mark")
	}
}

func TestHeapWalkCountsLive(t *testing.T) {
	s := NewState()
	h := s.Heap()
	s.NewArray()
	n := 0
	h.Walk(func(Handle, *Object) bool {
		n++
		return true
	})
	if n != h.Len() {
		t.Errorf("Walk visited %d objects, Len() = %d", n, h.Len())
	}
	if h.Allocated() < uint64(n) {
		t.Errorf("Allocated() = %d, want at least %d", h.Allocated(), n)
	}
}

func TestHeapFunctions(t *testing.T) {
	h := NewState().Heap()
	f, g := &Function{Name: "f"}, &Function{Name: "g"}
	h.AddFunction(f)
	h.AddFunction(g)
	h.MarkFunction(f)
	if !h.FunctionMarked(f) || h.FunctionMarked(g) {
		t.Error("only f should be marked")
	}
	h.FreeFunction(g)
	if fns := h.Functions(); len(fns) != 1 || fns[0] != f {
		t.Errorf("Functions() = %v, want [f]", fns)
	}
	h.ClearMarks()
	if h.FunctionMarked(f) {
		t.Error("ClearMarks should reset function marks")
	}
}

func TestStateCloseFinalizes(t *testing.T) {
	s := NewState()
	finalized := 0
	for i := 0; i < 3; i++ {
		s.NewUserData(nil, UserData{Tag: "T", Finalize: func(*State, any) { finalized++ }})
	}
	s.Intern("some name")
	s.Close()
	if finalized != 3 {
		t.Errorf("finalizers ran %d times, want 3", finalized)
	}
	if s.Heap().Len() != 0 || s.Interner().Len() != 0 {
		t.Errorf("after Close: %d objects, %d strings", s.Heap().Len(), s.Interner().Len())
	}
}

func TestStateIdentity(t *testing.T) {
	a, b := NewState(), NewState()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("state IDs %q and %q should be unique", a.ID(), b.ID())
	}
}
