package vm

// Handle is a non-owning reference to an object in a Heap. The zero Handle
// refers to nothing.
type Handle uint32

// NoHandle is the empty reference.
const NoHandle Handle = 0

// Heap is the arena that owns every object of a State. A collector walks the
// arena, sets mark bits from its roots, and frees what stays unmarked; the
// heap itself never decides what is garbage.
type Heap struct {
	objects   []*Object // index 0 unused
	marks     []bool
	free      []Handle
	functions []*Function
	fmarks    map[*Function]bool
	allocated uint64
}

func newHeap() *Heap {
	return &Heap{
		objects: make([]*Object, 1, 64),
		marks:   make([]bool, 1, 64),
		fmarks:  make(map[*Function]bool),
	}
}

// alloc registers obj and assigns its handle.
func (h *Heap) alloc(obj *Object) Handle {
	var hd Handle
	if n := len(h.free); n > 0 {
		hd = h.free[n-1]
		h.free = h.free[:n-1]
		h.objects[hd] = obj
		h.marks[hd] = false
	} else {
		hd = Handle(len(h.objects))
		h.objects = append(h.objects, obj)
		h.marks = append(h.marks, false)
	}
	obj.handle = hd
	h.allocated++
	return hd
}

// Get resolves a handle. It returns nil for NoHandle or a freed slot.
func (h *Heap) Get(hd Handle) *Object {
	if hd == NoHandle || int(hd) >= len(h.objects) {
		return nil
	}
	return h.objects[hd]
}

// Mark sets the mark bit of the object at hd.
func (h *Heap) Mark(hd Handle) {
	if h.Get(hd) != nil {
		h.marks[hd] = true
	}
}

// Marked reports the mark bit of the object at hd.
func (h *Heap) Marked(hd Handle) bool {
	return h.Get(hd) != nil && h.marks[hd]
}

// ClearMarks resets every mark bit, objects and functions alike.
func (h *Heap) ClearMarks() {
	for i := range h.marks {
		h.marks[i] = false
	}
	clear(h.fmarks)
}

// Walk visits every live object in allocation-slot order.
// Returning false stops the walk.
func (h *Heap) Walk(fn func(Handle, *Object) bool) {
	for i := 1; i < len(h.objects); i++ {
		if obj := h.objects[i]; obj != nil {
			if !fn(Handle(i), obj) {
				return
			}
		}
	}
}

// Free releases the object at hd and runs its user-data finalizer. Handles
// to a freed object resolve to nil until the slot is reused.
func (h *Heap) Free(s *State, hd Handle) {
	obj := h.Get(hd)
	if obj == nil {
		return
	}
	if obj.class == ClassUserData && obj.user != nil && obj.user.Finalize != nil {
		obj.user.Finalize(s, obj.user.Data)
	}
	h.objects[hd] = nil
	h.marks[hd] = false
	h.free = append(h.free, hd)
}

// Len returns the number of live objects.
func (h *Heap) Len() int {
	return len(h.objects) - 1 - len(h.free)
}

// Allocated returns the number of objects ever allocated.
func (h *Heap) Allocated() uint64 { return h.allocated }

// ---------------------------------------------------------------------------
// Compiled functions
// ---------------------------------------------------------------------------

// AddFunction registers a compiled function with the collector hooks.
func (h *Heap) AddFunction(fn *Function) {
	h.functions = append(h.functions, fn)
	h.allocated++
}

// MarkFunction sets the mark bit of fn.
func (h *Heap) MarkFunction(fn *Function) { h.fmarks[fn] = true }

// FunctionMarked reports the mark bit of fn.
func (h *Heap) FunctionMarked(fn *Function) bool { return h.fmarks[fn] }

// Functions returns every registered function.
func (h *Heap) Functions() []*Function { return h.functions }

// FreeFunction drops fn from the registry.
func (h *Heap) FreeFunction(fn *Function) {
	for i, f := range h.functions {
		if f == fn {
			h.functions = append(h.functions[:i], h.functions[i+1:]...)
			delete(h.fmarks, fn)
			return
		}
	}
}
