package blob

import (
	"fmt"

	"github.com/chazu/jscore/vm"
	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("blob: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Description is a structural summary of a function tree. Its canonical
// CBOR encoding depends only on the tree, so equal trees describe to equal
// bytes.
type Description struct {
	Name         string        `cbor:"name,omitempty"`
	Filename     string        `cbor:"file,omitempty"`
	Line         int           `cbor:"line,omitempty"`
	LastLine     int           `cbor:"lastline,omitempty"`
	Script       bool          `cbor:"script,omitempty"`
	Lightweight  bool          `cbor:"lightweight,omitempty"`
	Strict       bool          `cbor:"strict,omitempty"`
	Arguments    bool          `cbor:"arguments,omitempty"`
	NumParams    int           `cbor:"params"`
	Numbers      []float64     `cbor:"nums,omitempty"`
	Strings      []string      `cbor:"strs,omitempty"`
	Vars         []string      `cbor:"vars,omitempty"`
	Instructions int           `cbor:"code"`
	Functions    []Description `cbor:"funs,omitempty"`
}

// Describe summarizes fn and its nested functions.
func Describe(fn *vm.Function) Description {
	d := Description{
		Name:         fn.Name,
		Filename:     fn.Filename,
		Line:         fn.Line,
		LastLine:     fn.LastLine,
		Script:       fn.Script,
		Lightweight:  fn.Lightweight,
		Strict:       fn.Strict,
		Arguments:    fn.Arguments,
		NumParams:    fn.NumParams,
		Numbers:      fn.Nums,
		Strings:      fn.Strs,
		Vars:         fn.Vars,
		Instructions: len(fn.Code),
	}
	for _, child := range fn.Funs {
		d.Functions = append(d.Functions, Describe(child))
	}
	return d
}

// MarshalDescription encodes the description of fn as canonical CBOR.
func MarshalDescription(fn *vm.Function) ([]byte, error) {
	return cborEncMode.Marshal(Describe(fn))
}

// UnmarshalDescription decodes a description produced by MarshalDescription.
func UnmarshalDescription(data []byte) (*Description, error) {
	var d Description
	if err := cbor.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("blob: unmarshal description: %w", err)
	}
	return &d, nil
}

// Stats totals a function tree.
type Stats struct {
	Functions    int
	Instructions int
	Numbers      int
	Strings      int
	MaxDepth     int
}

// Walk visits fn and every nested function depth-first, parents before
// children. Returning false skips the children of that function.
func Walk(fn *vm.Function, visit func(fn *vm.Function, depth int) bool) {
	walk(fn, 0, visit)
}

func walk(fn *vm.Function, depth int, visit func(*vm.Function, int) bool) {
	if !visit(fn, depth) {
		return
	}
	for _, child := range fn.Funs {
		walk(child, depth+1, visit)
	}
}

// Measure computes the Stats of a function tree.
func Measure(fn *vm.Function) Stats {
	var st Stats
	Walk(fn, func(f *vm.Function, depth int) bool {
		st.Functions++
		st.Instructions += len(f.Code)
		st.Numbers += len(f.Nums)
		st.Strings += len(f.Strs)
		st.MaxDepth = max(st.MaxDepth, depth)
		return true
	})
	return st
}
