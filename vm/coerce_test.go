package vm

import (
	"math"
	"strings"
	"testing"
)

func native(s *State, name string, fn func(this Value) (Value, error)) Value {
	return FromObject(s.NewNativeFunction(func(_ *State, this Value, _ []Value) (Value, error) {
		return fn(this)
	}, name, 0))
}

func TestToBoolean(t *testing.T) {
	s := NewState()
	tests := []struct {
		v    Value
		want bool
	}{
		{Undefined, false},
		{Null, false},
		{True, true},
		{False, false},
		{FromNumber(0), false},
		{FromNumber(math.Copysign(0, -1)), false},
		{NaN, false},
		{FromNumber(-1), true},
		{NewStringValue(""), false},
		{NewStringValue("0"), true},
		{FromConstString(""), false},
		{s.NewLiteral("x"), true},
		{NewStringValue(strings.Repeat("long", 10)), true},
		{FromObject(s.NewObject()), true},
		{FromObject(s.NewBooleanObject(false)), true},
	}
	for i, tt := range tests {
		if got := ToBoolean(tt.v); got != tt.want {
			t.Errorf("case %d: ToBoolean(%v) = %v, want %v", i, tt.v.Kind(), got, tt.want)
		}
	}
}

func TestToNumberToStringScenario(t *testing.T) {
	s := NewState()
	n, err := s.ToNumber(NewStringValue("  42  "))
	if err != nil {
		t.Fatal(err)
	}
	str, err := s.ToString(FromNumber(n))
	if err != nil {
		t.Fatal(err)
	}
	if str != "42" {
		t.Errorf("ToString(ToNumber(\"  42  \")) = %q, want \"42\"", str)
	}

	if n, _ := s.ToNumber(NewStringValue("abc")); !math.IsNaN(n) {
		t.Errorf("ToNumber(\"abc\") = %v, want NaN", n)
	}
	if n, _ := s.ToNumber(NewStringValue("0x1F")); n != 31 {
		t.Errorf("ToNumber(\"0x1F\") = %v, want 31", n)
	}
}

func TestToNumberTable(t *testing.T) {
	s := NewState()
	tests := []struct {
		v    Value
		want float64
	}{
		{Null, 0},
		{True, 1},
		{False, 0},
		{FromNumber(2.5), 2.5},
		{FromConstString("7"), 7},
		{FromObject(s.NewNumberObject(9)), 9},
	}
	for _, tt := range tests {
		got, err := s.ToNumber(tt.v)
		if err != nil || got != tt.want {
			t.Errorf("ToNumber(%v) = %v, %v, want %v", tt.v.Kind(), got, err, tt.want)
		}
	}
	if got, _ := s.ToNumber(Undefined); !math.IsNaN(got) {
		t.Errorf("ToNumber(undefined) = %v, want NaN", got)
	}
}

func TestToStringValueKinds(t *testing.T) {
	s := NewState()
	tests := []struct {
		v        Value
		want     string
		wantKind Kind
	}{
		{Undefined, "undefined", KindConstString},
		{Null, "null", KindConstString},
		{True, "true", KindConstString},
		{FromNumber(12), "12", KindShortString},
		{FromNumber(0.1), "0.1", KindShortString},
		{FromNumber(1.0 / 3), "0.3333333333333333", KindMemString},
		{FromObject(s.NewObject()), "[object Object]", KindConstString},
	}
	for _, tt := range tests {
		got, err := s.ToStringValue(tt.v)
		if err != nil {
			t.Fatalf("ToStringValue(%v) error = %v", tt.v.Kind(), err)
		}
		if got.Str() != tt.want || got.Kind() != tt.wantKind {
			t.Errorf("ToStringValue(%v) = %q (%v), want %q (%v)", tt.v.Kind(), got.Str(), got.Kind(), tt.want, tt.wantKind)
		}
	}
}

func TestNumberFormattingDoesNotIntern(t *testing.T) {
	s := NewState()
	before := s.Interner().Len()
	for i := 0; i < 100; i++ {
		if _, err := s.ToString(FromNumber(float64(i) + 0.123456789)); err != nil {
			t.Fatal(err)
		}
	}
	if s.Interner().Len() != before {
		t.Errorf("formatting numbers grew the interner from %d to %d", before, s.Interner().Len())
	}
}

func TestToPrimitiveOrder(t *testing.T) {
	s := NewState()
	obj := s.NewObject()
	s.defineOwn(obj, "valueOf", native(s, "valueOf", func(Value) (Value, error) { return FromNumber(1), nil }), 0)
	s.defineOwn(obj, "toString", native(s, "toString", func(Value) (Value, error) { return NewStringValue("two"), nil }), 0)

	tests := []struct {
		hint Hint
		want string
	}{
		{HintNumber, "1"},
		{HintNone, "1"},
		{HintString, "two"},
	}
	for _, tt := range tests {
		v, err := s.ToPrimitive(FromObject(obj), tt.hint)
		if err != nil {
			t.Fatal(err)
		}
		got, _ := s.ToString(v)
		if got != tt.want {
			t.Errorf("ToPrimitive(hint %d) = %q, want %q", tt.hint, got, tt.want)
		}
	}
}

func TestToPrimitiveDateDefaultsToString(t *testing.T) {
	s := NewState()
	d := s.NewDate(0)
	s.defineOwn(d, "toString", native(s, "toString", func(Value) (Value, error) { return NewStringValue("date"), nil }), 0)
	v, err := s.ToPrimitive(FromObject(d), HintNone)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str() != "date" {
		t.Errorf("ToPrimitive(date, none) = %q, want \"date\"", v.Str())
	}
}

func TestToPrimitiveSkipsNonCallableAndObjects(t *testing.T) {
	s := NewState()
	obj := s.NewObject()
	s.defineOwn(obj, "valueOf", FromNumber(5), 0)
	s.defineOwn(obj, "toString", native(s, "toString", func(Value) (Value, error) {
		return FromObject(s.NewObject()), nil
	}), 0)

	v, err := s.ToPrimitive(FromObject(obj), HintNumber)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindConstString || v.Str() != "[object]" {
		t.Errorf("ToPrimitive() = %v %q, want const \"[object]\"", v.Kind(), v.Str())
	}

	s.SetStrict(true)
	if _, err := s.ToPrimitive(FromObject(obj), HintNumber); !IsTypeError(err) {
		t.Errorf("strict ToPrimitive() error = %v, want TypeError", err)
	}
}

func TestToPrimitivePropagatesErrors(t *testing.T) {
	s := NewState()
	obj := s.NewObject()
	s.defineOwn(obj, "valueOf", native(s, "valueOf", func(Value) (Value, error) {
		return Undefined, s.RangeErrorf("boom")
	}), 0)
	if _, err := s.ToNumber(FromObject(obj)); !IsRangeError(err) {
		t.Errorf("ToNumber() error = %v, want RangeError", err)
	}
}

func TestToObject(t *testing.T) {
	s := NewState()
	if _, err := s.ToObject(Undefined); !IsTypeError(err) {
		t.Errorf("ToObject(undefined) error = %v, want TypeError", err)
	}
	if _, err := s.ToObject(Null); !IsTypeError(err) {
		t.Errorf("ToObject(null) error = %v, want TypeError", err)
	}

	b, _ := s.ToObject(True)
	if b.Class() != ClassBoolean || !b.PrimitiveValue().Bool() {
		t.Error("ToObject(true) should box a true Boolean")
	}

	mem := NewStringValue("a mem string that is too long for inline storage")
	before := s.Interner().Len()
	obj, err := s.ToObject(mem)
	if err != nil {
		t.Fatal(err)
	}
	if obj.StringNode() != mem.Node() {
		t.Error("a String object should take over the mem string node")
	}
	if s.Interner().Len() != before {
		t.Error("boxing a mem string must not intern it")
	}

	short, _ := s.ToObject(NewStringValue("hi"))
	if short.StringNode() != s.Interner().Lookup("hi") {
		t.Error("boxing a short string should intern it")
	}
}

func TestConcat(t *testing.T) {
	s := NewState()
	tests := []struct {
		a, b Value
		want string
	}{
		{FromNumber(1), FromNumber(2), "3"},
		{NewStringValue("a"), FromNumber(1), "a1"},
		{FromNumber(1), NewStringValue("b"), "1b"},
		{True, FromNumber(1), "2"},
		{NewStringValue("x"), Undefined, "xundefined"},
		{FromObject(s.NewObject()), NewStringValue("!"), "[object Object]!"},
	}
	for _, tt := range tests {
		v, err := s.Concat(tt.a, tt.b)
		if err != nil {
			t.Fatal(err)
		}
		got, _ := s.ToString(v)
		if got != tt.want {
			t.Errorf("Concat(%v, %v) = %q, want %q", tt.a.Kind(), tt.b.Kind(), got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	s := NewState()
	tests := []struct {
		a, b   Value
		cmp    int
		wantOK bool
	}{
		{FromNumber(1), FromNumber(2), -1, true},
		{FromNumber(2), FromNumber(1), 1, true},
		{FromNumber(2), FromNumber(2), 0, true},
		{NewStringValue("a"), NewStringValue("b"), -1, true},
		{NewStringValue("10"), NewStringValue("9"), -1, true},
		{NewStringValue("10"), FromNumber(9), 1, true},
		{NaN, FromNumber(1), 0, false},
		{Undefined, FromNumber(1), 0, false},
	}
	for i, tt := range tests {
		cmp, ok, err := s.Compare(tt.a, tt.b)
		if err != nil {
			t.Fatal(err)
		}
		if cmp != tt.cmp || ok != tt.wantOK {
			t.Errorf("case %d: Compare() = %d, %v, want %d, %v", i, cmp, ok, tt.cmp, tt.wantOK)
		}
	}
}

func TestEqual(t *testing.T) {
	s := NewState()
	obj := s.NewObject()
	tests := []struct {
		a, b Value
		want bool
	}{
		{Undefined, Null, true},
		{Null, Undefined, true},
		{FromNumber(1), NewStringValue("1"), true},
		{NewStringValue("1"), FromNumber(1), true},
		{True, FromNumber(1), true},
		{False, NewStringValue("0"), true},
		{NewStringValue("abc"), s.NewLiteral("abc"), true},
		{FromNumber(1), FromObject(s.NewNumberObject(1)), true},
		{FromObject(obj), FromObject(obj), true},
		{FromObject(obj), FromObject(s.NewObject()), false},
		{NaN, NaN, false},
		{Null, FromNumber(0), false},
		{Undefined, False, false},
	}
	for i, tt := range tests {
		got, err := s.Equal(tt.a, tt.b)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("case %d: Equal(%v, %v) = %v, want %v", i, tt.a.Kind(), tt.b.Kind(), got, tt.want)
		}
	}
}

func TestStrictEqual(t *testing.T) {
	long := strings.Repeat("same", 8)
	tests := []struct {
		a, b Value
		want bool
	}{
		{NewStringValue(long), FromConstString(long), true},
		{FromNumber(1), NewStringValue("1"), false},
		{FromNumber(0), FromNumber(math.Copysign(0, -1)), true},
		{NaN, NaN, false},
		{Null, Undefined, false},
		{True, True, true},
	}
	for i, tt := range tests {
		if got := StrictEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("case %d: StrictEqual() = %v, want %v", i, got, tt.want)
		}
	}
}

func TestIntegerCoercions(t *testing.T) {
	s := NewState()
	v := NewStringValue("4294967297.7")
	if n, _ := s.ToInteger(v); n != math.MaxInt32 {
		t.Errorf("ToInteger() = %d, want %d", n, math.MaxInt32)
	}
	if n, _ := s.ToInt32(v); n != 1 {
		t.Errorf("ToInt32() = %d, want 1", n)
	}
	if n, _ := s.ToUint32(FromNumber(-1)); n != math.MaxUint32 {
		t.Errorf("ToUint32(-1) = %d, want %d", n, uint32(math.MaxUint32))
	}
	if n, _ := s.ToInt16(FromNumber(65535)); n != -1 {
		t.Errorf("ToInt16(65535) = %d, want -1", n)
	}
	if n, _ := s.ToUint16(FromNumber(65536)); n != 0 {
		t.Errorf("ToUint16(65536) = %d, want 0", n)
	}
}
