package vm

import "math"

// Hint is the preferred type passed to ToPrimitive.
type Hint uint8

const (
	HintNone Hint = iota
	HintNumber
	HintString
)

// ToBoolean applies the ECMAScript truthiness table. It never fails.
func ToBoolean(v Value) bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.num != 0
	case KindNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindObject:
		return true
	}
	return v.Size() != 0
}

// ToPrimitive converts an object to a primitive by calling its valueOf and
// toString methods in hint order. Only callable methods are tried and the
// first primitive result wins. HintNone means HintString for Date objects
// and HintNumber otherwise. Primitives are returned unchanged.
func (s *State) ToPrimitive(v Value, hint Hint) (Value, error) {
	if v.kind != KindObject {
		return v, nil
	}
	obj := v.obj
	if hint == HintNone {
		hint = HintNumber
		if obj.class == ClassDate {
			hint = HintString
		}
	}
	order := [2]string{"valueOf", "toString"}
	if hint == HintString {
		order = [2]string{"toString", "valueOf"}
	}
	for _, method := range order {
		r, ok, err := s.callMethod(obj, method)
		if err != nil {
			return Undefined, err
		}
		if ok {
			return r, nil
		}
	}
	if s.config.Strict {
		return Undefined, s.TypeErrorf("cannot convert object to primitive")
	}
	return FromConstString("[object]"), nil
}

// callMethod calls obj[name]() if it is callable. ok reports whether the
// result is a primitive.
func (s *State) callMethod(obj *Object, name string) (Value, bool, error) {
	fn, err := s.GetValue(obj, name)
	if err != nil {
		return Undefined, false, err
	}
	if fn.kind != KindObject || !fn.obj.IsCallable() {
		return Undefined, false, nil
	}
	r, err := s.Call(fn.obj, FromObject(obj))
	if err != nil {
		return Undefined, false, err
	}
	return r, r.IsPrimitive(), nil
}

// ToNumber converts v to a number.
func (s *State) ToNumber(v Value) (float64, error) {
	switch v.kind {
	case KindUndefined:
		return math.NaN(), nil
	case KindNull:
		return 0, nil
	case KindBoolean, KindNumber:
		return v.num, nil
	case KindObject:
		p, err := s.ToPrimitive(v, HintNumber)
		if err != nil {
			return 0, err
		}
		return s.ToNumber(p)
	}
	return StringToNumber(v.Str()), nil
}

// ToInteger converts v to a clamped int32-range integer.
func (s *State) ToInteger(v Value) (int, error) {
	n, err := s.ToNumber(v)
	return NumberToInteger(n), err
}

func (s *State) ToInt32(v Value) (int32, error) {
	n, err := s.ToNumber(v)
	return NumberToInt32(n), err
}

func (s *State) ToUint32(v Value) (uint32, error) {
	n, err := s.ToNumber(v)
	return NumberToUint32(n), err
}

func (s *State) ToInt16(v Value) (int16, error) {
	n, err := s.ToNumber(v)
	return NumberToInt16(n), err
}

func (s *State) ToUint16(v Value) (uint16, error) {
	n, err := s.ToNumber(v)
	return NumberToUint16(n), err
}

// ToString converts v to its string content.
func (s *State) ToString(v Value) (string, error) {
	r, err := s.ToStringValue(v)
	if err != nil {
		return "", err
	}
	return r.Str(), nil
}

// ToStringValue converts v to a string value. Strings are returned as they
// are. Formatted numbers go inline when they fit and otherwise into an
// owned mem string, never into the interner.
func (s *State) ToStringValue(v Value) (Value, error) {
	switch v.kind {
	case KindUndefined:
		return FromConstString("undefined"), nil
	case KindNull:
		return FromConstString("null"), nil
	case KindBoolean:
		if v.num != 0 {
			return FromConstString("true"), nil
		}
		return FromConstString("false"), nil
	case KindNumber:
		return NewStringValue(NumberToString(v.num)), nil
	case KindObject:
		p, err := s.ToPrimitive(v, HintString)
		if err != nil {
			return Undefined, err
		}
		return s.ToStringValue(p)
	}
	return v, nil
}

// ToObject boxes a primitive. Undefined and null cannot be converted.
func (s *State) ToObject(v Value) (*Object, error) {
	switch v.kind {
	case KindUndefined:
		return nil, s.TypeErrorf("cannot convert undefined to object")
	case KindNull:
		return nil, s.TypeErrorf("cannot convert null to object")
	case KindBoolean:
		return s.NewBooleanObject(v.num != 0), nil
	case KindNumber:
		return s.NewNumberObject(v.num), nil
	case KindObject:
		return v.obj, nil
	}
	return s.NewStringObjectFrom(v)
}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// Concat implements the + operator: string concatenation when either
// operand is a string after ToPrimitive, numeric addition otherwise.
func (s *State) Concat(a, b Value) (Value, error) {
	a, err := s.ToPrimitive(a, HintNone)
	if err != nil {
		return Undefined, err
	}
	b, err = s.ToPrimitive(b, HintNone)
	if err != nil {
		return Undefined, err
	}
	if a.IsString() || b.IsString() {
		sa, err := s.ToString(a)
		if err != nil {
			return Undefined, err
		}
		sb, err := s.ToString(b)
		if err != nil {
			return Undefined, err
		}
		return NewStringValue(sa + sb), nil
	}
	x, _ := s.ToNumber(a)
	y, _ := s.ToNumber(b)
	return FromNumber(x + y), nil
}

// Compare orders a and b for the relational operators. It returns -1, 0
// or 1; ok is false when either side is NaN and the comparison is
// undefined.
func (s *State) Compare(a, b Value) (cmp int, ok bool, err error) {
	if a, err = s.ToPrimitive(a, HintNumber); err != nil {
		return 0, false, err
	}
	if b, err = s.ToPrimitive(b, HintNumber); err != nil {
		return 0, false, err
	}
	if a.IsString() && b.IsString() {
		sa, sb := a.Str(), b.Str()
		switch {
		case sa < sb:
			return -1, true, nil
		case sa > sb:
			return 1, true, nil
		}
		return 0, true, nil
	}
	x, _ := s.ToNumber(a)
	y, _ := s.ToNumber(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, false, nil
	}
	switch {
	case x < y:
		return -1, true, nil
	case x > y:
		return 1, true, nil
	}
	return 0, true, nil
}

// Equal implements the == operator.
func (s *State) Equal(x, y Value) (bool, error) {
	for {
		if x.IsString() && y.IsString() {
			return x.Str() == y.Str(), nil
		}
		if x.kind == y.kind {
			return StrictEqual(x, y), nil
		}
		switch {
		case x.kind == KindNull && y.kind == KindUndefined,
			x.kind == KindUndefined && y.kind == KindNull:
			return true, nil
		case x.kind == KindNumber && y.IsString():
			return x.num == StringToNumber(y.Str()), nil
		case x.IsString() && y.kind == KindNumber:
			return StringToNumber(x.Str()) == y.num, nil
		case x.kind == KindBoolean:
			x = FromNumber(x.num)
		case y.kind == KindBoolean:
			y = FromNumber(y.num)
		case (x.IsString() || x.kind == KindNumber) && y.kind == KindObject:
			p, err := s.ToPrimitive(y, HintNone)
			if err != nil {
				return false, err
			}
			y = p
		case x.kind == KindObject && (y.IsString() || y.kind == KindNumber):
			p, err := s.ToPrimitive(x, HintNone)
			if err != nil {
				return false, err
			}
			x = p
		default:
			return false, nil
		}
	}
}

// StrictEqual implements the === operator. Strings compare by content
// whatever their representation.
func StrictEqual(x, y Value) bool {
	if x.IsString() && y.IsString() {
		return x.Str() == y.Str()
	}
	if x.kind != y.kind {
		return false
	}
	switch x.kind {
	case KindUndefined, KindNull:
		return true
	case KindNumber, KindBoolean:
		return x.num == y.num
	case KindObject:
		return x.obj == y.obj
	}
	return false
}
